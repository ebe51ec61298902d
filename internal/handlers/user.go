package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"staymypg/internal/middleware"
	"staymypg/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles registration and session HTTP requests
type UserHandler struct {
	userService    *services.UserService
	sessionService *services.SessionService
	cookieName     string
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, sessionService *services.SessionService, cookieName string) *UserHandler {
	return &UserHandler{
		userService:    userService,
		sessionService: sessionService,
		cookieName:     cookieName,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			respondError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrUserExists):
			respondError(w, err.Error(), http.StatusConflict)
		default:
			log.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
			respondError(w, "Failed to register user", http.StatusInternalServerError)
		}
		return
	}

	log.Info().Str("username", user.Username).Msg("User registered")

	respondJSON(w, http.StatusCreated, map[string]string{
		"username": user.Username,
		"email":    user.Email,
	})
}

// Login handles POST /api/v1/sessions
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Msg("Failed to authenticate user")
		respondError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	token, session, err := h.sessionService.Create(*user)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to create session")
		respondError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(h.sessionService.TTL() / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info().Str("username", user.Username).Msg("User logged in")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":   token,
		"session": session,
	})
}

// Logout handles DELETE /api/v1/sessions
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	for _, token := range middleware.TokensFromRequest(r, h.cookieName) {
		h.sessionService.Destroy(token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/sessions/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		respondError(w, "not logged in", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

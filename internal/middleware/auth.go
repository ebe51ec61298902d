package middleware

import (
	"context"
	"net/http"
	"strings"

	"staymypg/internal/models"
	"staymypg/internal/services"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionLookup resolves a session token
type SessionLookup interface {
	Lookup(token string) (*models.Session, error)
}

// SessionMiddleware attaches the caller's session, if any, to the request
// context. The session cookie is tried first, then a Bearer header, so a
// stale cookie does not hide a valid header token.
func SessionMiddleware(sessions SessionLookup, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, token := range TokensFromRequest(r, cookieName) {
				if session, err := sessions.Lookup(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), sessionKey, session))
					break
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests without a session
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSession(r.Context()) == nil {
			respondError(w, "login required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TokensFromRequest returns the session tokens carried by r, cookie first
func TokensFromRequest(r *http.Request, cookieName string) []string {
	var tokens []string
	for _, token := range []string{cookieToken(r, cookieName), bearerToken(r)} {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func cookieToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func bearerToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// GetSession extracts the session from context
func GetSession(ctx context.Context) *models.Session {
	session, ok := ctx.Value(sessionKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

var _ SessionLookup = (*services.SessionService)(nil)

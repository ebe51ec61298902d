package services

import (
	"fmt"
	"time"

	"staymypg/internal/models"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionService issues session tokens and keeps live sessions in a TTL cache.
// A token is only valid while its session id is still cached.
type SessionService struct {
	cache  *ristretto.Cache[string, models.Session]
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(secret string, ttl time.Duration) (*SessionService, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret cannot be empty")
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, models.Session]{
		NumCounters:        1_000_000,
		MaxCost:            100_000, // one unit per session
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &SessionService{
		cache:  cache,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns the session lifetime
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create starts a session for user and returns its signed token
func (s *SessionService) Create(user models.User) (string, *models.Session, error) {
	now := s.now()
	session := models.Session{
		ID:        newID(),
		User:      models.SessionUser{Name: user.Username, Email: user.Email},
		ExpiresAt: now.Add(s.ttl),
	}

	claims := jwt.MapClaims{
		"sid":   session.ID,
		"name":  session.User.Name,
		"email": session.User.Email,
		"exp":   session.ExpiresAt.Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if !s.cache.SetWithTTL(session.ID, session, 1, s.ttl) {
		return "", nil, fmt.Errorf("failed to store session")
	}
	s.cache.Wait()

	return tokenString, &session, nil
}

// Lookup returns the live session behind token
func (s *SessionService) Lookup(tokenString string) (*models.Session, error) {
	sid, err := s.parse(tokenString, true)
	if err != nil {
		return nil, err
	}
	session, ok := s.cache.Get(sid)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// Destroy ends the session behind token. Unknown tokens are ignored.
func (s *SessionService) Destroy(tokenString string) {
	sid, err := s.parse(tokenString, false)
	if err != nil {
		return
	}
	s.cache.Del(sid)
	s.cache.Wait()
}

// Close releases the session cache
func (s *SessionService) Close() {
	s.cache.Close()
}

func (s *SessionService) parse(tokenString string, validateClaims bool) (string, error) {
	if tokenString == "" {
		return "", ErrSessionNotFound
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now)}
	if !validateClaims {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", ErrSessionNotFound
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrSessionNotFound
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrSessionNotFound
	}
	return sid, nil
}

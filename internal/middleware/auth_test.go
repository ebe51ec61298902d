package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"staymypg/internal/models"
	"staymypg/internal/services"

	"github.com/stretchr/testify/assert"
)

type fakeSessions map[string]*models.Session

func (f fakeSessions) Lookup(token string) (*models.Session, error) {
	if s, ok := f[token]; ok {
		return s, nil
	}
	return nil, services.ErrSessionNotFound
}

func TestSessionMiddleware(t *testing.T) {
	sessions := fakeSessions{"good": {ID: "s1", User: models.SessionUser{Name: "asha"}}}

	var seen *models.Session
	h := SessionMiddleware(sessions, "sid")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "good"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if assert.NotNil(t, seen) {
		assert.Equal(t, "asha", seen.User.Name)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotNil(t, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "stale"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Nil(t, seen)
}

func TestSessionMiddleware_StaleCookieFallsBackToBearer(t *testing.T) {
	sessions := fakeSessions{"good": {ID: "s1", User: models.SessionUser{Name: "asha"}}}

	var seen *models.Session
	h := SessionMiddleware(sessions, "sid")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "expired"})
	req.Header.Set("Authorization", "Bearer good")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if assert.NotNil(t, seen) {
		assert.Equal(t, "s1", seen.ID)
	}
}

func TestRequireSession(t *testing.T) {
	sessions := fakeSessions{"good": {ID: "s1"}}
	h := SessionMiddleware(sessions, "sid")(RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"login required"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTokensFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokensFromRequest(req, "sid"))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, TokensFromRequest(req, "sid"))

	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: "sid", Value: "cookie-token"})
	assert.Equal(t, []string{"cookie-token", "header-token"}, TokensFromRequest(req, "sid"))
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dan9191/loan-registry/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	return &config.Config{JWTSecret: "test-secret", AdminPasswordHash: string(hash)}
}

func protectedHandler(cfg *config.Config) http.Handler {
	return AuthMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ := r.Context().Value(SubjectKey).(string)
		w.Write([]byte(subject))
	}))
}

func TestIssueToken(t *testing.T) {
	cfg := authConfig(t)

	token, err := IssueToken(cfg, "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = IssueToken(cfg, "wrong")
	assert.Error(t, err)

	_, err = IssueToken(&config.Config{}, "hunter2")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	cfg := authConfig(t)
	token, err := IssueToken(cfg, "hunter2")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/records", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		protectedHandler(cfg).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "operator", w.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/records", nil)
		w := httptest.NewRecorder()
		protectedHandler(cfg).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := *cfg
		other.JWTSecret = "another-secret"
		req := httptest.NewRequest(http.MethodPost, "/records", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		protectedHandler(&other).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "operator",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}).SignedString([]byte(cfg.JWTSecret))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/records", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		w := httptest.NewRecorder()
		protectedHandler(cfg).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("auth disabled", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/records", nil)
		w := httptest.NewRecorder()
		protectedHandler(&config.Config{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

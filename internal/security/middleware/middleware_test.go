package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/security/audit"
	"github.com/scottkoskoski/gardening-app/internal/security/ratelimit"
)

type stubVerifier map[string]int64

func (s stubVerifier) VerifyToken(token string) (int64, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, &domain.Error{Kind: domain.KindUnauthorized, Message: "token expired", Err: errors.New("exp")}
}

type stubAdmins map[int64]bool

func (s stubAdmins) RequireAdmin(_ context.Context, userID int64) error {
	if s[userID] {
		return nil
	}
	return domain.Forbidden("admin privileges required")
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strings.Repeat("u", int(id))))
}

func TestAuthenticate(t *testing.T) {
	h := Authenticate(stubVerifier{"good": 3}, slog.Default())(http.HandlerFunc(echoUser))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "invalid authorization header"},
		{"rejected token", "Bearer bad", http.StatusUnauthorized, "token expired"},
		{"valid", "Bearer good", http.StatusOK, "uuu"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/get_user", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(stubAdmins{1: true}, audit.NewLogger(nil))(http.HandlerFunc(echoUser))

	for id, want := range map[int64]int{1: http.StatusOK, 2: http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/users/inactive_users", nil)
		req = req.WithContext(WithUserID(req.Context(), id))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "user %d", id)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/inactive_users", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimitByClientIP(t *testing.T) {
	limiter := ratelimit.NewLimiter(6) // burst 1
	defer limiter.Stop()
	h := RateLimit(limiter, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:5678"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1234"))
}

func TestRequestIDAndContentType(t *testing.T) {
	h := RequestID(ValidateJSONContentType(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))

	req := httptest.NewRequest(http.MethodPost, "/plants", strings.NewReader("name=Kale"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	req = httptest.NewRequest(http.MethodPost, "/plants", strings.NewReader(`{"name":"Kale"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("X-Request-Id", "fixed")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "fixed", rec.Header().Get("X-Request-Id"))
}

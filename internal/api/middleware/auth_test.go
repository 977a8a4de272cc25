package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelwits/travelwits/internal/api/middleware"
	"github.com/travelwits/travelwits/internal/auth"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "travelwits",
		Audience:   "travelwits-ops",
	})
}

func mintToken(t *testing.T, role string) string {
	t.Helper()
	token, _, err := testJWTService().GenerateToken("ops@travelwits", role, time.Hour)
	require.NoError(t, err)
	return token
}

func serveAuth(role, header string) *httptest.ResponseRecorder {
	handler := middleware.Auth(testJWTService(), role)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/catalog/regenerate", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuth_MissingAuthorizationHeader(t *testing.T) {
	rec := serveAuth(auth.RoleOperator, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization header")
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestAuth_RejectedHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "token123"},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"garbage token", "bearer token123"},
		{"empty bearer", "Bearer "},
		{"just bearer", "Bearer"},
		{"malformed jwt", "Bearer invalid.jwt.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveAuth(auth.RoleOperator, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuth_ValidOperatorToken(t *testing.T) {
	token := mintToken(t, auth.RoleOperator)

	var subject string
	var claims *auth.Claims
	handler := middleware.Auth(testJWTService(), auth.RoleOperator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = middleware.GetSubject(r.Context())
		claims = middleware.GetClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	for _, prefix := range []string{"Bearer ", "bearer ", "BEARER "} {
		t.Run(prefix, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
			req.Header.Set("Authorization", prefix+token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "ops@travelwits", subject)
			require.NotNil(t, claims)
			assert.Equal(t, auth.RoleOperator, claims.Role)
		})
	}
}

func TestAuth_RoleChecks(t *testing.T) {
	viewer := mintToken(t, auth.RoleViewer)
	operator := mintToken(t, auth.RoleOperator)

	assert.Equal(t, http.StatusOK, serveAuth(auth.RoleViewer, "Bearer "+viewer).Code)
	assert.Equal(t, http.StatusOK, serveAuth(auth.RoleViewer, "Bearer "+operator).Code)

	rec := serveAuth(auth.RoleOperator, "Bearer "+viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "operator")
}

func TestAuth_TokenFromOtherAudience(t *testing.T) {
	other := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "travelwits",
		Audience:   "somewhere-else",
	})
	token, _, err := other.GenerateToken("ops", auth.RoleOperator, time.Hour)
	require.NoError(t, err)

	rec := serveAuth(auth.RoleOperator, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid access token")
}

func TestGetSubject_NoAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	assert.Empty(t, middleware.GetSubject(req.Context()))
	assert.Nil(t, middleware.GetClaims(req.Context()))
}

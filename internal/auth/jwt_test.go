package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "travelwits",
		Audience:   "travelwits-ops",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestService()

	token, expiresAt, err := svc.GenerateToken("ops@travelwits", RoleOperator, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@travelwits", claims.Subject)
	assert.Equal(t, RoleOperator, claims.Role)
	assert.Equal(t, "travelwits", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.HasRole(RoleOperator))
	assert.True(t, claims.HasRole(RoleViewer))
}

func TestJWTService_ViewerIsNotOperator(t *testing.T) {
	svc := newTestService()

	token, _, err := svc.GenerateToken("dashboard", RoleViewer, 0)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.HasRole(RoleViewer))
	assert.False(t, claims.HasRole(RoleOperator))
}

func TestJWTService_UnknownRole(t *testing.T) {
	_, _, err := newTestService().GenerateToken("ops", "admin", time.Hour)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestJWTService_TTLIsCapped(t *testing.T) {
	_, expiresAt, err := newTestService().GenerateToken("ops", RoleOperator, 365*24*time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(MaxTokenExpiry), expiresAt, 5*time.Second)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestService()
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	token, _, err := svc.GenerateToken("ops", RoleOperator, time.Hour)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTService_WrongKeyOrAudience(t *testing.T) {
	token, _, err := newTestService().GenerateToken("ops", RoleOperator, time.Hour)
	require.NoError(t, err)

	otherKey := NewJWTService(JWTConfig{SigningKey: "another-key", Issuer: "travelwits", Audience: "travelwits-ops"})
	_, err = otherKey.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherAudience := NewJWTService(JWTConfig{SigningKey: "test-secret-key-for-testing-only", Issuer: "travelwits", Audience: "someone-else"})
	_, err = otherAudience.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "travelwits",
			Subject:   "ops",
			Audience:  jwt.ClaimStrings{"travelwits-ops"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: RoleOperator,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestService().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// Package auth issues and validates the JWTs that guard the maintenance API.
//
// Only operators authenticate. Travelers plan trips anonymously, so there are
// no user accounts, sessions or refresh tokens: an operator token is minted
// out of band (cmd/opstoken) and presented as a Bearer token until it expires.
package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token policy.
const (
	// DefaultTokenExpiry is how long an operator token is valid unless overridden.
	DefaultTokenExpiry = 12 * time.Hour

	// MaxTokenExpiry caps requested lifetimes.
	MaxTokenExpiry = 30 * 24 * time.Hour
)

// Roles carried in the "role" claim.
const (
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

// Predefined JWT errors.
var (
	ErrInvalidToken = errors.New("invalid access token")
	ErrTokenExpired = errors.New("access token has expired")
	ErrUnknownRole  = errors.New("unknown role")
)

// Claims are the claims in an operator token.
type Claims struct {
	jwt.RegisteredClaims

	// Role is RoleOperator or RoleViewer.
	Role string `json:"role"`
}

// HasRole reports whether the claims carry role. Operators hold every role.
func (c *Claims) HasRole(role string) bool {
	return c.Role == role || c.Role == RoleOperator
}

// JWTService handles token creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

// JWTConfig holds configuration for the JWT service.
type JWTConfig struct {
	// SigningKey is the HMAC secret used to sign tokens.
	SigningKey string

	// Issuer is the issuer claim (e.g., "travelwits").
	Issuer string

	// Audience is the audience claim (e.g., "travelwits-ops").
	Audience string
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg JWTConfig) *JWTService {
	return &JWTService{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		now:        time.Now,
	}
}

// GenerateToken mints a token for subject with the given role and lifetime.
// A zero ttl uses DefaultTokenExpiry.
func (s *JWTService) GenerateToken(subject, role string, ttl time.Duration) (string, time.Time, error) {
	if !slices.Contains([]string{RoleOperator, RoleViewer}, role) {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if ttl <= 0 {
		ttl = DefaultTokenExpiry
	}
	ttl = min(ttl, MaxTokenExpiry)

	now := s.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a token and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims, nil
}

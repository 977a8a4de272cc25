package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/travelwits/travelwits/internal/api/models"
	"github.com/travelwits/travelwits/internal/auth"
)

type claimsKey struct{}

// Auth requires a valid bearer token carrying role. Missing or invalid
// tokens get 401; a valid token lacking the role gets 403.
func Auth(tokens *auth.JWTService, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, detail := bearerToken(r)
			if detail != "" {
				writeUnauthorized(w, r, detail)
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					writeUnauthorized(w, r, "access token has expired")
				} else {
					writeUnauthorized(w, r, "invalid access token")
				}
				return
			}

			if !claims.HasRole(role) {
				models.NewForbidden(GetRequestID(r.Context()), "token lacks the "+role+" role").
					WithInstance(r.URL.Path).
					Write(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header. A non-empty
// detail describes why the header was rejected.
func bearerToken(r *http.Request) (token, detail string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "missing authorization header"
	}

	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "invalid authorization header format"
	}

	token = strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", "missing bearer token"
	}
	return token, ""
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="travelwits"`)
	models.NewUnauthorized(GetRequestID(r.Context()), detail).
		WithInstance(r.URL.Path).
		Write(w)
}

// GetClaims returns the claims of the authenticated token, or nil.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

// GetSubject returns the authenticated token subject, or "".
func GetSubject(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.Subject
	}
	return ""
}

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/arnavdeep/vidtube-be/internal/api/respond"
)

// UserClaimsKey is the context key for user claims.
type contextKey string

const UserClaimsKey = contextKey("userClaims")

// ClaimsFrom extracts the authenticated user's claims from a request context.
func ClaimsFrom(ctx context.Context) (*AccessClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*AccessClaims)
	return claims, ok
}

// Middleware creates a middleware for protecting routes. The access token is
// read from the Authorization header or the accessToken cookie.
func Middleware(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try to get the token from the Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, "Bearer ")
				if len(parts) == 2 {
					tokenStr = parts[1]
				}
			}

			// 2. If not in header, fall back to the cookie
			if tokenStr == "" {
				if cookie, err := r.Cookie("accessToken"); err == nil {
					tokenStr = cookie.Value
				}
			}

			// 3. If we still have no token, fail
			if tokenStr == "" {
				respond.Fail(w, http.StatusUnauthorized, "authentication required")
				return
			}

			// 4. Validate the token
			claims, err := issuer.VerifyAccess(tokenStr)
			if err != nil {
				respond.Fail(w, http.StatusUnauthorized, "invalid access token")
				return
			}

			// 5. Pass claims down via context
			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"tally/internal/domain/user"
	"tally/internal/shared/auth"
)

type ContextKey string

// CurrentUserKey holds the resolved *user.User for the request.
const CurrentUserKey ContextKey = "current_user"

// CurrentUser returns the authenticated user stored by Auth, or nil.
func CurrentUser(ctx context.Context) *user.User {
	u, _ := ctx.Value(CurrentUserKey).(*user.User)
	return u
}

// Auth verifies the bearer token and resolves its subject against the
// credential store. All failures (missing token, bad signature, expiry,
// unknown subject, disabled account) collapse to a single 401 with a
// bearer challenge; callers learn nothing about which step failed.
func Auth(jwt *auth.JWT, users user.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			// Try HttpOnly cookie first (browser requests)
			if cookie, err := r.Cookie("access_token"); err == nil {
				token = cookie.Value
			} else {
				// Fall back to Authorization header (API clients)
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					unauthorized(w, "Authentication required")
					return
				}
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || parts[0] != "Bearer" {
					unauthorized(w, "Invalid authorization header format")
					return
				}
				token = parts[1]
			}

			claims, err := jwt.Validate(token)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			u, err := users.GetByUsername(r.Context(), claims.Username())
			if errors.Is(err, user.ErrNotFound) {
				// Token subject no longer exists
				unauthorized(w, "Could not validate credentials")
				return
			}
			if err != nil {
				unauthorized(w, "Could not validate credentials")
				return
			}
			if u.Disabled {
				unauthorized(w, "Could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), CurrentUserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, msg, http.StatusUnauthorized)
}

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tasknest/vault-backend/interfaces"
)

type contextKey struct{}

var userKey contextKey

// FromContext returns the authenticated user id placed by Middleware.
func FromContext(ctx context.Context) (interfaces.UserID, bool) {
	id, ok := ctx.Value(userKey).(interfaces.UserID)
	return id, ok
}

// WithUser returns a context carrying an authenticated user id. Exported for
// handler tests that bypass the middleware.
func WithUser(ctx context.Context, id interfaces.UserID) context.Context {
	return context.WithValue(ctx, userKey, id)
}

// Middleware verifies the Authorization bearer token and injects the user id
// into the request context. Requests without a valid access token get 401.
func Middleware(issuer *TokenIssuer, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			user, err := issuer.VerifyAccess(token)
			if err != nil {
				log.Debug("Rejected access token", "err", err)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

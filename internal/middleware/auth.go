package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/tapi-ai/simulator/backend/internal/model/access"
	"github.com/tapi-ai/simulator/backend/pkg/utils"
)

type contextKey string

const sessionContextKey contextKey = "access-session"

// SessionResolver maps a bearer token back to its access session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (access.Session, error)
}

// RequireAccessToken rejects requests without a valid X-Access-Token and
// stores the resolved session in the request context.
func RequireAccessToken(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get("X-Access-Token"))
			if token == "" {
				utils.RespondError(w, http.StatusUnauthorized, "access token required")
				return
			}

			session, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "invalid or expired access token")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the access session the auth middleware resolved.
func SessionFrom(ctx context.Context) (access.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(access.Session)
	return session, ok
}

// RequireAdminKey rejects requests whose X-Admin-Key does not match the
// configured shared secret exactly.
func RequireAdminKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Key")
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				utils.RespondError(w, http.StatusUnauthorized, "invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

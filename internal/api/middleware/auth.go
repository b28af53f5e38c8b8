package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/stackkit/auth-starter/internal/domain"
	"github.com/stackkit/auth-starter/internal/service"
	"github.com/stackkit/auth-starter/internal/session"
)

// Unexported struct keys keep the attached identity typed and collision-proof.
type userContextKey struct{}
type sessionContextKey struct{}

// Auth gates protected endpoints. The pipeline is linear and never retried:
// cookie -> session lookup (provider) -> user re-check (store) -> attach.
// Every rejection path produces the identical 401 so callers cannot tell a
// stale token from a deactivated account.
func Auth(authService *service.AuthService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := session.TokenFromRequest(r)
			if !ok {
				respondUnauthorized(w)
				return
			}

			sess, _, err := authService.ResolveSession(r.Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthorized) {
					log.Printf("ERROR [middleware.Auth] session lookup failed: %v", err)
				}
				respondUnauthorized(w)
				return
			}

			// Re-check the account against the store; the provider considering
			// the token unexpired is not enough.
			user, err := userService.FindOne(r.Context(), sess.UserID)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					log.Printf("ERROR [middleware.Auth] user lookup failed: %v", err)
				}
				respondUnauthorized(w)
				return
			}
			if !user.IsActive {
				respondUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			ctx = context.WithValue(ctx, sessionContextKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the authenticated user attached by Auth.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*domain.User)
	return user, ok
}

// GetSession returns the resolved session attached by Auth.
func GetSession(ctx context.Context) (*domain.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*domain.Session)
	return sess, ok
}

package usage

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Mohnish27-dev/protocol-zero/handler"
	"github.com/Mohnish27-dev/protocol-zero/pkg/logger"
)

// DefaultUserHeader carries the caller's user id, set by the upstream identity layer.
const DefaultUserHeader = "X-User-ID"

// UserResolver returns the authenticated caller's user id, or "" when the
// request carries no identity.
type UserResolver func(r *http.Request) string

// HeaderUserResolver reads the user id from a request header.
func HeaderUserResolver(header string) UserResolver {
	return func(r *http.Request) string {
		return strings.TrimSpace(r.Header.Get(header))
	}
}

type userKey struct{}

func withUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserIDFromContext returns the user id stored by the identity middleware.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}

// UserLoggerExtractor adds "user_id" to records logged within an identified request.
func UserLoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := UserIDFromContext(ctx); id != "" {
			return logger.UserID(id), true
		}
		return slog.Attr{}, false
	}
}

// requireUser rejects requests without an identity with 401.
func requireUser(resolve UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := resolve(r)
			if id == "" {
				_ = handler.JSONError(handler.ErrUnauthorized).Render(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), id)))
		})
	}
}

// requireAdmin checks a static bearer token. An empty token disables the admin routes.
func requireAdmin(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				_ = handler.JSONError(handler.ErrForbidden).Render(w, r)
				return
			}
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				_ = handler.JSONError(handler.ErrUnauthorized).Render(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

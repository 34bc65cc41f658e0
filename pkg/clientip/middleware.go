package clientip

import "net/http"

// Middleware resolves the client IP from headers, in order, and stores it in
// the request context. With no headers given it uses DefaultHeaders.
func Middleware(headers ...string) func(http.Handler) http.Handler {
	if len(headers) == 0 {
		headers = DefaultHeaders
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithContext(r.Context(), FromHeaders(r, headers...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

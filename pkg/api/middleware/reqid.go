package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestIDHeader is the header used to both accept a caller-supplied
// request ID and echo back the one this middleware assigned.
const RequestIDHeader = "X-Request-Id"

// NewReqID assigns a request ID to every inbound request, reusing one the
// caller already supplied via RequestIDHeader, and stores it in the
// request context for handlers and logging to pick up.
func NewReqID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext returns the request ID stashed by NewReqID, or ""
// when none was ever assigned (for example, in a test calling a handler
// directly without the middleware chain).
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

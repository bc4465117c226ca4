package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Use applies middlewares to handler in the order given, so the first
// middleware listed is the outermost one a request passes through.
func Use(handler http.HandlerFunc, middlewares ...Middleware) http.Handler {
	var wrapped http.Handler = handler

	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

package middleware

import (
	"context"
	"net/http"
	"time"
)

// RequestTimeout bounds the request context of slow endpoints such as image OCR.
// The server's WriteTimeout still applies and must be at least as long.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

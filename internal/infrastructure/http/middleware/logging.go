package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	ctxutil "3tcapital/ms_kyc_core/internal/infrastructure/context"
	"3tcapital/ms_kyc_core/internal/infrastructure/security"
)

// RequestLogger returns a middleware that logs one line per HTTP request.
// It adds the correlation ID to the request context for downstream use.
// Query strings are logged with credentials redacted; bodies are never logged.
// The matched route pattern is logged next to the path so document and user
// ids can be filtered out of dashboards.
// Log levels are determined by status code:
//   - Info: 2xx, 3xx
//   - Warn: 4xx
//   - Error: 5xx
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chimw.GetReqID(r.Context())
			ctx := ctxutil.WithCorrelationID(r.Context(), requestID)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			log.Debug("HTTP request headers",
				"correlation_id", requestID,
				"headers", security.SanitizeHeaders(r.Header),
			)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(time.Since(start).Nanoseconds()) / 1e6,
				"bytes", ww.BytesWritten(),
			}

			if route := routePattern(r); route != "" {
				attrs = append(attrs, "route", route)
			}
			if r.URL.RawQuery != "" {
				attrs = append(attrs, "query", security.SanitizeURL(r.URL.RawQuery))
			}
			if requestID != "" {
				attrs = append(attrs, "correlation_id", requestID)
			}
			if contentType := r.Header.Get("Content-Type"); contentType != "" {
				attrs = append(attrs, "content_type", contentType)
			}
			if r.ContentLength > 0 {
				attrs = append(attrs, "request_bytes", r.ContentLength)
			}
			if userAgent := r.Header.Get("User-Agent"); userAgent != "" {
				attrs = append(attrs, "user_agent", userAgent)
			}

			switch {
			case status >= 500:
				log.Error("HTTP request", attrs...)
			case status >= 400:
				log.Warn("HTTP request", attrs...)
			default:
				log.Info("HTTP request", attrs...)
			}
		})
	}
}

// routePattern returns the chi pattern that served r, e.g.
// "/api/v1/kyc/documents/{documentId}", or "" outside a chi router.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/angelmondragon/storefront-client/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics records every request under its route pattern. Responses of 400
// and above count as failures labelled with the status code.
func Metrics(m *metrics.OperationMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			pattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}
			code := ""
			if status := rec.code(); status >= http.StatusBadRequest {
				code = strconv.Itoa(status)
			}
			m.Observe(r.Method+" "+pattern, start, code)
		})
	}
}

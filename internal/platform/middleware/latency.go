package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"traceline/internal/platform/metrics"
)

// Latency records request duration against the matched chi route pattern so
// parameterized paths don't explode label cardinality.
func Latency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			m.ObserveRequest(r.Method, route, time.Since(start))
		})
	}
}

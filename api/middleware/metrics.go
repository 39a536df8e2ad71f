package middleware

import (
	"net/http"
	"time"

	"github.com/vietthreads/backoffice-backend/pkg/metrics"
)

// Metrics records request counts and latencies against the chi route
// pattern, so path parameters never explode label cardinality.
func Metrics(m *metrics.ServiceMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			m.ObserveRequest(r.Method, routePattern(r), rec.status, time.Since(start))
		})
	}
}

// Package metrics exposes the service's Prometheus instrumentation: HTTP
// request counters and the skill catalog sync counters.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	skillsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skill_sync_created_total",
			Help: "Skill catalog rows created by sync jobs",
		},
	)

	skillsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skill_sync_skipped_total",
			Help: "Skill titles skipped by sync jobs because they already existed",
		},
	)
)

// ObserveSkillSync records the outcome of one catalog sync run.
func ObserveSkillSync(created, skipped int) {
	skillsCreatedTotal.Add(float64(created))
	skillsSkippedTotal.Add(float64(skipped))
}

// Handler returns the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware collects per-route request counts and latencies. The path
// label uses the chi route pattern, not the raw URL, to keep cardinality
// bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(rw.statusCode)
		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).
			Observe(time.Since(start).Seconds())
	})
}

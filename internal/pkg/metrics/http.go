// internal/pkg/metrics/http.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records served requests.
type HTTPMetrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	recovered *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	recovered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "page_failures_recovered_total",
		Help: "Failures caught while composing a page.",
	}, []string{"scope", "severity"})
	reg.MustRegister(requests, duration, recovered)
	return &HTTPMetrics{
		requests:  requests,
		duration:  duration,
		recovered: recovered,
	}
}

// ObserveRequest records one served request.
func (h *HTTPMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	route = normalizeLabel(route)
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncRecovered counts a failure replaced by a fallback.
func (h *HTTPMetrics) IncRecovered(scope, severity string) {
	if h == nil || h.recovered == nil {
		return
	}
	h.recovered.WithLabelValues(normalizeLabel(scope), normalizeLabel(severity)).Inc()
}

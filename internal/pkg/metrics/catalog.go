// internal/pkg/metrics/catalog.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics records product listing queries.
type CatalogMetrics struct {
	duration *prometheus.HistogramVec
	degraded *prometheus.CounterVec
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_query_duration_seconds",
		Help:    "Duration of product listing queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"listing"})
	degraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_degraded_total",
		Help: "Listings served empty because of a store failure or lookup miss.",
	}, []string{"reason"})
	reg.MustRegister(duration, degraded)
	return &CatalogMetrics{
		duration: duration,
		degraded: degraded,
	}
}

// ObserveQuery records how long a listing query took.
func (c *CatalogMetrics) ObserveQuery(listing string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(listing)).Observe(duration.Seconds())
}

// IncDegraded counts a listing that fell back to an empty page.
func (c *CatalogMetrics) IncDegraded(reason string) {
	if c == nil || c.degraded == nil {
		return
	}
	c.degraded.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

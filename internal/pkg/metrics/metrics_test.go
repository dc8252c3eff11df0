package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogMetricsExportsHistogramAndCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCatalogMetrics(reg)
	m.ObserveQuery("storefront", 40*time.Millisecond)
	m.IncDegraded("store_error")
	m.IncDegraded("store_error")
	m.IncDegraded("")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	sum, err := fetchHistogramSum(mfs, "catalog_query_duration_seconds", "listing", "storefront")
	require.NoError(t, err)
	assert.Greater(t, sum, 0.0)

	got, err := fetchCounterValue(mfs, "catalog_degraded_total", "reason", "store_error")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = fetchCounterValue(mfs, "catalog_degraded_total", "reason", "unknown")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestCartMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)
	m.IncMutation("add")
	m.IncPersistFailure()

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "cart_mutations_total", "op", "add")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	mf := findMetricFamily(mfs, "cart_persist_failures_total")
	require.NotNil(t, mf)
	assert.Equal(t, 1.0, mf.GetMetric()[0].GetCounter().GetValue())
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest("GET", "/api/v1/products", 200, time.Millisecond)
	m.IncRecovered("products", "error")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "http_requests_total", "status", "200")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = fetchCounterValue(mfs, "page_failures_recovered_total", "scope", "products")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var catalog *CatalogMetrics
	var cart *CartMetrics
	var web *HTTPMetrics

	assert.NotPanics(t, func() {
		catalog.ObserveQuery("x", time.Second)
		catalog.IncDegraded("x")
		cart.IncMutation("x")
		cart.IncPersistFailure()
		web.ObserveRequest("GET", "/", 200, time.Second)
		web.IncRecovered("x", "y")
		NewCatalogMetrics(nil).IncDegraded("x")
	})
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

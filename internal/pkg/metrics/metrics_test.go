package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)
	m.ObserveDuration("expire-offers", 250*time.Millisecond)
	m.IncSuccess("expire-offers")
	m.IncFailure("")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	assert.Equal(t, 1.0, counterValue(t, mfs, "pricing_job_success_total", "job", "expire-offers"))
	assert.Equal(t, 1.0, counterValue(t, mfs, "pricing_job_failure_total", "job", "unknown"))

	h := findMetric(t, mfs, "pricing_job_duration_seconds", "job", "expire-offers")
	assert.Greater(t, h.GetHistogram().GetSampleSum(), 0.0)
}

func TestPricingMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPricingMetrics(reg)
	m.ObserveExecution("cost_plus_margin", "manual", "partial", 3, 1, 2)
	m.IncResolution("resolve_price", "ok")
	m.IncResolution("resolve_price", "ok")
	m.ObserveSimulation(time.Millisecond)
	m.IncVerdict("allocation", "error")
	m.AddExpiredOffers(4)
	m.AddExpiredOffers(0)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	assert.Equal(t, 3.0, counterValue(t, mfs, "pricing_policy_items_total", "outcome", "generated"))
	assert.Equal(t, 2.0, counterValue(t, mfs, "pricing_policy_items_total", "outcome", "error"))
	assert.Equal(t, 2.0, counterValue(t, mfs, "pricing_resolutions_total", "operation", "resolve_price"))
	assert.Equal(t, 1.0, counterValue(t, mfs, "pricing_policy_executions_total", "status", "partial"))
	assert.Equal(t, 1.0, counterValue(t, mfs, "pricing_simulation_verdicts_total", "verdict", "error"))
	assert.Equal(t, 4.0, findMetric(t, mfs, "pricing_offers_expired_total", "", "").GetCounter().GetValue())
}

func TestNilRecordersAreSafe(t *testing.T) {
	var jobs *JobMetrics
	jobs.IncSuccess("x")
	jobs.IncFailure("x")
	jobs.ObserveDuration("x", time.Second)

	var pricing *PricingMetrics
	pricing.ObserveExecution("a", "b", "c", 1, 1, 1)
	pricing.IncResolution("a", "b")
	pricing.ObserveSimulation(time.Second)
	pricing.IncVerdict("a", "b")
	pricing.AddExpiredOffers(1)

	NewPricingMetrics(nil).IncResolution("a", "b")
	NewJobMetrics(nil).IncSuccess("a")
}

func findMetric(t *testing.T, mfs []*dto.MetricFamily, name, label, value string) *dto.Metric {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if label == "" {
				return metric
			}
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return metric
				}
			}
		}
	}
	t.Fatalf("metric %s{%s=%q} not found", name, label, value)
	return nil
}

func counterValue(t *testing.T, mfs []*dto.MetricFamily, name, label, value string) float64 {
	t.Helper()
	return findMetric(t, mfs, name, label, value).GetCounter().GetValue()
}

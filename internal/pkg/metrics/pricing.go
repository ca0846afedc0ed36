package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pricing"

// PricingMetrics records policy runs, price resolutions and simulations.
type PricingMetrics struct {
	executions  *prometheus.CounterVec
	items       *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	simulations prometheus.Histogram
	verdicts    *prometheus.CounterVec
	expirations prometheus.Counter
}

// NewPricingMetrics registers the pricing metrics on reg. A nil reg yields a
// no-op recorder.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	m := &PricingMetrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_executions_total",
			Help:      "Pricing policy runs by policy type, execution type and status.",
		}, []string{"policy_type", "execution_type", "status"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_items_total",
			Help:      "Items processed by pricing policy runs, by outcome.",
		}, []string{"outcome"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Price and offer resolutions by operation and result.",
		}, []string{"operation", "result"}),
		simulations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_duration_seconds",
			Help:      "Duration of price simulations in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulation_verdicts_total",
			Help:      "Simulation step verdicts by step and verdict.",
		}, []string{"step", "verdict"}),
		expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_expired_total",
			Help:      "Offers expired by the expiry sweep.",
		}),
	}
	reg.MustRegister(m.executions, m.items, m.resolutions, m.simulations, m.verdicts, m.expirations)
	return m
}

// ObserveExecution records one policy run and its per-item outcome counts.
func (m *PricingMetrics) ObserveExecution(policyType, execType, status string, generated, skipped, errors int) {
	if m == nil || m.executions == nil {
		return
	}
	m.executions.WithLabelValues(normalizeLabel(policyType), normalizeLabel(execType), normalizeLabel(status)).Inc()
	m.items.WithLabelValues("generated").Add(float64(generated))
	m.items.WithLabelValues("skipped").Add(float64(skipped))
	m.items.WithLabelValues("error").Add(float64(errors))
}

// IncResolution counts a resolve operation. result is "ok", "not_found" or "error".
func (m *PricingMetrics) IncResolution(operation, result string) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(normalizeLabel(operation), normalizeLabel(result)).Inc()
}

// ObserveSimulation records the duration of a simulation.
func (m *PricingMetrics) ObserveSimulation(d time.Duration) {
	if m == nil || m.simulations == nil {
		return
	}
	m.simulations.Observe(d.Seconds())
}

// IncVerdict counts one simulation step verdict.
func (m *PricingMetrics) IncVerdict(step, verdict string) {
	if m == nil || m.verdicts == nil {
		return
	}
	m.verdicts.WithLabelValues(normalizeLabel(step), normalizeLabel(verdict)).Inc()
}

// AddExpiredOffers counts offers expired by one sweep.
func (m *PricingMetrics) AddExpiredOffers(n int) {
	if m == nil || m.expirations == nil || n <= 0 {
		return
	}
	m.expirations.Add(float64(n))
}

package simulate_price

import (
	"context"
	"time"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/simulation"
	"github.com/light-bringer/pricing-engine/internal/pkg/metrics"
)

// Query handles the simulate price query.
type Query struct {
	pipeline *simulation.Pipeline
	metrics  *metrics.PricingMetrics
}

// NewQuery creates a new simulate price query.
func NewQuery(pipeline *simulation.Pipeline, m *metrics.PricingMetrics) *Query {
	return &Query{
		pipeline: pipeline,
		metrics:  m,
	}
}

// Execute runs the simulation pipeline and records its verdicts.
func (q *Query) Execute(ctx context.Context, req simulation.Request) (*simulation.Result, error) {
	start := time.Now()
	res, err := q.pipeline.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	q.metrics.ObserveSimulation(time.Since(start))
	for _, step := range res.Steps {
		q.metrics.IncVerdict(step.Name, string(step.Verdict))
	}
	return res, nil
}

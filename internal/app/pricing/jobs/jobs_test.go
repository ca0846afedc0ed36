package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/engine"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/fakes"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/usecases/execute_policy"
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
)

type stubExpirer struct {
	n   int
	err error
}

func (s *stubExpirer) Execute(context.Context) (int, error) { return s.n, s.err }

type recordingRunner struct {
	requests []*execute_policy.Request
	fail     map[string]error
}

func (r *recordingRunner) Execute(_ context.Context, req *execute_policy.Request) (*engine.ExecutionResult, error) {
	r.requests = append(r.requests, req)
	if err := r.fail[req.PolicyID]; err != nil {
		return nil, err
	}
	return &engine.ExecutionResult{ExecutionID: "exec-" + req.PolicyID}, nil
}

func activePolicy(t *testing.T, id string, lastRun *time.Time) *domain.PricingPolicy {
	t.Helper()
	logic := domain.CostPlusMarginLogic{MarginPercent: decimal.RequireFromString("10")}
	return domain.ReconstructPricingPolicy(id, "Policy "+id, logic, domain.PolicyScope{Type: domain.ScopeAll}, "pb-1",
		domain.PolicyActive, lastRun, 1, fakes.T0, fakes.T0)
}

func TestExpireOffersJob(t *testing.T) {
	job := NewExpireOffersJob(&stubExpirer{n: 3}, logger.Nop())
	assert.Equal(t, "expire_offers", job.Name())
	assert.NoError(t, job.Run(context.Background()))

	boom := errors.New("boom")
	assert.ErrorIs(t, NewExpireOffersJob(&stubExpirer{err: boom}, logger.Nop()).Run(context.Background()), boom)
}

func TestScheduledPoliciesJob(t *testing.T) {
	now := fakes.T0.Add(48 * time.Hour)
	recent := now.Add(-time.Hour)
	old := now.Add(-25 * time.Hour)

	policies := fakes.NewPolicies(
		activePolicy(t, "p-new", nil),
		activePolicy(t, "p-old", &old),
		activePolicy(t, "p-recent", &recent),
		domain.ReconstructPricingPolicy("p-paused", "Paused", domain.CostPlusMarginLogic{}, domain.PolicyScope{Type: domain.ScopeAll},
			"pb-1", domain.PolicyPaused, nil, 1, fakes.T0, fakes.T0),
	)

	t.Run("runs due active policies as scheduled", func(t *testing.T) {
		runner := &recordingRunner{}
		job := NewScheduledPoliciesJob(policies, runner, clock.NewMockClock(now), 24*time.Hour, logger.Nop())

		require.NoError(t, job.Run(context.Background()))
		var ids []string
		for _, req := range runner.requests {
			ids = append(ids, req.PolicyID)
			assert.Equal(t, domain.ExecutionScheduled, req.Trigger)
			assert.False(t, req.DryRun)
		}
		assert.Equal(t, []string{"p-new", "p-old"}, ids)
	})

	t.Run("one failure does not stop the batch", func(t *testing.T) {
		runner := &recordingRunner{fail: map[string]error{"p-new": domain.ErrPolicyNotActive}}
		job := NewScheduledPoliciesJob(policies, runner, clock.NewMockClock(now), 24*time.Hour, logger.Nop())

		err := job.Run(context.Background())
		require.ErrorIs(t, err, domain.ErrPolicyNotActive)
		assert.Len(t, runner.requests, 2)
	})
}

func TestOutboxRetentionJob(t *testing.T) {
	now := fakes.T0.Add(60 * 24 * time.Hour)
	box := &fakes.Outbox{Processed: map[string]time.Time{}}
	for i := 0; i < 5; i++ {
		box.Processed[fmt.Sprintf("old-%d", i)] = now.Add(-40 * 24 * time.Hour)
	}
	box.Processed["fresh"] = now.Add(-time.Hour)
	recorder := committer.NewRecorder()

	job := NewOutboxRetentionJob(box, recorder, clock.NewMockClock(now), 30*24*time.Hour, 2)
	require.NoError(t, job.Run(context.Background()))

	assert.Len(t, recorder.Plans(), 3, "batches of 2, 2 and 1")
	assert.Equal(t, map[string]time.Time{"fresh": now.Add(-time.Hour)}, box.Processed)
}

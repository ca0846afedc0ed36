// Package jobs adapts pricing use cases to the scheduler.
package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/engine"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/usecases/execute_policy"
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
	"github.com/light-bringer/pricing-engine/internal/pkg/scheduler"
)

var (
	_ scheduler.Job = (*ExpireOffersJob)(nil)
	_ scheduler.Job = (*ScheduledPoliciesJob)(nil)
	_ scheduler.Job = (*OutboxRetentionJob)(nil)
)

type offerExpirer interface {
	Execute(ctx context.Context) (int, error)
}

type policyRunner interface {
	Execute(ctx context.Context, req *execute_policy.Request) (*engine.ExecutionResult, error)
}

// ExpireOffersJob sweeps offers whose validity window has ended.
type ExpireOffersJob struct {
	expirer offerExpirer
	log     *logger.Logger
}

func NewExpireOffersJob(expirer offerExpirer, log *logger.Logger) *ExpireOffersJob {
	return &ExpireOffersJob{expirer: expirer, log: log}
}

func (j *ExpireOffersJob) Name() string { return "expire_offers" }

func (j *ExpireOffersJob) Run(ctx context.Context) error {
	n, err := j.expirer.Execute(ctx)
	if n > 0 {
		j.log.Info(j.log.WithField(ctx, "expired", n), "offers expired")
	}
	return err
}

// ScheduledPoliciesJob runs every active policy whose last run is older
// than the configured interval.
type ScheduledPoliciesJob struct {
	policies contracts.PolicyRepository
	runner   policyRunner
	clock    clock.Clock
	interval time.Duration
	log      *logger.Logger
}

func NewScheduledPoliciesJob(
	policies contracts.PolicyRepository,
	runner policyRunner,
	clk clock.Clock,
	interval time.Duration,
	log *logger.Logger,
) *ScheduledPoliciesJob {
	return &ScheduledPoliciesJob{
		policies: policies,
		runner:   runner,
		clock:    clk,
		interval: interval,
		log:      log,
	}
}

func (j *ScheduledPoliciesJob) Name() string { return "scheduled_policies" }

// Run executes due policies one by one. A failing policy is logged and
// reported with the others; it does not stop the batch.
func (j *ScheduledPoliciesJob) Run(ctx context.Context) error {
	policies, err := j.policies.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active policies: %w", err)
	}

	now := j.clock.Now()
	var errs error
	for _, p := range policies {
		if last := p.LastExecutedAt(); last != nil && now.Sub(*last) < j.interval {
			continue
		}
		_, err := j.runner.Execute(ctx, &execute_policy.Request{
			PolicyID: p.ID(),
			Trigger:  domain.ExecutionScheduled,
			Actor:    execute_policy.SchedulerActor,
		})
		if err != nil {
			j.log.Warn(j.log.WithField(ctx, "policy_id", p.ID()), "scheduled policy run failed: "+err.Error())
			errs = multierr.Append(errs, fmt.Errorf("policy %s: %w", p.ID(), err))
		}
	}
	return errs
}

// OutboxRetentionJob deletes completed and failed outbox events processed
// longer ago than the retention period, in batches.
type OutboxRetentionJob struct {
	outbox    contracts.OutboxRepository
	committer committer.Applier
	clock     clock.Clock
	retention time.Duration
	batchSize int
}

func NewOutboxRetentionJob(
	outbox contracts.OutboxRepository,
	applier committer.Applier,
	clk clock.Clock,
	retention time.Duration,
	batchSize int,
) *OutboxRetentionJob {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &OutboxRetentionJob{
		outbox:    outbox,
		committer: applier,
		clock:     clk,
		retention: retention,
		batchSize: batchSize,
	}
}

func (j *OutboxRetentionJob) Name() string { return "outbox_retention" }

func (j *OutboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.clock.Now().Add(-j.retention)
	for {
		ids, err := j.outbox.ListProcessedBefore(ctx, cutoff, j.batchSize)
		if err != nil {
			return fmt.Errorf("failed to list processed outbox events: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		plan := committer.NewPlan()
		for _, id := range ids {
			plan.Add(j.outbox.DeleteMut(id))
		}
		if err := j.committer.Apply(ctx, plan); err != nil {
			return fmt.Errorf("failed to delete outbox events: %w", err)
		}
		if len(ids) < j.batchSize {
			return nil
		}
	}
}

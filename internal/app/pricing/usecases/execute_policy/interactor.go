package execute_policy

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/engine"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/outbox"
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
	"github.com/light-bringer/pricing-engine/internal/pkg/metrics"
)

// SchedulerActor is recorded on runs without an explicit actor.
const SchedulerActor = "system:scheduler"

// Request selects the policy to run. DryRun wins over Trigger; an empty
// Trigger means a manual run.
type Request struct {
	PolicyID string
	DryRun   bool
	Trigger  domain.ExecutionType
	Actor    string
}

// Interactor handles the execute policy use case.
type Interactor struct {
	policies   contracts.PolicyRepository
	books      contracts.PriceBookRepository
	executions contracts.ExecutionRepository
	outboxRepo contracts.OutboxRepository
	engine     *engine.Engine
	committer  committer.Applier
	clock      clock.Clock
	log        *logger.Logger
	metrics    *metrics.PricingMetrics
	newID      func() string
}

// Deps groups the collaborators of the interactor.
type Deps struct {
	Policies   contracts.PolicyRepository
	Books      contracts.PriceBookRepository
	Executions contracts.ExecutionRepository
	Outbox     contracts.OutboxRepository
	Engine     *engine.Engine
	Committer  committer.Applier
	Clock      clock.Clock
	Log        *logger.Logger
	Metrics    *metrics.PricingMetrics
}

// NewInteractor creates a new execute policy interactor.
func NewInteractor(d Deps) *Interactor {
	return &Interactor{
		policies:   d.Policies,
		books:      d.Books,
		executions: d.Executions,
		outboxRepo: d.Outbox,
		engine:     d.Engine,
		committer:  d.Committer,
		clock:      d.Clock,
		log:        d.Log,
		metrics:    d.Metrics,
		newID:      uuid.NewString,
	}
}

// Execute runs a policy against its target book. A real run commits the
// generated entries, the policy's last execution time and the execution
// record together; a dry run commits only the record.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*engine.ExecutionResult, error) {
	execType, err := executionType(req)
	if err != nil {
		return nil, err
	}
	actor := req.Actor
	if actor == "" {
		actor = SchedulerActor
	}

	// 1. Load aggregates
	policy, err := i.policies.GetByID(ctx, req.PolicyID)
	if err != nil {
		return nil, err
	}
	target, err := i.books.GetByID(ctx, policy.TargetPriceBookID())
	if err != nil {
		return nil, fmt.Errorf("failed to load target price book: %w", err)
	}

	// 2. Run the engine
	now := i.clock.Now()
	execution, err := i.engine.Execute(ctx, engine.Run{
		ExecutionID: i.newID(),
		Policy:      policy,
		Target:      target,
		Type:        execType,
		At:          now,
		Actor:       actor,
	})
	if err != nil {
		return nil, err
	}

	// 3. Create commit plan
	plan := committer.NewPlan()
	mut, err := i.executions.InsertMut(execution)
	if err != nil {
		return nil, err
	}
	plan.Add(mut)

	if !execution.IsDryRun() {
		if err := i.addRunMutations(plan, policy, target, execution); err != nil {
			return nil, err
		}
	}

	// 4. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if !execution.IsDryRun() {
		target.ClearEvents()
		policy.ClearEvents()
	}
	i.report(ctx, policy, execution)

	result := engine.ResultOf(execution)
	return &result, nil
}

func (i *Interactor) addRunMutations(plan *committer.CommitPlan, policy *domain.PricingPolicy, target *domain.PriceBook, execution *domain.Execution) error {
	bookMuts, err := i.books.UpdateMuts(target)
	if err != nil {
		return err
	}
	plan.AddMultiple(bookMuts)
	plan.Guard(i.books.VersionGuard(target))

	policyMut, err := i.policies.UpdateMut(policy)
	if err != nil {
		return err
	}
	plan.Add(policyMut)
	plan.Guard(i.policies.VersionGuard(policy))

	events := make([]domain.DomainEvent, 0, len(target.DomainEvents())+len(policy.DomainEvents())+1)
	events = append(events, target.DomainEvents()...)
	events = append(events, policy.DomainEvents()...)
	if execution.Generated() > 0 {
		events = append(events, &domain.PricesGeneratedEvent{
			PolicyID:    policy.ID(),
			PriceBookID: target.ID(),
			ExecutionID: execution.ID(),
			Generated:   execution.Generated(),
			ExecutedAt:  execution.ExecutedAt(),
		})
	}
	muts, err := outbox.Mutations(i.outboxRepo, events)
	if err != nil {
		return err
	}
	plan.AddMultiple(muts)
	return nil
}

func (i *Interactor) report(ctx context.Context, policy *domain.PricingPolicy, execution *domain.Execution) {
	skipped := execution.Processed() - execution.Generated() - execution.Errors()
	i.metrics.ObserveExecution(string(policy.Type()), string(execution.Type()), string(execution.Status()),
		execution.Generated(), skipped, execution.Errors())

	if i.log == nil {
		return
	}
	ctx = i.log.WithFields(ctx, map[string]any{
		"policy_id":      policy.ID(),
		"execution_id":   execution.ID(),
		"price_book_id":  execution.PriceBookID(),
		"execution_type": string(execution.Type()),
		"status":         string(execution.Status()),
	})
	i.log.Info(ctx, execution.Log())
}

func executionType(req *Request) (domain.ExecutionType, error) {
	if req.PolicyID == "" {
		return "", fmt.Errorf("%w: policy id required", domain.ErrInvalidArgument)
	}
	if req.DryRun {
		return domain.ExecutionDryRun, nil
	}
	switch req.Trigger {
	case "", domain.ExecutionManual:
		return domain.ExecutionManual, nil
	case domain.ExecutionScheduled:
		return domain.ExecutionScheduled, nil
	default:
		return "", fmt.Errorf("%w: unknown trigger %q", domain.ErrInvalidArgument, req.Trigger)
	}
}

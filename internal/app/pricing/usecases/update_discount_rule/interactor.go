package update_discount_rule

import (
	"context"
	"fmt"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/audit"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/outbox"
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

// Request edits or deactivates a discount rule. With Deactivate set, Name
// and Logic are ignored. Otherwise an empty Name or a nil Logic keeps the
// current value.
type Request struct {
	RuleID     string
	Name       string
	Logic      domain.RuleLogic
	Deactivate bool
	Actor      string
}

// Interactor handles the update discount rule use case.
type Interactor struct {
	rules      contracts.DiscountRuleRepository
	offers     contracts.OfferRepository
	outboxRepo contracts.OutboxRepository
	committer  committer.Applier
	auditSink  contracts.AuditSink
	clock      clock.Clock
}

// NewInteractor creates a new update discount rule interactor.
func NewInteractor(
	rules contracts.DiscountRuleRepository,
	offers contracts.OfferRepository,
	outboxRepo contracts.OutboxRepository,
	committer committer.Applier,
	auditSink contracts.AuditSink,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		rules:      rules,
		offers:     offers,
		outboxRepo: outboxRepo,
		committer:  committer,
		auditSink:  auditSink,
		clock:      clock,
	}
}

// Execute applies the edit. Both edits and deactivation are refused while
// any active offer references the rule.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if req.RuleID == "" {
		return fmt.Errorf("%w: discount rule id required", domain.ErrInvalidArgument)
	}

	// 1. Load aggregate and count the offers using it
	rule, err := i.rules.GetByID(ctx, req.RuleID)
	if err != nil {
		return err
	}
	inUse, err := i.offers.CountActiveByDiscountRule(ctx, rule.ID())
	if err != nil {
		return fmt.Errorf("failed to count offers using rule: %w", err)
	}

	// 2. Call domain method
	now := i.clock.Now()
	if req.Deactivate {
		err = rule.Deactivate(inUse, req.Actor, now)
	} else {
		name, logic := req.Name, req.Logic
		if name == "" {
			name = rule.Name()
		}
		if logic == nil {
			logic = rule.Logic()
		}
		err = rule.Update(name, logic, inUse, req.Actor, now)
	}
	if err != nil {
		return err
	}

	// 3. Create commit plan
	plan := committer.NewPlan()
	mut, err := i.rules.UpdateMut(rule)
	if err != nil {
		return err
	}
	plan.Add(mut)
	plan.Guard(i.rules.VersionGuard(rule))

	// 4. Add outbox events
	events, err := outbox.Mutations(i.outboxRepo, rule.DomainEvents())
	if err != nil {
		return err
	}
	plan.AddMultiple(events)

	// 5. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	audit.Forward(ctx, i.auditSink, rule.StatusChanges())
	rule.ClearEvents()
	return nil
}

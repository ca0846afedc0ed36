package clone_price_book

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/outbox"
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

// Overrides customise the clone. ValidFrom is required; empty fields keep
// the source's values.
type Overrides struct {
	Name      string
	Scope     *domain.PriceBookScope
	ValidFrom time.Time
	ValidTo   *time.Time
}

// Request contains the source book and the clone's overrides.
type Request struct {
	SourceID  string
	Overrides Overrides
	Actor     string
}

// Interactor handles the clone price book use case.
type Interactor struct {
	repo       contracts.PriceBookRepository
	outboxRepo contracts.OutboxRepository
	committer  committer.Applier
	clock      clock.Clock
	newID      func() string
}

// NewInteractor creates a new clone price book interactor.
func NewInteractor(
	repo contracts.PriceBookRepository,
	outboxRepo contracts.OutboxRepository,
	committer committer.Applier,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		repo:       repo,
		outboxRepo: outboxRepo,
		committer:  committer,
		clock:      clock,
		newID:      uuid.NewString,
	}
}

// Execute creates a draft copy of the source book and returns its ID. The
// source may be in any status and is left unchanged.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	if req.SourceID == "" {
		return "", fmt.Errorf("%w: source price book id required", domain.ErrInvalidArgument)
	}
	if req.Overrides.ValidFrom.IsZero() {
		return "", fmt.Errorf("%w: clone needs a valid_from", domain.ErrInvalidArgument)
	}
	window, err := domain.NewValidityWindow(req.Overrides.ValidFrom, req.Overrides.ValidTo)
	if err != nil {
		return "", err
	}

	// 1. Load source aggregate
	source, err := i.repo.GetByID(ctx, req.SourceID)
	if err != nil {
		return "", err
	}

	// 2. Call domain method
	clone, err := source.CloneToNew(i.newID(), domain.CloneOverrides{
		Name:   req.Overrides.Name,
		Scope:  req.Overrides.Scope,
		Window: window,
	}, req.Actor, i.clock.Now())
	if err != nil {
		return "", err
	}

	// 3. Create commit plan
	plan := committer.NewPlan()
	muts, err := i.repo.InsertMuts(clone)
	if err != nil {
		return "", err
	}
	plan.AddMultiple(muts)

	// 4. Add outbox events
	events, err := outbox.Mutations(i.outboxRepo, clone.DomainEvents())
	if err != nil {
		return "", err
	}
	plan.AddMultiple(events)

	// 5. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	clone.ClearEvents()
	return clone.ID(), nil
}

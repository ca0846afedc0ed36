package archive_price_book

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

// Request contains the price book to archive.
type Request struct {
	PriceBookID string
	Actor       string
}

// Interactor handles the archive price book use case.
type Interactor struct {
	repo       contracts.PriceBookRepository
	outboxRepo contracts.OutboxRepository
	committer  committer.Applier
	auditSink  contracts.AuditSink
	clock      clock.Clock
}

// NewInteractor creates a new archive price book interactor.
func NewInteractor(
	repo contracts.PriceBookRepository,
	outboxRepo contracts.OutboxRepository,
	committer committer.Applier,
	auditSink contracts.AuditSink,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		repo:       repo,
		outboxRepo: outboxRepo,
		committer:  committer,
		auditSink:  auditSink,
		clock:      clock,
	}
}

// Execute archives an active or expired book.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if req.PriceBookID == "" {
		return fmt.Errorf("%w: price book id required", domain.ErrInvalidArgument)
	}

	// 1. Load aggregate
	book, err := i.repo.GetByID(ctx, req.PriceBookID)
	if err != nil {
		return err
	}

	// 2. Call domain method
	if err := book.Archive(req.Actor, i.clock.Now()); err != nil {
		return err
	}

	// 3. Create commit plan
	plan := committer.NewPlan()
	muts, err := i.repo.UpdateMuts(book)
	if err != nil {
		return err
	}
	plan.AddMultiple(muts)
	plan.Guard(i.repo.VersionGuard(book))

	// 4. Add outbox events
	events, err := outbox.Mutations(i.outboxRepo, book.DomainEvents())
	if err != nil {
		return err
	}
	plan.AddMultiple(events)

	// 5. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	audit.Forward(ctx, i.auditSink, book.StatusChanges())
	book.ClearEvents()
	return nil
}

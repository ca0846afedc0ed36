package activate_offer

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

// Request contains the offer to activate.
type Request struct {
	OfferID string
	Actor   string
}

// Interactor handles the activate offer use case.
type Interactor struct {
	offers     contracts.OfferRepository
	books      contracts.PriceBookRepository
	outboxRepo contracts.OutboxRepository
	checker    domain.AllocationConstraintChecker
	committer  committer.Applier
	auditSink  contracts.AuditSink
	clock      clock.Clock
}

// NewInteractor creates a new activate offer interactor.
func NewInteractor(
	offers contracts.OfferRepository,
	books contracts.PriceBookRepository,
	outboxRepo contracts.OutboxRepository,
	checker domain.AllocationConstraintChecker,
	committer committer.Applier,
	auditSink contracts.AuditSink,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		offers:     offers,
		books:      books,
		outboxRepo: outboxRepo,
		checker:    checker,
		committer:  committer,
		auditSink:  auditSink,
		clock:      clock,
	}
}

// Execute activates a draft offer. Its book must be active and price the
// offer's item, and its eligibility must fit the allocation constraint.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if req.OfferID == "" {
		return fmt.Errorf("%w: offer id required", domain.ErrInvalidArgument)
	}

	// 1. Load aggregates
	offer, err := i.offers.GetByID(ctx, req.OfferID)
	if err != nil {
		return err
	}
	book, err := i.books.GetByID(ctx, offer.PriceBookID())
	if err != nil {
		return err
	}

	// 2. Check eligibility against the allocation constraint. Only drafts
	// can be activated, so a wrong status is reported first.
	if offer.Status() != domain.OfferDraft {
		return domain.ErrOfferNotDraft
	}
	if err := i.checker.Check(ctx, offer.Eligibility(), offer.ChannelID()); err != nil {
		return err
	}

	// 3. Call domain method
	if err := offer.Activate(book, req.Actor, i.clock.Now()); err != nil {
		return err
	}

	// 4. Create commit plan. The book guard keeps a concurrent archive from
	// slipping under the activation.
	plan := committer.NewPlan()
	mut, err := i.offers.UpdateMut(offer)
	if err != nil {
		return err
	}
	plan.Add(mut)
	plan.Guard(i.offers.VersionGuard(offer))
	plan.Guard(i.books.VersionGuard(book))

	// 5. Add outbox events
	events, err := outbox.Mutations(i.outboxRepo, offer.DomainEvents())
	if err != nil {
		return err
	}
	plan.AddMultiple(events)

	// 6. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	audit.Forward(ctx, i.auditSink, offer.StatusChanges())
	offer.ClearEvents()
	return nil
}

package change_offer_status

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

// Action is a manual offer transition.
type Action string

const (
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionCancel Action = "cancel"
	ActionExpire Action = "expire"
)

// Request contains the offer and the transition to apply.
type Request struct {
	OfferID string
	Action  Action
	Actor   string
}

// Interactor handles the change offer status use case.
type Interactor struct {
	offers     contracts.OfferRepository
	books      contracts.PriceBookRepository
	outboxRepo contracts.OutboxRepository
	committer  committer.Applier
	auditSink  contracts.AuditSink
	clock      clock.Clock
}

// NewInteractor creates a new change offer status interactor.
func NewInteractor(
	offers contracts.OfferRepository,
	books contracts.PriceBookRepository,
	outboxRepo contracts.OutboxRepository,
	committer committer.Applier,
	auditSink contracts.AuditSink,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		offers:     offers,
		books:      books,
		outboxRepo: outboxRepo,
		committer:  committer,
		auditSink:  auditSink,
		clock:      clock,
	}
}

// Execute applies one transition to an offer.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if req.OfferID == "" {
		return fmt.Errorf("%w: offer id required", domain.ErrInvalidArgument)
	}

	// 1. Load aggregate
	offer, err := i.offers.GetByID(ctx, req.OfferID)
	if err != nil {
		return err
	}

	// 2. Call domain method
	plan := committer.NewPlan()
	now := i.clock.Now()
	switch req.Action {
	case ActionPause:
		err = offer.Pause(req.Actor, now)
	case ActionCancel:
		err = offer.Cancel(req.Actor, now)
	case ActionExpire:
		err = offer.Expire(req.Actor, now)
	case ActionResume:
		var book *domain.PriceBook
		book, err = i.books.GetByID(ctx, offer.PriceBookID())
		if err != nil {
			return err
		}
		err = offer.Resume(book, req.Actor, now)
		plan.Guard(i.books.VersionGuard(book))
	default:
		return fmt.Errorf("%w: unknown offer action %q", domain.ErrInvalidArgument, req.Action)
	}
	if err != nil {
		return err
	}

	// 3. Add repository mutation
	mut, err := i.offers.UpdateMut(offer)
	if err != nil {
		return err
	}
	plan.Add(mut)
	plan.Guard(i.offers.VersionGuard(offer))

	// 4. Add outbox events
	events, err := outbox.Mutations(i.outboxRepo, offer.DomainEvents())
	if err != nil {
		return err
	}
	plan.AddMultiple(events)

	// 5. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	audit.Forward(ctx, i.auditSink, offer.StatusChanges())
	offer.ClearEvents()
	return nil
}

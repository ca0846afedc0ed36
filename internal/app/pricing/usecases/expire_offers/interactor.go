package expire_offers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/audit"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/outbox"
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
	"github.com/light-bringer/pricing-engine/internal/pkg/metrics"
)

// Actor is recorded on transitions made by the sweep.
const Actor = "system:offer-expiry"

// Interactor expires active offers whose validity window has ended.
type Interactor struct {
	offers     contracts.OfferRepository
	outboxRepo contracts.OutboxRepository
	committer  committer.Applier
	auditSink  contracts.AuditSink
	clock      clock.Clock
	log        *logger.Logger
	metrics    *metrics.PricingMetrics
}

// NewInteractor creates a new expire offers interactor.
func NewInteractor(
	offers contracts.OfferRepository,
	outboxRepo contracts.OutboxRepository,
	committer committer.Applier,
	auditSink contracts.AuditSink,
	clock clock.Clock,
	log *logger.Logger,
	m *metrics.PricingMetrics,
) *Interactor {
	return &Interactor{
		offers:     offers,
		outboxRepo: outboxRepo,
		committer:  committer,
		auditSink:  auditSink,
		clock:      clock,
		log:        log,
		metrics:    m,
	}
}

// Execute runs one sweep and returns the number of offers expired. Each
// offer commits on its own, so one conflicting offer does not hold back the
// rest; failures are collected and returned together.
func (i *Interactor) Execute(ctx context.Context) (int, error) {
	now := i.clock.Now()

	// 1. Load candidates
	offers, err := i.offers.ListExpirable(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list expirable offers: %w", err)
	}

	// 2. Expire and commit each offer
	var errs error
	expired := 0
	for _, offer := range offers {
		if err := i.expire(ctx, offer, now); err != nil {
			i.log.Warn(i.log.WithField(ctx, "offer_id", offer.ID()), "offer expiry failed: "+err.Error())
			errs = multierr.Append(errs, fmt.Errorf("offer %s: %w", offer.ID(), err))
			continue
		}
		expired++
	}

	i.metrics.AddExpiredOffers(expired)
	return expired, errs
}

func (i *Interactor) expire(ctx context.Context, offer *domain.Offer, now time.Time) error {
	if err := offer.Expire(Actor, now); err != nil {
		return err
	}

	plan := committer.NewPlan()
	mut, err := i.offers.UpdateMut(offer)
	if err != nil {
		return err
	}
	plan.Add(mut)
	plan.Guard(i.offers.VersionGuard(offer))

	events, err := outbox.Mutations(i.outboxRepo, offer.DomainEvents())
	if err != nil {
		return err
	}
	plan.AddMultiple(events)

	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	audit.Forward(ctx, i.auditSink, offer.StatusChanges())
	offer.ClearEvents()
	return nil
}

package resolve_offer

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/metrics"
)

const operation = "resolve_offer"

// Request identifies the item and channel to resolve an offer for. A zero
// At means now; a nil Customer skips the eligibility filter.
type Request struct {
	ItemID    string
	ChannelID string
	Customer  *domain.CustomerContext
	At        time.Time
}

// Query handles the resolve offer query.
type Query struct {
	offers  contracts.OfferRepository
	clock   clock.Clock
	metrics *metrics.PricingMetrics
}

// NewQuery creates a new resolve offer query.
func NewQuery(offers contracts.OfferRepository, clock clock.Clock, m *metrics.PricingMetrics) *Query {
	return &Query{
		offers:  offers,
		clock:   clock,
		metrics: m,
	}
}

// Execute returns the offer that applies, or nil when none does.
func (q *Query) Execute(ctx context.Context, req *Request) (*domain.Offer, error) {
	if req.ItemID == "" || req.ChannelID == "" {
		return nil, fmt.Errorf("%w: item and channel are required", domain.ErrInvalidArgument)
	}
	at := req.At
	if at.IsZero() {
		at = q.clock.Now()
	}
	at = at.UTC()

	offers, err := q.offers.ListLive(ctx, req.ItemID, req.ChannelID, at)
	if err != nil {
		q.metrics.IncResolution(operation, "error")
		return nil, fmt.Errorf("failed to list live offers: %w", err)
	}

	offer := domain.ResolveOffer(offers, req.ItemID, req.ChannelID, at, req.Customer)
	if offer == nil {
		q.metrics.IncResolution(operation, "not_found")
		return nil, nil
	}
	q.metrics.IncResolution(operation, "ok")
	return offer, nil
}

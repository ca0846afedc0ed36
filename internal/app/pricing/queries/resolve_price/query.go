package resolve_price

import (
	"context"
	"errors"
	"fmt"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/pkg/metrics"
)

const operation = "resolve_price"

// Request identifies the offer to price. Quantity defaults to 1.
type Request struct {
	OfferID  string
	Quantity int64
}

// Query handles the resolve price query.
type Query struct {
	offers  contracts.OfferRepository
	books   contracts.PriceBookRepository
	rules   contracts.DiscountRuleRepository
	metrics *metrics.PricingMetrics
}

// NewQuery creates a new resolve price query.
func NewQuery(
	offers contracts.OfferRepository,
	books contracts.PriceBookRepository,
	rules contracts.DiscountRuleRepository,
	m *metrics.PricingMetrics,
) *Query {
	return &Query{
		offers:  offers,
		books:   books,
		rules:   rules,
		metrics: m,
	}
}

// Execute prices an offer from its book entry and benefit. An item without
// an entry is ErrMissingBasePrice, never a zero price.
func (q *Query) Execute(ctx context.Context, req *Request) (domain.PriceBreakdown, error) {
	breakdown, err := q.resolve(ctx, req)
	switch {
	case err == nil:
		q.metrics.IncResolution(operation, "ok")
	case isNotFound(err):
		q.metrics.IncResolution(operation, "not_found")
	default:
		q.metrics.IncResolution(operation, "error")
	}
	return breakdown, err
}

func (q *Query) resolve(ctx context.Context, req *Request) (domain.PriceBreakdown, error) {
	if req.OfferID == "" {
		return domain.PriceBreakdown{}, fmt.Errorf("%w: offer id required", domain.ErrInvalidArgument)
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return domain.PriceBreakdown{}, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidArgument)
	}

	offer, err := q.offers.GetByID(ctx, req.OfferID)
	if err != nil {
		return domain.PriceBreakdown{}, err
	}
	book, err := q.books.GetByID(ctx, offer.PriceBookID())
	if err != nil {
		return domain.PriceBreakdown{}, err
	}

	var rule *domain.DiscountRule
	if b := offer.Benefit(); b != nil && b.HasDiscountRule() {
		rule, err = q.rules.GetByID(ctx, b.DiscountRuleID())
		if err != nil {
			return domain.PriceBreakdown{}, fmt.Errorf("failed to load discount rule: %w", err)
		}
	}
	return offer.ResolvePrice(book, qty, rule)
}

func isNotFound(err error) bool {
	for _, target := range []error{
		domain.ErrOfferNotFound,
		domain.ErrPriceBookNotFound,
		domain.ErrDiscountRuleNotFound,
		domain.ErrMissingBasePrice,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

package calculate_bundle_price

import (
	"context"
	"fmt"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
)

// Request names the bundle and the book to price it from.
type Request struct {
	BundleID    string
	PriceBookID string
}

// Query handles the calculate bundle price query.
type Query struct {
	bundles contracts.BundleRepository
	books   contracts.PriceBookRepository
}

// NewQuery creates a new calculate bundle price query.
func NewQuery(bundles contracts.BundleRepository, books contracts.PriceBookRepository) *Query {
	return &Query{
		bundles: bundles,
		books:   books,
	}
}

// Execute prices every component from the book. Missing entries fail the
// whole calculation.
func (q *Query) Execute(ctx context.Context, req *Request) (domain.BundlePrice, error) {
	if req.BundleID == "" || req.PriceBookID == "" {
		return domain.BundlePrice{}, fmt.Errorf("%w: bundle and price book are required", domain.ErrInvalidArgument)
	}
	bundle, err := q.bundles.GetByID(ctx, req.BundleID)
	if err != nil {
		return domain.BundlePrice{}, err
	}
	book, err := q.books.GetByID(ctx, req.PriceBookID)
	if err != nil {
		return domain.BundlePrice{}, err
	}
	return bundle.CalculatePrice(book)
}

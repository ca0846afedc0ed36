package contracts

import (
	"context"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
)

// The readers below front tables owned by other modules. Missing data is not
// an error: lookups return nil, nil.

// Catalog exposes sellable items.
type Catalog interface {
	// ActiveItems returns commercially active items. A non-empty nameContains
	// narrows to items whose product name contains it, case-insensitively.
	ActiveItems(ctx context.Context, nameContains string) ([]domain.SellableItem, error)

	// ItemsByIDs returns the listed items that exist, active or not.
	ItemsByIDs(ctx context.Context, itemIDs []string) ([]domain.SellableItem, error)
}

// CostSource provides the current unit cost of an item.
type CostSource interface {
	CurrentCost(ctx context.Context, itemID string) (*domain.Money, error)
}

// MarketPriceSource provides estimated market price references.
type MarketPriceSource interface {
	// Latest returns the most recent reference for item. An empty market
	// matches any market.
	Latest(ctx context.Context, itemID, market string) (*domain.MarketPrice, error)
}

// AllocationSource provides the supply reservation backing an item.
type AllocationSource interface {
	ActiveAllocation(ctx context.Context, itemID string) (*domain.Allocation, error)
}

// AllocationConstraintSource loads allocation constraints by ID.
type AllocationConstraintSource interface {
	GetConstraint(ctx context.Context, constraintID string) (*domain.AllocationConstraint, error)
}

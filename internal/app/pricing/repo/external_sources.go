package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/models/m_allocation"
	"github.com/light-bringer/pricing-engine/internal/models/m_allocation_constraint"
	"github.com/light-bringer/pricing-engine/internal/models/m_item_cost"
	"github.com/light-bringer/pricing-engine/internal/models/m_market_price"
	"github.com/light-bringer/pricing-engine/internal/models/m_sellable_item"
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/query"
)

// ExternalReader reads the tables owned by the catalog, costing, market data
// and allocation modules. It implements every source contract; missing rows
// are reported as nil, nil.
type ExternalReader struct {
	client *spanner.Client
	clock  clock.Clock
}

var (
	_ contracts.Catalog                    = (*ExternalReader)(nil)
	_ contracts.CostSource                 = (*ExternalReader)(nil)
	_ contracts.MarketPriceSource          = (*ExternalReader)(nil)
	_ contracts.AllocationSource           = (*ExternalReader)(nil)
	_ contracts.AllocationConstraintSource = (*ExternalReader)(nil)
)

// NewExternalReader creates a new ExternalReader.
func NewExternalReader(client *spanner.Client, clk clock.Clock) *ExternalReader {
	return &ExternalReader{client: client, clock: clk}
}

// ActiveItems returns active items ordered by ID, optionally narrowed by a
// case-insensitive product name match.
func (r *ExternalReader) ActiveItems(ctx context.Context, nameContains string) ([]domain.SellableItem, error) {
	b := query.From(m_sellable_item.TableName).
		Select(m_sellable_item.Columns...).
		Where(query.Eq(m_sellable_item.Active, true)).
		OrderBy(m_sellable_item.ItemID, query.Asc)
	if nameContains != "" {
		b = b.Where(query.ContainsFold(m_sellable_item.ProductName, nameContains))
	}
	return r.items(ctx, b.Build())
}

// ItemsByIDs returns the listed items that exist.
func (r *ExternalReader) ItemsByIDs(ctx context.Context, itemIDs []string) ([]domain.SellableItem, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	stmt := query.From(m_sellable_item.TableName).
		Select(m_sellable_item.Columns...).
		Where(query.In(m_sellable_item.ItemID, itemIDs)).
		OrderBy(m_sellable_item.ItemID, query.Asc).
		Build()
	return r.items(ctx, stmt)
}

func (r *ExternalReader) items(ctx context.Context, stmt spanner.Statement) ([]domain.SellableItem, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var out []domain.SellableItem
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate sellable items: %w", err)
		}
		var data m_sellable_item.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse sellable item: %w", err)
		}
		out = append(out, domain.SellableItem{
			ID:          data.ItemID,
			ProductName: data.ProductName,
			Category:    data.Category.StringVal,
			Active:      data.Active,
		})
	}
	return out, nil
}

// CurrentCost returns the latest unit cost already in effect.
func (r *ExternalReader) CurrentCost(ctx context.Context, itemID string) (*domain.Money, error) {
	stmt := query.From(m_item_cost.TableName).
		Select(m_item_cost.ItemID, m_item_cost.EffectiveFrom, m_item_cost.UnitCost).
		Where(query.Eq(m_item_cost.ItemID, itemID)).
		Where(query.Lte(m_item_cost.EffectiveFrom, r.clock.Now())).
		OrderBy(m_item_cost.EffectiveFrom, query.Desc).
		Limit(1).
		Build()

	var data m_item_cost.Data
	found, err := r.first(ctx, stmt, &data)
	if err != nil || !found {
		return nil, err
	}
	return numericToMoney(&data.UnitCost)
}

// Latest returns the most recent market price reference for item. An empty
// market matches any market.
func (r *ExternalReader) Latest(ctx context.Context, itemID, market string) (*domain.MarketPrice, error) {
	b := query.From(m_market_price.TableName).
		Select(m_market_price.Columns...).
		Where(query.Eq(m_market_price.ItemID, itemID)).
		OrderBy(m_market_price.ObservedAt, query.Desc).
		Limit(1)
	if market != "" {
		b = b.Where(query.Eq(m_market_price.Market, market))
	}

	var data m_market_price.Data
	found, err := r.first(ctx, b.Build(), &data)
	if err != nil || !found {
		return nil, err
	}
	price, err := numericToMoney(&data.Price)
	if err != nil {
		return nil, err
	}
	return &domain.MarketPrice{
		ItemID:     data.ItemID,
		Market:     data.Market,
		Price:      price,
		ObservedAt: data.ObservedAt,
	}, nil
}

// ActiveAllocation returns the newest active allocation of item.
func (r *ExternalReader) ActiveAllocation(ctx context.Context, itemID string) (*domain.Allocation, error) {
	stmt := query.From(m_allocation.TableName).
		Select(m_allocation.Columns...).
		Where(query.Eq(m_allocation.ItemID, itemID)).
		Where(query.Eq(m_allocation.Status, m_allocation.StatusActive)).
		OrderBy(m_allocation.CreatedAt, query.Desc).
		Limit(1).
		Build()

	var data m_allocation.Data
	found, err := r.first(ctx, stmt, &data)
	if err != nil || !found {
		return nil, err
	}
	return &domain.Allocation{
		ID:                data.AllocationID,
		ItemID:            data.ItemID,
		RemainingQuantity: data.RemainingQuantity,
		AllowedChannels:   data.AllowedChannels,
		ConstraintID:      data.ConstraintID.StringVal,
	}, nil
}

// GetConstraint loads an allocation constraint by ID.
func (r *ExternalReader) GetConstraint(ctx context.Context, constraintID string) (*domain.AllocationConstraint, error) {
	row, err := r.client.Single().ReadRow(ctx, m_allocation_constraint.TableName, spanner.Key{constraintID}, m_allocation_constraint.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read allocation constraint: %w", err)
	}
	var data m_allocation_constraint.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse allocation constraint: %w", err)
	}
	return &domain.AllocationConstraint{
		ID:                   data.ConstraintID,
		AllowedMarkets:       data.AllowedMarkets,
		AllowedCustomerTypes: data.AllowedCustomerTypes,
		AllowedChannels:      data.AllowedChannels,
	}, nil
}

// first decodes the first row of stmt into dst.
func (r *ExternalReader) first(ctx context.Context, stmt spanner.Statement, dst interface{}) (bool, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query %s: %w", stmt.SQL, err)
	}
	if err := row.ToStruct(dst); err != nil {
		return false, fmt.Errorf("failed to parse row: %w", err)
	}
	return true, nil
}

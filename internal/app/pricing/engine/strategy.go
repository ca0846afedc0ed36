package engine

import (
	"context"
	"fmt"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
)

// strategy computes the unrounded price of one item. A non-empty skip
// reason means the item has no input to price from.
type strategy interface {
	price(ctx context.Context, itemID string) (price *domain.Money, skip string, err error)
}

type strategyFunc func(ctx context.Context, itemID string) (*domain.Money, string, error)

func (f strategyFunc) price(ctx context.Context, itemID string) (*domain.Money, string, error) {
	return f(ctx, itemID)
}

func (e *Engine) strategyFor(ctx context.Context, policy *domain.PricingPolicy, target *domain.PriceBook) strategy {
	scope := policy.Scope()

	switch logic := policy.Logic().(type) {
	case domain.CostPlusMarginLogic:
		return strategyFunc(func(ctx context.Context, itemID string) (*domain.Money, string, error) {
			cost, err := e.src.Costs.CurrentCost(ctx, itemID)
			if err != nil {
				return nil, "", sourceError("cost", err)
			}
			if cost == nil {
				ref, err := e.src.MarketPrices.Latest(ctx, itemID, scope.Market)
				if err != nil {
					return nil, "", sourceError("market price", err)
				}
				if ref == nil {
					return nil, ReasonNoCost, nil
				}
				cost = ref.FallbackCost()
			}
			return logic.Price(cost), "", nil
		})

	case domain.IndexBasedLogic:
		market := logic.Market
		if market == "" {
			market = scope.Market
		}
		return strategyFunc(func(ctx context.Context, itemID string) (*domain.Money, string, error) {
			ref, err := e.src.MarketPrices.Latest(ctx, itemID, market)
			if err != nil {
				return nil, "", sourceError("market price", err)
			}
			if ref == nil {
				return nil, ReasonNoMarketPrice, nil
			}
			return logic.Price(ref.Price), "", nil
		})

	case domain.ReferencePriceBookLogic:
		source, loadErr := e.src.Books.GetByID(ctx, logic.SourcePriceBookID)
		return strategyFunc(func(_ context.Context, itemID string) (*domain.Money, string, error) {
			if loadErr != nil {
				return nil, "", sourceError("reference price book "+logic.SourcePriceBookID, loadErr)
			}
			entry, ok := source.Entry(itemID)
			if !ok {
				return nil, ReasonNoReferenceEntry, nil
			}
			return logic.Adjustment.Apply(entry.BasePrice), "", nil
		})

	case domain.FixedAdjustmentLogic:
		return targetStrategy(target, func(p *domain.Money) *domain.Money { return logic.Adjustment.Apply(p) })

	case domain.RoundingLogic:
		return targetStrategy(target, func(p *domain.Money) *domain.Money { return p })

	default:
		return strategyFunc(func(context.Context, string) (*domain.Money, string, error) {
			return nil, "", fmt.Errorf("%w: unsupported type %T", domain.ErrInvalidPolicyLogic, logic)
		})
	}
}

// targetStrategy reprices the target book's own entries. Each item is read
// before its own entry is rewritten, so a run applies adjust once per item.
func targetStrategy(target *domain.PriceBook, adjust func(*domain.Money) *domain.Money) strategy {
	return strategyFunc(func(_ context.Context, itemID string) (*domain.Money, string, error) {
		entry, ok := target.Entry(itemID)
		if !ok {
			return nil, ReasonNoTargetEntry, nil
		}
		return adjust(entry.BasePrice), "", nil
	})
}

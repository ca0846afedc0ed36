package domain

import "time"

// DefaultMarketPriceMaxAge is the age after which a market-price reference
// is considered stale.
const DefaultMarketPriceMaxAge = 7 * 24 * time.Hour

// MarketPrice is an externally supplied estimated market price (EMP).
type MarketPrice struct {
	ItemID     string
	Market     string
	Price      *Money
	ObservedAt time.Time
}

// IsStale reports whether the reference is older than maxAge at t.
func (m *MarketPrice) IsStale(t time.Time, maxAge time.Duration) bool {
	return t.Sub(m.ObservedAt) > maxAge
}

// FallbackCost estimates an item's cost from its market price.
func (m *MarketPrice) FallbackCost() *Money {
	return m.Price.MultiplyBy(CostFallbackFactor)
}

package m_pricing_policy

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the pricing_policies table.
type Data struct {
	PolicyID          string             `spanner:"policy_id"`
	Name              string             `spanner:"name"`
	PolicyType        string             `spanner:"policy_type"`
	Logic             spanner.NullJSON   `spanner:"logic"`
	ScopeType         string             `spanner:"scope_type"`
	ScopeReference    spanner.NullString `spanner:"scope_reference"`
	ScopeMarket       spanner.NullString `spanner:"scope_market"`
	ScopeChannel      spanner.NullString `spanner:"scope_channel"`
	TargetPriceBookID string             `spanner:"target_price_book_id"`
	Status            string             `spanner:"status"`
	LastExecutedAt    spanner.NullTime   `spanner:"last_executed_at"`
	Version           int64              `spanner:"version"`
	CreatedAt         time.Time          `spanner:"created_at"`
	UpdatedAt         time.Time          `spanner:"updated_at"`
}

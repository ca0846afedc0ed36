package m_policy_execution

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the policy_executions table.
type Data struct {
	ExecutionID     string           `spanner:"execution_id"`
	PolicyID        string           `spanner:"policy_id"`
	PriceBookID     string           `spanner:"price_book_id"`
	ExecutionType   string           `spanner:"execution_type"`
	ExecutedAt      time.Time        `spanner:"executed_at"`
	SkusProcessed   int64            `spanner:"skus_processed"`
	PricesGenerated int64            `spanner:"prices_generated"`
	ErrorsCount     int64            `spanner:"errors_count"`
	Status          string           `spanner:"status"`
	Log             string           `spanner:"log"`
	Changes         spanner.NullJSON `spanner:"changes"`
}

// Change is the stored form of one item change inside Changes. Prices are
// decimal strings.
type Change struct {
	ItemID   string `json:"item_id"`
	OldPrice string `json:"old_price,omitempty"`
	NewPrice string `json:"new_price,omitempty"`
	Outcome  string `json:"outcome"`
	Reason   string `json:"reason,omitempty"`
}

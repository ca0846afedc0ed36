package m_price_book_entry

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the price_book_entries table.
type Data struct {
	PriceBookID string             `spanner:"price_book_id"`
	ItemID      string             `spanner:"item_id"`
	BasePrice   big.Rat            `spanner:"base_price"`
	Source      string             `spanner:"source"`
	PolicyID    spanner.NullString `spanner:"policy_id"`
	UpdatedAt   time.Time          `spanner:"updated_at"`
}

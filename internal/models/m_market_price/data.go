package m_market_price

import (
	"math/big"
	"time"
)

// Data represents the database model for the market_price_references table.
type Data struct {
	ItemID     string    `spanner:"item_id"`
	Market     string    `spanner:"market"`
	ObservedAt time.Time `spanner:"observed_at"`
	Price      big.Rat   `spanner:"price"`
}

package m_market_price

// Field name constants for the market_price_references table (read-only).
const (
	TableName = "market_price_references"

	ItemID     = "item_id"
	Market     = "market"
	ObservedAt = "observed_at"
	Price      = "price"
)

var Columns = []string{ItemID, Market, ObservedAt, Price}

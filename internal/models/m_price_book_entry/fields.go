package m_price_book_entry

// Field name constants for the price_book_entries table, interleaved in
// price_books.
const (
	TableName = "price_book_entries"

	PriceBookID = "price_book_id"
	ItemID      = "item_id"
	BasePrice   = "base_price"
	Source      = "source"
	PolicyID    = "policy_id"
	UpdatedAt   = "updated_at"
)

var Columns = []string{PriceBookID, ItemID, BasePrice, Source, PolicyID, UpdatedAt}

package m_price_book

// Field name constants for the price_books table.
const (
	TableName = "price_books"

	PriceBookID = "price_book_id"
	Name        = "name"
	Market      = "market"
	Channel     = "channel"
	Currency    = "currency"
	ValidFrom   = "valid_from"
	ValidTo     = "valid_to"
	Status      = "status"
	ApprovedBy  = "approved_by"
	ApprovedAt  = "approved_at"
	Version     = "version"
	CreatedAt   = "created_at"
	UpdatedAt   = "updated_at"
)

// Columns lists every column in table order.
var Columns = []string{
	PriceBookID,
	Name,
	Market,
	Channel,
	Currency,
	ValidFrom,
	ValidTo,
	Status,
	ApprovedBy,
	ApprovedAt,
	Version,
	CreatedAt,
	UpdatedAt,
}

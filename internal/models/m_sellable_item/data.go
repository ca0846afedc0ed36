package m_sellable_item

import "cloud.google.com/go/spanner"

// Data represents the database model for the sellable_items table.
type Data struct {
	ItemID      string             `spanner:"item_id"`
	ProductName string             `spanner:"product_name"`
	Category    spanner.NullString `spanner:"category"`
	Active      bool               `spanner:"active"`
}

package m_sellable_item

// Field name constants for the sellable_items table. The table is owned by
// the catalog; the pricing engine only reads it.
const (
	TableName = "sellable_items"

	ItemID      = "item_id"
	ProductName = "product_name"
	Category    = "category"
	Active      = "active"
)

var Columns = []string{ItemID, ProductName, Category, Active}

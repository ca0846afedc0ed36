package m_bundle_component

// Field name constants for the bundle_components table, interleaved in bundles.
// Position keeps the components in their declared order.
const (
	TableName = "bundle_components"

	BundleID = "bundle_id"
	Position = "position"
	ItemID   = "item_id"
	Quantity = "quantity"
)

var Columns = []string{BundleID, Position, ItemID, Quantity}

package m_bundle

// Field name constants for the bundles table.
const (
	TableName = "bundles"

	BundleID      = "bundle_id"
	Name          = "name"
	SKUCode       = "sku_code"
	Logic         = "logic"
	FixedPrice    = "fixed_price"
	PercentageOff = "percentage_off"
	Status        = "status"
	Version       = "version"
	CreatedAt     = "created_at"
	UpdatedAt     = "updated_at"
)

var Columns = []string{BundleID, Name, SKUCode, Logic, FixedPrice, PercentageOff, Status, Version, CreatedAt, UpdatedAt}

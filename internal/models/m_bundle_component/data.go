package m_bundle_component

// Data represents the database model for the bundle_components table.
type Data struct {
	BundleID string `spanner:"bundle_id"`
	Position int64  `spanner:"position"`
	ItemID   string `spanner:"item_id"`
	Quantity int64  `spanner:"quantity"`
}

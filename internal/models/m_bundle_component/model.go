package m_bundle_component

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the bundle_components table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting one component.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.BundleID,
		data.Position,
		data.ItemID,
		data.Quantity,
	})
}

// DeleteAllMut removes every component of a bundle.
func (m *Model) DeleteAllMut(bundleID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{bundleID}.AsPrefix())
}

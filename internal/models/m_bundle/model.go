package m_bundle

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the bundles table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a bundle.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.BundleID,
		data.Name,
		data.SKUCode,
		data.Logic,
		data.FixedPrice,
		data.PercentageOff,
		data.Status,
		data.Version,
		spanner.CommitTimestamp,
		spanner.CommitTimestamp,
	})
}

// UpdateMut creates a Spanner mutation for updating a bundle.
func (m *Model) UpdateMut(bundleID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := []string{BundleID, UpdatedAt}
	values := []interface{}{bundleID, spanner.CommitTimestamp}
	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}
	return spanner.Update(TableName, columns, values)
}

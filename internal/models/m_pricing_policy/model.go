package m_pricing_policy

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the pricing_policies table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a policy.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.PolicyID,
		data.Name,
		data.PolicyType,
		data.Logic,
		data.ScopeType,
		data.ScopeReference,
		data.ScopeMarket,
		data.ScopeChannel,
		data.TargetPriceBookID,
		data.Status,
		data.LastExecutedAt,
		data.Version,
		spanner.CommitTimestamp,
		spanner.CommitTimestamp,
	})
}

// UpdateMut creates a Spanner mutation for updating a policy.
func (m *Model) UpdateMut(policyID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := []string{PolicyID, UpdatedAt}
	values := []interface{}{policyID, spanner.CommitTimestamp}
	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}
	return spanner.Update(TableName, columns, values)
}

package m_discount_rule

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the discount_rules table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a discount rule.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.RuleID,
		data.Name,
		data.RuleType,
		data.Logic,
		data.Active,
		data.Version,
		spanner.CommitTimestamp,
		spanner.CommitTimestamp,
	})
}

// UpdateMut creates a Spanner mutation for updating a discount rule.
func (m *Model) UpdateMut(ruleID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := []string{RuleID, UpdatedAt}
	values := []interface{}{ruleID, spanner.CommitTimestamp}
	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}
	return spanner.Update(TableName, columns, values)
}

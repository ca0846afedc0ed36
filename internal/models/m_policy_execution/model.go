package m_policy_execution

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the policy_executions
// table. Executions are append-only.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an execution record.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.ExecutionID,
		data.PolicyID,
		data.PriceBookID,
		data.ExecutionType,
		data.ExecutedAt,
		data.SkusProcessed,
		data.PricesGenerated,
		data.ErrorsCount,
		data.Status,
		data.Log,
		data.Changes,
	})
}

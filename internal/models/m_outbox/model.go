package m_outbox

import (
	"cloud.google.com/go/spanner"
)

// Model builds mutations for the outbox_events table.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// InsertMut stamps created_at with the commit timestamp so events sort in
// commit order with the aggregate change that produced them.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.EventID,
		data.EventType,
		data.AggregateID,
		data.Payload,
		data.Status,
		spanner.CommitTimestamp,
		data.ProcessedAt,
		data.RetryCount,
		data.ErrorMessage,
	})
}

func (m *Model) DeleteMut(eventID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{eventID})
}

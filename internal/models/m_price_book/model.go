package m_price_book

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the price_books table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a price book.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.PriceBookID,
		data.Name,
		data.Market,
		data.Channel,
		data.Currency,
		data.ValidFrom,
		data.ValidTo,
		data.Status,
		data.ApprovedBy,
		data.ApprovedAt,
		data.Version,
		spanner.CommitTimestamp,
		spanner.CommitTimestamp,
	})
}

// UpdateMut creates a Spanner mutation for updating the given columns of a book.
func (m *Model) UpdateMut(priceBookID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+2)
	values := make([]interface{}, 0, len(updates)+2)

	columns = append(columns, PriceBookID)
	values = append(values, priceBookID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	columns = append(columns, UpdatedAt)
	values = append(values, spanner.CommitTimestamp)

	return spanner.Update(TableName, columns, values)
}

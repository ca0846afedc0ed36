package m_price_book_entry

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the price_book_entries table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut writes an entry, replacing any existing price for the item.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(TableName, Columns, []interface{}{
		data.PriceBookID,
		data.ItemID,
		&data.BasePrice,
		data.Source,
		data.PolicyID,
		spanner.CommitTimestamp,
	})
}

// DeleteMut removes one entry.
func (m *Model) DeleteMut(priceBookID, itemID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{priceBookID, itemID})
}

// BookKeys selects every entry of one book.
func BookKeys(priceBookID string) spanner.KeySet {
	return spanner.Key{priceBookID}.AsPrefix()
}

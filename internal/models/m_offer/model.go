package m_offer

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the offers table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an offer.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.OfferID,
		data.ItemID,
		data.ChannelID,
		data.PriceBookID,
		data.OfferType,
		data.Visibility,
		data.ValidFrom,
		data.ValidTo,
		data.Status,
		data.CampaignTag,
		data.Eligibility,
		data.BenefitType,
		data.BenefitValue,
		data.DiscountRuleID,
		data.Version,
		spanner.CommitTimestamp,
		spanner.CommitTimestamp,
	})
}

// UpdateMut creates a Spanner mutation for updating an offer.
func (m *Model) UpdateMut(offerID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := []string{OfferID}
	values := []interface{}{offerID}
	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}
	columns = append(columns, UpdatedAt)
	values = append(values, spanner.CommitTimestamp)

	return spanner.Update(TableName, columns, values)
}

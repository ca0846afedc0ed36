package m_offer

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the offers table.
type Data struct {
	OfferID        string              `spanner:"offer_id"`
	ItemID         string              `spanner:"item_id"`
	ChannelID      string              `spanner:"channel_id"`
	PriceBookID    string              `spanner:"price_book_id"`
	OfferType      string              `spanner:"offer_type"`
	Visibility     string              `spanner:"visibility"`
	ValidFrom      time.Time           `spanner:"valid_from"`
	ValidTo        spanner.NullTime    `spanner:"valid_to"`
	Status         string              `spanner:"status"`
	CampaignTag    spanner.NullString  `spanner:"campaign_tag"`
	Eligibility    spanner.NullJSON    `spanner:"eligibility"`
	BenefitType    spanner.NullString  `spanner:"benefit_type"`
	BenefitValue   spanner.NullNumeric `spanner:"benefit_value"`
	DiscountRuleID spanner.NullString  `spanner:"discount_rule_id"`
	Version        int64               `spanner:"version"`
	CreatedAt      time.Time           `spanner:"created_at"`
	UpdatedAt      time.Time           `spanner:"updated_at"`
}

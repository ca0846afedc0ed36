package m_offer

// Field name constants for the offers table.
const (
	TableName = "offers"

	OfferID        = "offer_id"
	ItemID         = "item_id"
	ChannelID      = "channel_id"
	PriceBookID    = "price_book_id"
	OfferType      = "offer_type"
	Visibility     = "visibility"
	ValidFrom      = "valid_from"
	ValidTo        = "valid_to"
	Status         = "status"
	CampaignTag    = "campaign_tag"
	Eligibility    = "eligibility"
	BenefitType    = "benefit_type"
	BenefitValue   = "benefit_value"
	DiscountRuleID = "discount_rule_id"
	Version        = "version"
	CreatedAt      = "created_at"
	UpdatedAt      = "updated_at"
)

// Columns lists every column in table order.
var Columns = []string{
	OfferID,
	ItemID,
	ChannelID,
	PriceBookID,
	OfferType,
	Visibility,
	ValidFrom,
	ValidTo,
	Status,
	CampaignTag,
	Eligibility,
	BenefitType,
	BenefitValue,
	DiscountRuleID,
	Version,
	CreatedAt,
	UpdatedAt,
}

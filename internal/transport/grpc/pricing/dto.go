package pricing

import "encoding/json"

// Request and response bodies travel as google.protobuf.Struct. They are
// decoded into the structs below and validated with their `validate` tags.

type activatePriceBookRequest struct {
	PriceBookID string `json:"price_book_id" validate:"required"`
	Approver    string `json:"approver" validate:"required"`
}

type activatePriceBookResponse struct {
	PriceBookID         string   `json:"price_book_id"`
	ExpiredPriceBookIDs []string `json:"expired_price_book_ids"`
}

type archivePriceBookRequest struct {
	PriceBookID string `json:"price_book_id" validate:"required"`
	Actor       string `json:"actor"`
}

type scopeDTO struct {
	Market   string `json:"market" validate:"required"`
	Channel  string `json:"channel"`
	Currency string `json:"currency" validate:"required"`
}

type clonePriceBookRequest struct {
	SourceID  string    `json:"source_price_book_id" validate:"required"`
	Name      string    `json:"name"`
	Scope     *scopeDTO `json:"scope,omitempty"`
	ValidFrom string    `json:"valid_from" validate:"required"`
	ValidTo   string    `json:"valid_to"`
	Actor     string    `json:"actor"`
}

type clonePriceBookResponse struct {
	PriceBookID string `json:"price_book_id"`
}

type activateOfferRequest struct {
	OfferID string `json:"offer_id" validate:"required"`
	Actor   string `json:"actor"`
}

type changeOfferStatusRequest struct {
	OfferID string `json:"offer_id" validate:"required"`
	Action  string `json:"action" validate:"required,oneof=pause resume cancel expire"`
	Actor   string `json:"actor"`
}

type expireOffersResponse struct {
	Expired int `json:"expired"`
}

type executePolicyRequest struct {
	PolicyID string `json:"policy_id" validate:"required"`
	DryRun   bool   `json:"dry_run"`
	Actor    string `json:"actor"`
}

type itemChangeDTO struct {
	ItemID   string  `json:"item_id"`
	OldPrice *string `json:"old_price,omitempty"`
	NewPrice *string `json:"new_price,omitempty"`
	Outcome  string  `json:"outcome"`
	Reason   string  `json:"reason,omitempty"`
}

type executionDTO struct {
	ExecutionID     string          `json:"execution_id"`
	Status          string          `json:"status"`
	SkusProcessed   int             `json:"skus_processed"`
	PricesGenerated int             `json:"prices_generated"`
	ErrorsCount     int             `json:"errors_count"`
	Changes         []itemChangeDTO `json:"changes"`
}

type changeBundleStatusRequest struct {
	BundleID string `json:"bundle_id" validate:"required"`
	Action   string `json:"action" validate:"required,oneof=activate deactivate reactivate"`
	Actor    string `json:"actor"`
}

type ruleLogicDTO struct {
	Type   string          `json:"type" validate:"required,oneof=percentage fixed_amount tiered volume_based"`
	Params json.RawMessage `json:"params" validate:"required"`
}

type updateDiscountRuleRequest struct {
	RuleID     string        `json:"rule_id" validate:"required"`
	Name       string        `json:"name"`
	Logic      *ruleLogicDTO `json:"logic,omitempty"`
	Deactivate bool          `json:"deactivate"`
	Actor      string        `json:"actor"`
}

type customerDTO struct {
	Market         string `json:"market"`
	CustomerType   string `json:"customer_type"`
	MembershipTier string `json:"membership_tier"`
}

type resolveOfferRequest struct {
	ItemID    string       `json:"item_id" validate:"required"`
	ChannelID string       `json:"channel_id" validate:"required"`
	Customer  *customerDTO `json:"customer,omitempty"`
	At        string       `json:"at"`
}

type benefitDTO struct {
	Type           string `json:"type"`
	Value          string `json:"value"`
	DiscountRuleID string `json:"discount_rule_id,omitempty"`
}

type offerDTO struct {
	OfferID     string      `json:"offer_id"`
	ItemID      string      `json:"item_id"`
	ChannelID   string      `json:"channel_id"`
	PriceBookID string      `json:"price_book_id"`
	Type        string      `json:"type"`
	Visibility  string      `json:"visibility"`
	Status      string      `json:"status"`
	CampaignTag string      `json:"campaign_tag,omitempty"`
	ValidFrom   string      `json:"valid_from"`
	ValidTo     string      `json:"valid_to,omitempty"`
	Benefit     *benefitDTO `json:"benefit,omitempty"`
	Version     int64       `json:"version"`
}

type resolveOfferResponse struct {
	Found bool      `json:"found"`
	Offer *offerDTO `json:"offer,omitempty"`
}

type resolvePriceRequest struct {
	OfferID  string `json:"offer_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gte=0"`
}

type priceBreakdownDTO struct {
	BasePrice       string `json:"base_price"`
	FinalPrice      string `json:"final_price"`
	Discount        string `json:"discount"`
	DiscountPercent string `json:"discount_percent"`
}

type calculateBundlePriceRequest struct {
	BundleID    string `json:"bundle_id" validate:"required"`
	PriceBookID string `json:"price_book_id" validate:"required"`
}

type bundleLineDTO struct {
	ItemID    string `json:"item_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type bundlePriceDTO struct {
	Lines           []bundleLineDTO `json:"lines"`
	ComponentsTotal string          `json:"components_total"`
	FinalPrice      string          `json:"final_price"`
	Discount        string          `json:"discount"`
}

type simulatePriceRequest struct {
	ItemID    string       `json:"item_id" validate:"required"`
	ChannelID string       `json:"channel_id" validate:"required"`
	Customer  *customerDTO `json:"customer,omitempty"`
	At        string       `json:"at"`
	Quantity  int64        `json:"quantity" validate:"gte=0"`
}

type stepDTO struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Verdict   string `json:"verdict"`
	Rationale string `json:"rationale"`
}

type simulationDTO struct {
	Actionable  bool               `json:"actionable"`
	Steps       []stepDTO          `json:"steps"`
	PriceBookID string             `json:"price_book_id,omitempty"`
	OfferID     string             `json:"offer_id,omitempty"`
	BasePrice   string             `json:"base_price,omitempty"`
	Breakdown   *priceBreakdownDTO `json:"breakdown,omitempty"`
	FinalPrice  string             `json:"final_price,omitempty"`
	Total       string             `json:"total,omitempty"`
	Errors      []string           `json:"errors"`
	Warnings    []string           `json:"warnings"`
}

package m_pricing_policy

// Field name constants for the pricing_policies table.
const (
	TableName = "pricing_policies"

	PolicyID          = "policy_id"
	Name              = "name"
	PolicyType        = "policy_type"
	Logic             = "logic"
	ScopeType         = "scope_type"
	ScopeReference    = "scope_reference"
	ScopeMarket       = "scope_market"
	ScopeChannel      = "scope_channel"
	TargetPriceBookID = "target_price_book_id"
	Status            = "status"
	LastExecutedAt    = "last_executed_at"
	Version           = "version"
	CreatedAt         = "created_at"
	UpdatedAt         = "updated_at"
)

// Columns lists every column in table order.
var Columns = []string{
	PolicyID,
	Name,
	PolicyType,
	Logic,
	ScopeType,
	ScopeReference,
	ScopeMarket,
	ScopeChannel,
	TargetPriceBookID,
	Status,
	LastExecutedAt,
	Version,
	CreatedAt,
	UpdatedAt,
}

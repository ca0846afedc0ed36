package m_discount_rule

// Field name constants for the discount_rules table.
const (
	TableName = "discount_rules"

	RuleID    = "rule_id"
	Name      = "name"
	RuleType  = "rule_type"
	Logic     = "logic"
	Active    = "active"
	Version   = "version"
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)

var Columns = []string{RuleID, Name, RuleType, Logic, Active, Version, CreatedAt, UpdatedAt}

package m_item_cost

// Field name constants for the item_costs table (read-only). Rows are keyed
// by item and effective_from, newest first.
const (
	TableName = "item_costs"

	ItemID        = "item_id"
	EffectiveFrom = "effective_from"
	UnitCost      = "unit_cost"
)

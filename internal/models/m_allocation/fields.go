package m_allocation

// Field name constants for the allocations table (read-only).
const (
	TableName = "allocations"

	AllocationID      = "allocation_id"
	ItemID            = "item_id"
	Status            = "status"
	RemainingQuantity = "remaining_quantity"
	AllowedChannels   = "allowed_channels"
	ConstraintID      = "constraint_id"
	CreatedAt         = "created_at"
)

// StatusActive marks allocations that can back a sale.
const StatusActive = "active"

var Columns = []string{AllocationID, ItemID, Status, RemainingQuantity, AllowedChannels, ConstraintID, CreatedAt}

package m_allocation_constraint

// Field name constants for the allocation_constraints table (read-only).
const (
	TableName = "allocation_constraints"

	ConstraintID         = "constraint_id"
	AllowedMarkets       = "allowed_markets"
	AllowedCustomerTypes = "allowed_customer_types"
	AllowedChannels      = "allowed_channels"
)

var Columns = []string{ConstraintID, AllowedMarkets, AllowedCustomerTypes, AllowedChannels}

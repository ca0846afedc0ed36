package m_allocation_constraint

// Data represents the database model for the allocation_constraints table.
// A NULL array decodes to a nil slice, meaning unrestricted.
type Data struct {
	ConstraintID         string   `spanner:"constraint_id"`
	AllowedMarkets       []string `spanner:"allowed_markets"`
	AllowedCustomerTypes []string `spanner:"allowed_customer_types"`
	AllowedChannels      []string `spanner:"allowed_channels"`
}

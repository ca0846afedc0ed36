package m_allocation

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the allocations table.
type Data struct {
	AllocationID      string             `spanner:"allocation_id"`
	ItemID            string             `spanner:"item_id"`
	Status            string             `spanner:"status"`
	RemainingQuantity int64              `spanner:"remaining_quantity"`
	AllowedChannels   []string           `spanner:"allowed_channels"`
	ConstraintID      spanner.NullString `spanner:"constraint_id"`
	CreatedAt         time.Time          `spanner:"created_at"`
}

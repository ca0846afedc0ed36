package m_item_cost

import (
	"math/big"
	"time"
)

// Data represents the database model for the item_costs table.
type Data struct {
	ItemID        string    `spanner:"item_id"`
	EffectiveFrom time.Time `spanner:"effective_from"`
	UnitCost      big.Rat   `spanner:"unit_cost"`
}

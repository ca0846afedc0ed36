package domain

// Allocation is the upstream supply reservation that makes an item sellable.
type Allocation struct {
	ID                string
	ItemID            string
	RemainingQuantity int64
	AllowedChannels   []string
	ConstraintID      string
}

// AllowsChannel reports whether channel may sell from the allocation.
// An empty list allows every channel.
func (a *Allocation) AllowsChannel(channel string) bool {
	return allowed(a.AllowedChannels, channel)
}

// Covers reports whether the remaining quantity satisfies qty.
func (a *Allocation) Covers(qty int64) bool {
	return a.RemainingQuantity >= qty
}

// HasSupply reports whether any quantity is left to sell.
func (a *Allocation) HasSupply() bool {
	return a.RemainingQuantity > 0
}

package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// BundleLogic selects how a bundle's final price is derived from its parts.
type BundleLogic string

const (
	BundleSumComponents    BundleLogic = "sum_components"
	BundleFixedPrice       BundleLogic = "fixed_price"
	BundlePercentageOffSum BundleLogic = "percentage_off_sum"
)

// BundleStatus represents the lifecycle status of a bundle.
type BundleStatus string

const (
	BundleDraft    BundleStatus = "draft"
	BundleActive   BundleStatus = "active"
	BundleInactive BundleStatus = "inactive"
)

// BundleComponent is one item of a bundle with its quantity.
type BundleComponent struct {
	ItemID   string
	Quantity int64
}

// ComponentReadiness reports whether a component's item can be sold.
type ComponentReadiness struct {
	ItemActive bool
	Allocated  bool
}

// BundleLine is one priced component.
type BundleLine struct {
	ItemID    string
	Quantity  int64
	UnitPrice *Money
	LineTotal *Money
}

// BundlePrice is the composite price of a bundle against one book.
type BundlePrice struct {
	Lines           []BundleLine
	ComponentsTotal *Money
	FinalPrice      *Money
	Discount        *Money
}

// Bundle is a fixed multiset of items sold under one composite SKU.
type Bundle struct {
	id            string
	name          string
	skuCode       string
	logic         BundleLogic
	fixedPrice    *Money
	percentageOff *decimal.Decimal
	status        BundleStatus
	components    []BundleComponent
	version       int64
	createdAt     time.Time
	updatedAt     time.Time

	changes *ChangeTracker
	eventLog
}

// BundleParams groups the definition of a bundle.
type BundleParams struct {
	Name          string
	SKUCode       string
	Logic         BundleLogic
	FixedPrice    *Money
	PercentageOff *decimal.Decimal
	Components    []BundleComponent
}

func (p BundleParams) validate() error {
	if p.Name == "" {
		return ErrEmptyBundleName
	}
	switch p.Logic {
	case BundleSumComponents, BundleFixedPrice, BundlePercentageOffSum:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBundleLogic, p.Logic)
	}
	if p.FixedPrice != nil && p.FixedPrice.IsNegative() {
		return fmt.Errorf("%w: fixed price", ErrNegativeAmount)
	}
	if p.PercentageOff != nil {
		if err := validatePercent(*p.PercentageOff); err != nil {
			return err
		}
	}
	return nil
}

// NewBundle creates a draft bundle.
func NewBundle(id string, p BundleParams, now time.Time) (*Bundle, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &Bundle{
		id:            id,
		name:          p.Name,
		skuCode:       p.SKUCode,
		logic:         p.Logic,
		fixedPrice:    p.FixedPrice,
		percentageOff: p.PercentageOff,
		status:        BundleDraft,
		components:    append([]BundleComponent(nil), p.Components...),
		createdAt:     now,
		updatedAt:     now,
		changes:       NewChangeTracker(),
	}, nil
}

// ReconstructBundle rebuilds a bundle from storage.
func ReconstructBundle(id string, p BundleParams, status BundleStatus, version int64, createdAt, updatedAt time.Time) *Bundle {
	return &Bundle{
		id:            id,
		name:          p.Name,
		skuCode:       p.SKUCode,
		logic:         p.Logic,
		fixedPrice:    p.FixedPrice,
		percentageOff: p.PercentageOff,
		status:        status,
		components:    p.Components,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		changes:       NewChangeTracker(),
	}
}

func (b *Bundle) ID() string                      { return b.id }
func (b *Bundle) Name() string                    { return b.name }
func (b *Bundle) SKUCode() string                 { return b.skuCode }
func (b *Bundle) Logic() BundleLogic              { return b.logic }
func (b *Bundle) FixedPrice() *Money              { return b.fixedPrice }
func (b *Bundle) PercentageOff() *decimal.Decimal { return b.percentageOff }
func (b *Bundle) Status() BundleStatus            { return b.status }
func (b *Bundle) Version() int64                  { return b.version }
func (b *Bundle) CreatedAt() time.Time            { return b.createdAt }
func (b *Bundle) UpdatedAt() time.Time            { return b.updatedAt }
func (b *Bundle) Changes() *ChangeTracker         { return b.changes }

// Components returns the ordered components.
func (b *Bundle) Components() []BundleComponent {
	return append([]BundleComponent(nil), b.components...)
}

// ItemIDs returns the component item IDs in order.
func (b *Bundle) ItemIDs() []string {
	ids := make([]string, 0, len(b.components))
	for _, c := range b.components {
		ids = append(ids, c.ItemID)
	}
	return ids
}

// SetComponents replaces the components. Draft only.
func (b *Bundle) SetComponents(components []BundleComponent, now time.Time) error {
	if b.status != BundleDraft {
		return ErrBundleNotDraft
	}
	b.components = append([]BundleComponent(nil), components...)
	b.updatedAt = now
	b.changes.MarkDirty(FieldComponents)
	return nil
}

// CalculatePrice prices every component from book. If any component has no
// entry the bundle has no price at all.
func (b *Bundle) CalculatePrice(book *PriceBook) (BundlePrice, error) {
	if len(b.components) == 0 {
		return BundlePrice{}, ErrBundleHasNoComponents
	}

	var missing error
	lines := make([]BundleLine, 0, len(b.components))
	total := ZeroMoney()
	for _, c := range b.components {
		entry, ok := book.Entry(c.ItemID)
		if !ok {
			missing = multierr.Append(missing, fmt.Errorf("%w: %s", ErrBundleComponentUnpriced, c.ItemID))
			continue
		}
		line := entry.BasePrice.MultiplyByQuantity(c.Quantity)
		lines = append(lines, BundleLine{
			ItemID:    c.ItemID,
			Quantity:  c.Quantity,
			UnitPrice: entry.BasePrice.Copy(),
			LineTotal: line.Round(),
		})
		total = total.Add(line)
	}
	if missing != nil {
		return BundlePrice{}, missing
	}

	total = total.Round()
	final := b.finalPrice(total)
	return BundlePrice{
		Lines:           lines,
		ComponentsTotal: total,
		FinalPrice:      final,
		Discount:        total.Subtract(final),
	}, nil
}

func (b *Bundle) finalPrice(total *Money) *Money {
	switch b.logic {
	case BundleFixedPrice:
		if b.fixedPrice == nil {
			return total
		}
		return b.fixedPrice.Round()
	case BundlePercentageOffSum:
		if b.percentageOff == nil {
			return total
		}
		return total.Subtract(total.Percent(*b.percentageOff)).FloorAtZero().Round()
	default:
		return total
	}
}

// Activate moves a draft bundle to active once every component is sellable.
func (b *Bundle) Activate(readiness map[string]ComponentReadiness, actor string, now time.Time) error {
	if b.status != BundleDraft {
		return ErrBundleNotDraft
	}
	if err := b.checkReady(readiness); err != nil {
		return err
	}
	b.transition(BundleActive, actor, now)
	return nil
}

// Deactivate takes an active bundle off sale.
func (b *Bundle) Deactivate(actor string, now time.Time) error {
	if b.status != BundleActive {
		return ErrBundleNotActive
	}
	b.transition(BundleInactive, actor, now)
	return nil
}

// Reactivate returns an inactive bundle to sale under the activation guards.
func (b *Bundle) Reactivate(readiness map[string]ComponentReadiness, actor string, now time.Time) error {
	if b.status != BundleInactive {
		return ErrBundleNotInactive
	}
	if err := b.checkReady(readiness); err != nil {
		return err
	}
	b.transition(BundleActive, actor, now)
	return nil
}

// checkReady reports every failing component guard at once.
func (b *Bundle) checkReady(readiness map[string]ComponentReadiness) error {
	if len(b.components) == 0 {
		return ErrBundleHasNoComponents
	}
	var errs error
	for _, c := range b.components {
		if c.Quantity <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrInvalidComponentQuantity, c.ItemID))
		}
		r := readiness[c.ItemID]
		if !r.ItemActive {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrComponentItemInactive, c.ItemID))
		}
		if !r.Allocated {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrComponentNotAllocated, c.ItemID))
		}
	}
	return errs
}

func (b *Bundle) transition(to BundleStatus, actor string, now time.Time) {
	from := b.status
	b.status = to
	b.updatedAt = now
	b.changes.MarkDirty(FieldStatus)
	b.recordEvent(&StatusChangedEvent{
		Entity:   EntityBundle,
		EntityID: b.id,
		From:     string(from),
		To:       string(to),
		Actor:    actor,
		At:       now,
	})
}

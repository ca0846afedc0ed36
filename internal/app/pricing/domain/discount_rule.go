package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/light-bringer/pricing-engine/internal/pkg/validation"
)

// RuleType discriminates the RuleLogic variants.
type RuleType string

const (
	RuleTypePercentage  RuleType = "percentage"
	RuleTypeFixedAmount RuleType = "fixed_amount"
	RuleTypeTiered      RuleType = "tiered"
	RuleTypeVolumeBased RuleType = "volume_based"
)

// RuleLogic is the typed definition of a discount rule. Each variant
// carries only its own parameters.
type RuleLogic interface {
	Type() RuleType
	// Discount returns the discount amount for base and qty. The amount is
	// not capped; callers floor the resulting price at zero.
	Discount(base *Money, qty int64) *Money
	Validate() error
}

// PercentageRule discounts base × Value/100.
type PercentageRule struct {
	Value decimal.Decimal `json:"value"`
}

func (PercentageRule) Type() RuleType { return RuleTypePercentage }

func (r PercentageRule) Discount(base *Money, _ int64) *Money {
	return base.Percent(r.Value)
}

func (r PercentageRule) Validate() error {
	return validatePercent(r.Value)
}

// FixedAmountRule discounts a flat amount.
type FixedAmountRule struct {
	Amount decimal.Decimal `json:"amount"`
}

func (FixedAmountRule) Type() RuleType { return RuleTypeFixedAmount }

func (r FixedAmountRule) Discount(_ *Money, _ int64) *Money {
	return NewMoneyFromDecimal(r.Amount)
}

func (r FixedAmountRule) Validate() error {
	if r.Amount.IsNegative() {
		return fmt.Errorf("%w: fixed amount", ErrNegativeAmount)
	}
	return nil
}

// PriceTier is a closed price range [Min, Max]. A nil Max is unbounded.
type PriceTier struct {
	Min     decimal.Decimal  `json:"min"`
	Max     *decimal.Decimal `json:"max,omitempty"`
	Percent decimal.Decimal  `json:"percent"`
}

// Contains reports whether price lies in the tier, bounds included.
func (t PriceTier) Contains(price decimal.Decimal) bool {
	if price.LessThan(t.Min) {
		return false
	}
	return t.Max == nil || !price.GreaterThan(*t.Max)
}

// TieredRule applies the percentage of the first tier containing the base
// price. Tiers are evaluated in declaration order, not by closeness.
type TieredRule struct {
	Tiers []PriceTier `json:"tiers" validate:"required,min=1"`
}

func (TieredRule) Type() RuleType { return RuleTypeTiered }

func (r TieredRule) Discount(base *Money, _ int64) *Money {
	if tier, ok := r.Match(base); ok {
		return base.Percent(tier.Percent)
	}
	return ZeroMoney()
}

// Match returns the first tier that contains base.
func (r TieredRule) Match(base *Money) (PriceTier, bool) {
	for _, tier := range r.Tiers {
		if tier.Contains(base.Decimal()) {
			return tier, true
		}
	}
	return PriceTier{}, false
}

func (r TieredRule) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	var errs error
	for i, tier := range r.Tiers {
		if tier.Min.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("tier %d: %w", i, ErrNegativeAmount))
		}
		if tier.Max != nil && tier.Max.LessThan(tier.Min) {
			errs = multierr.Append(errs, fmt.Errorf("tier %d: max is below min", i))
		}
		if err := validatePercent(tier.Percent); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("tier %d: %w", i, err))
		}
	}
	return errs
}

// VolumeThreshold grants a flat Amount once quantity reaches MinQty.
type VolumeThreshold struct {
	MinQty int64           `json:"min_qty" validate:"gte=0"`
	Amount decimal.Decimal `json:"amount"`
}

// VolumeRule applies the threshold with the greatest MinQty not above the
// quantity. On equal MinQty the first declared threshold wins.
type VolumeRule struct {
	Thresholds []VolumeThreshold `json:"thresholds" validate:"required,min=1,dive"`
}

func (VolumeRule) Type() RuleType { return RuleTypeVolumeBased }

func (r VolumeRule) Discount(_ *Money, qty int64) *Money {
	var best *VolumeThreshold
	for i := range r.Thresholds {
		t := &r.Thresholds[i]
		if t.MinQty > qty {
			continue
		}
		if best == nil || t.MinQty > best.MinQty {
			best = t
		}
	}
	if best == nil {
		return ZeroMoney()
	}
	return NewMoneyFromDecimal(best.Amount)
}

func (r VolumeRule) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	var errs error
	for i, t := range r.Thresholds {
		if t.Amount.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("threshold %d: %w", i, ErrNegativeAmount))
		}
	}
	return errs
}

func validatePercent(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return ErrInvalidPercentage
	}
	return nil
}

// DiscountRule is a named, reusable discount definition referenced by offer
// benefits. It may change only while no active offer uses it.
type DiscountRule struct {
	id        string
	name      string
	logic     RuleLogic
	active    bool
	version   int64
	createdAt time.Time
	updatedAt time.Time

	changes *ChangeTracker
	eventLog
}

// NewDiscountRule creates an active rule.
func NewDiscountRule(id, name string, logic RuleLogic, now time.Time) (*DiscountRule, error) {
	if name == "" {
		return nil, ErrEmptyRuleName
	}
	if err := checkRuleLogic(logic); err != nil {
		return nil, err
	}
	return &DiscountRule{
		id:        id,
		name:      name,
		logic:     logic,
		active:    true,
		createdAt: now,
		updatedAt: now,
		changes:   NewChangeTracker(),
	}, nil
}

// ReconstructDiscountRule rebuilds a rule from storage without validation.
func ReconstructDiscountRule(id, name string, logic RuleLogic, active bool, version int64, createdAt, updatedAt time.Time) *DiscountRule {
	return &DiscountRule{
		id:        id,
		name:      name,
		logic:     logic,
		active:    active,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
		changes:   NewChangeTracker(),
	}
}

func (r *DiscountRule) ID() string              { return r.id }
func (r *DiscountRule) Name() string            { return r.name }
func (r *DiscountRule) Logic() RuleLogic        { return r.logic }
func (r *DiscountRule) Type() RuleType          { return r.logic.Type() }
func (r *DiscountRule) IsActive() bool          { return r.active }
func (r *DiscountRule) Version() int64          { return r.version }
func (r *DiscountRule) CreatedAt() time.Time    { return r.createdAt }
func (r *DiscountRule) UpdatedAt() time.Time    { return r.updatedAt }
func (r *DiscountRule) Changes() *ChangeTracker { return r.changes }

// Discount evaluates the rule for base and qty.
func (r *DiscountRule) Discount(base *Money, qty int64) *Money {
	return r.logic.Discount(base, qty)
}

// FinalPrice returns max(0, base - discount), rounded.
func (r *DiscountRule) FinalPrice(base *Money, qty int64) *Money {
	return base.Subtract(r.Discount(base, qty)).FloorAtZero().Round()
}

// Update replaces name and logic. activeOffers is the number of active
// offers currently referencing the rule.
func (r *DiscountRule) Update(name string, logic RuleLogic, activeOffers int, actor string, now time.Time) error {
	if activeOffers > 0 {
		return fmt.Errorf("%w: %d active", ErrDiscountRuleInUse, activeOffers)
	}
	if name == "" {
		return ErrEmptyRuleName
	}
	if err := checkRuleLogic(logic); err != nil {
		return err
	}

	r.name = name
	r.logic = logic
	r.updatedAt = now
	r.changes.MarkDirty(FieldName, FieldLogic)
	r.recordEvent(&DiscountRuleUpdatedEvent{
		RuleID:    r.id,
		RuleType:  string(logic.Type()),
		Actor:     actor,
		UpdatedAt: now,
	})
	return nil
}

// Deactivate takes the rule out of use.
func (r *DiscountRule) Deactivate(activeOffers int, actor string, now time.Time) error {
	if !r.active {
		return ErrDiscountRuleInactive
	}
	if activeOffers > 0 {
		return fmt.Errorf("%w: %d active", ErrDiscountRuleInUse, activeOffers)
	}

	r.active = false
	r.updatedAt = now
	r.changes.MarkDirty(FieldActive)
	r.recordEvent(&StatusChangedEvent{
		Entity:   EntityDiscountRule,
		EntityID: r.id,
		From:     "active",
		To:       "inactive",
		Actor:    actor,
		At:       now,
	})
	return nil
}

func checkRuleLogic(logic RuleLogic) error {
	if logic == nil {
		return ErrInvalidRuleLogic
	}
	if err := logic.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRuleLogic, err)
	}
	return nil
}

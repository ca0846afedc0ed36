package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/light-bringer/pricing-engine/internal/pkg/validation"
)

// PolicyType discriminates the PolicyLogic variants.
type PolicyType string

const (
	PolicyCostPlusMargin     PolicyType = "cost_plus_margin"
	PolicyReferencePriceBook PolicyType = "reference_price_book"
	PolicyIndexBased         PolicyType = "index_based"
	PolicyFixedAdjustment    PolicyType = "fixed_adjustment"
	PolicyRounding           PolicyType = "rounding"
)

// CostFallbackFactor estimates cost from the market price when no direct
// cost is known.
var CostFallbackFactor = decimal.RequireFromString("0.6")

// PolicyLogic is the typed parameter set of a pricing policy.
type PolicyLogic interface {
	Type() PolicyType
	// RoundingStep returns the rounding applied to every result, or nil.
	RoundingStep() *RoundingRule
	Validate() error
}

// AdjustmentKind selects relative or absolute adjustments.
type AdjustmentKind string

const (
	AdjustPercentage AdjustmentKind = "percentage"
	AdjustFlat       AdjustmentKind = "flat"
)

// Adjustment moves a price by a percentage of itself or by a flat amount.
type Adjustment struct {
	Kind  AdjustmentKind  `json:"kind" validate:"oneof=percentage flat"`
	Value decimal.Decimal `json:"value"`
}

// Apply returns the adjusted price.
func (a Adjustment) Apply(price *Money) *Money {
	if a.Kind == AdjustFlat {
		return price.Add(NewMoneyFromDecimal(a.Value))
	}
	return price.Add(price.Percent(a.Value))
}

// CostPlusMarginLogic prices at cost × (1 + margin/100) + markup.
type CostPlusMarginLogic struct {
	MarginPercent decimal.Decimal `json:"margin_percent"`
	Markup        decimal.Decimal `json:"markup"`
	Rounding      *RoundingRule   `json:"rounding,omitempty"`
}

func (CostPlusMarginLogic) Type() PolicyType              { return PolicyCostPlusMargin }
func (l CostPlusMarginLogic) RoundingStep() *RoundingRule { return l.Rounding }

// Price computes the unrounded price from cost.
func (l CostPlusMarginLogic) Price(cost *Money) *Money {
	return cost.Add(cost.Percent(l.MarginPercent)).Add(NewMoneyFromDecimal(l.Markup))
}

func (l CostPlusMarginLogic) Validate() error {
	var errs error
	if l.MarginPercent.LessThan(hundred.Neg()) {
		errs = multierr.Append(errs, fmt.Errorf("margin_percent must be above -100"))
	}
	return multierr.Append(errs, validateRounding(l.Rounding))
}

// ReferencePriceBookLogic derives prices from another book's entries.
type ReferencePriceBookLogic struct {
	SourcePriceBookID string        `json:"source_price_book_id" validate:"required"`
	Adjustment        Adjustment    `json:"adjustment"`
	Rounding          *RoundingRule `json:"rounding,omitempty"`
}

func (ReferencePriceBookLogic) Type() PolicyType              { return PolicyReferencePriceBook }
func (l ReferencePriceBookLogic) RoundingStep() *RoundingRule { return l.Rounding }

func (l ReferencePriceBookLogic) Validate() error {
	return multierr.Append(validation.Struct(l), validateRounding(l.Rounding))
}

// IndexBasedLogic prices at market reference × Multiplier + FixedAdjustment.
// Market optionally narrows which market-price references are read.
type IndexBasedLogic struct {
	Market          string          `json:"market,omitempty"`
	Multiplier      decimal.Decimal `json:"multiplier"`
	FixedAdjustment decimal.Decimal `json:"fixed_adjustment"`
	Rounding        *RoundingRule   `json:"rounding,omitempty"`
}

func (IndexBasedLogic) Type() PolicyType              { return PolicyIndexBased }
func (l IndexBasedLogic) RoundingStep() *RoundingRule { return l.Rounding }

// Price computes the unrounded price from a market reference.
func (l IndexBasedLogic) Price(reference *Money) *Money {
	return reference.MultiplyBy(l.Multiplier).Add(NewMoneyFromDecimal(l.FixedAdjustment))
}

func (l IndexBasedLogic) Validate() error {
	var errs error
	if !l.Multiplier.IsPositive() {
		errs = multierr.Append(errs, fmt.Errorf("multiplier must be positive"))
	}
	return multierr.Append(errs, validateRounding(l.Rounding))
}

// FixedAdjustmentLogic adjusts the target book's current prices.
type FixedAdjustmentLogic struct {
	Adjustment Adjustment    `json:"adjustment"`
	Rounding   *RoundingRule `json:"rounding,omitempty"`
}

func (FixedAdjustmentLogic) Type() PolicyType              { return PolicyFixedAdjustment }
func (l FixedAdjustmentLogic) RoundingStep() *RoundingRule { return l.Rounding }

func (l FixedAdjustmentLogic) Validate() error {
	return multierr.Append(validation.Struct(l), validateRounding(l.Rounding))
}

// RoundingLogic only rounds the target book's current prices.
type RoundingLogic struct {
	Rounding RoundingRule `json:"rounding"`
}

func (RoundingLogic) Type() PolicyType              { return PolicyRounding }
func (l RoundingLogic) RoundingStep() *RoundingRule { return &l.Rounding }
func (l RoundingLogic) Validate() error             { return l.Rounding.Validate() }

// ApplyRounding runs the logic's rounding step, if any, and rounds to cents.
func ApplyRounding(logic PolicyLogic, price *Money) *Money {
	if r := logic.RoundingStep(); r != nil {
		return r.Apply(price)
	}
	return price.Round()
}

func validateRounding(r *RoundingRule) error {
	if r == nil {
		return nil
	}
	return r.Validate()
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/pricing-engine/internal/pkg/validation"
)

// RoundingMethod selects ending-digit or nearest-multiple rounding.
type RoundingMethod string

const (
	RoundToEnding   RoundingMethod = "ending"
	RoundToMultiple RoundingMethod = "multiple"
)

// RoundingDirection chooses between the candidates around a price.
type RoundingDirection string

const (
	RoundUp      RoundingDirection = "up"
	RoundDown    RoundingDirection = "down"
	RoundNearest RoundingDirection = "nearest"
)

var (
	one            = decimal.NewFromInt(1)
	allowedEndings = []decimal.Decimal{
		decimal.RequireFromString("0.99"),
		decimal.RequireFromString("0.95"),
		decimal.RequireFromString("0.90"),
		decimal.Zero,
	}
)

// RoundingRule is the optional last step of every pricing strategy.
//
// Ending rounding targets prices of the form n + Ending (19.99, 18.99, ...).
// Multiple rounding targets multiples of Multiple (5, 10, ...). Nearest
// picks the closer candidate; an exact tie rounds up.
type RoundingRule struct {
	Method    RoundingMethod    `json:"method" validate:"oneof=ending multiple"`
	Ending    decimal.Decimal   `json:"ending"`
	Multiple  decimal.Decimal   `json:"multiple"`
	Direction RoundingDirection `json:"direction" validate:"oneof=up down nearest"`
}

// Validate checks the method's parameters.
func (r RoundingRule) Validate() error {
	if err := validation.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRoundingRule, err)
	}
	switch r.Method {
	case RoundToEnding:
		for _, e := range allowedEndings {
			if r.Ending.Equal(e) {
				return nil
			}
		}
		return fmt.Errorf("%w: unsupported ending %s", ErrInvalidRoundingRule, r.Ending)
	case RoundToMultiple:
		if !r.Multiple.IsPositive() {
			return fmt.Errorf("%w: multiple must be positive", ErrInvalidRoundingRule)
		}
	}
	return nil
}

// Apply rounds price according to the rule.
func (r RoundingRule) Apply(price *Money) *Money {
	p := price.Decimal()

	var lower, upper decimal.Decimal
	switch r.Method {
	case RoundToEnding:
		lower = p.Sub(r.Ending).Floor().Add(r.Ending)
		upper = lower.Add(one)
	case RoundToMultiple:
		q := p.Div(r.Multiple)
		lower = q.Floor().Mul(r.Multiple)
		upper = q.Ceil().Mul(r.Multiple)
	default:
		return price.Round()
	}
	if lower.Equal(p) {
		return price.Round()
	}

	return NewMoneyFromDecimal(r.choose(p, lower, upper)).Round()
}

func (r RoundingRule) choose(p, lower, upper decimal.Decimal) decimal.Decimal {
	// Rounding down never produces a negative price.
	if lower.IsNegative() {
		return upper
	}
	switch r.Direction {
	case RoundUp:
		return upper
	case RoundDown:
		return lower
	default:
		if upper.Sub(p).LessThanOrEqual(p.Sub(lower)) {
			return upper
		}
		return lower
	}
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BenefitType selects how an offer transforms the base price.
type BenefitType string

const (
	BenefitNone               BenefitType = "none"
	BenefitPercentageDiscount BenefitType = "percentage_discount"
	BenefitFixedDiscount      BenefitType = "fixed_discount"
	BenefitFixedPrice         BenefitType = "fixed_price"
)

// Benefit is the discount or override attached to an offer.
type Benefit struct {
	benefitType    BenefitType
	value          decimal.Decimal
	discountRuleID string
}

// NewBenefit validates and builds a Benefit. discountRuleID is optional.
func NewBenefit(benefitType BenefitType, value decimal.Decimal, discountRuleID string) (*Benefit, error) {
	switch benefitType {
	case BenefitNone:
	case BenefitPercentageDiscount:
		if err := validatePercent(value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBenefit, err)
		}
	case BenefitFixedDiscount, BenefitFixedPrice:
		if value.IsNegative() {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBenefit, ErrNegativeAmount)
		}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidBenefit, benefitType)
	}
	return &Benefit{benefitType: benefitType, value: value, discountRuleID: discountRuleID}, nil
}

func (b *Benefit) Type() BenefitType      { return b.benefitType }
func (b *Benefit) Value() decimal.Decimal { return b.value }
func (b *Benefit) DiscountRuleID() string { return b.discountRuleID }
func (b *Benefit) HasDiscountRule() bool  { return b.discountRuleID != "" }

// FinalPrice applies the benefit to base. The result is never negative.
func (b *Benefit) FinalPrice(base *Money) *Money {
	var final *Money
	switch b.benefitType {
	case BenefitPercentageDiscount:
		final = base.Subtract(base.Percent(b.value))
	case BenefitFixedDiscount:
		final = base.Subtract(NewMoneyFromDecimal(b.value))
	case BenefitFixedPrice:
		final = NewMoneyFromDecimal(b.value)
	default:
		final = base
	}
	return final.FloorAtZero().Round()
}

// FinalPriceWith uses rule when it is set and active, otherwise the
// benefit's own type and value.
func (b *Benefit) FinalPriceWith(base *Money, qty int64, rule *DiscountRule) *Money {
	if b.benefitType == BenefitNone {
		return base.Round()
	}
	if rule != nil && rule.IsActive() {
		return rule.FinalPrice(base, qty)
	}
	return b.FinalPrice(base)
}

// PriceBreakdown is the result of applying a benefit to a base price.
type PriceBreakdown struct {
	Base            *Money
	Final           *Money
	Discount        *Money
	DiscountPercent decimal.Decimal
}

// NewPriceBreakdown derives the display discount from base and final.
func NewPriceBreakdown(base, final *Money) PriceBreakdown {
	base = base.Round()
	final = final.Round()
	discount := base.Subtract(final)
	return PriceBreakdown{
		Base:            base,
		Final:           final,
		Discount:        discount,
		DiscountPercent: discount.ShareOf(base).Round(MoneyScale),
	}
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits money values are rounded to.
const MoneyScale = 2

var hundred = decimal.NewFromInt(100)

// Money represents a monetary amount using fixed-point decimal arithmetic.
// Intermediate results keep full precision; Round brings a value back to
// MoneyScale digits before it is stored or reported.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a Money from a numerator and denominator.
// Example: NewMoney(249900, 100) represents 2499.00
func NewMoney(numerator, denominator int64) (*Money, error) {
	if denominator == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}
	amount := decimal.NewFromInt(numerator).Div(decimal.NewFromInt(denominator))
	return &Money{amount: amount}, nil
}

// NewMoneyFromDecimal wraps a decimal amount.
func NewMoneyFromDecimal(d decimal.Decimal) *Money {
	return &Money{amount: d}
}

// ParseMoney parses a decimal string such as "19.99".
func ParseMoney(s string) (*Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return &Money{amount: d}, nil
}

// MustMoney parses s and panics on malformed input. Intended for constants and tests.
func MustMoney(s string) *Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount.
func ZeroMoney() *Money {
	return &Money{amount: decimal.Zero}
}

// Decimal exposes the underlying decimal value.
func (m *Money) Decimal() decimal.Decimal {
	return m.amount
}

// Add returns m + other.
func (m *Money) Add(other *Money) *Money {
	return &Money{amount: m.amount.Add(other.amount)}
}

// Subtract returns m - other.
func (m *Money) Subtract(other *Money) *Money {
	return &Money{amount: m.amount.Sub(other.amount)}
}

// MultiplyBy returns m × factor.
func (m *Money) MultiplyBy(factor decimal.Decimal) *Money {
	return &Money{amount: m.amount.Mul(factor)}
}

// MultiplyByQuantity returns m × qty.
func (m *Money) MultiplyByQuantity(qty int64) *Money {
	return &Money{amount: m.amount.Mul(decimal.NewFromInt(qty))}
}

// Percent returns pct percent of m.
func (m *Money) Percent(pct decimal.Decimal) *Money {
	return &Money{amount: m.amount.Mul(pct).Div(hundred)}
}

// ShareOf returns m / whole × 100, or zero when whole is zero.
func (m *Money) ShareOf(whole *Money) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return m.amount.Div(whole.amount).Mul(hundred)
}

// Round rounds to MoneyScale digits, half away from zero.
func (m *Money) Round() *Money {
	return &Money{amount: m.amount.Round(MoneyScale)}
}

// FloorAtZero returns m, or zero when m is negative.
func (m *Money) FloorAtZero() *Money {
	if m.amount.IsNegative() {
		return ZeroMoney()
	}
	return m.Copy()
}

// IsZero returns true if the amount is zero.
func (m *Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if the amount is below zero.
func (m *Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsPositive returns true if the amount is above zero.
func (m *Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// LessThan returns true if m < other.
func (m *Money) LessThan(other *Money) bool {
	return m.amount.Cmp(other.amount) < 0
}

// GreaterThan returns true if m > other.
func (m *Money) GreaterThan(other *Money) bool {
	return m.amount.Cmp(other.amount) > 0
}

// Equals compares amounts numerically, so 10 equals 10.00.
func (m *Money) Equals(other *Money) bool {
	return m.amount.Cmp(other.amount) == 0
}

// Float64 returns an approximate float64 (display only).
func (m *Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String formats the amount with MoneyScale digits.
func (m *Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}

// Copy returns an independent copy.
func (m *Money) Copy() *Money {
	return &Money{amount: m.amount}
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundingRule_Apply(t *testing.T) {
	ending := func(e string, d RoundingDirection) RoundingRule {
		return RoundingRule{Method: RoundToEnding, Ending: dec(e), Direction: d}
	}
	multiple := func(m string, d RoundingDirection) RoundingRule {
		return RoundingRule{Method: RoundToMultiple, Multiple: dec(m), Direction: d}
	}

	tests := []struct {
		name  string
		rule  RoundingRule
		price string
		want  string
	}{
		{"ending nearest picks lower", ending("0.99", RoundNearest), "19.40", "18.99"},
		{"ending nearest picks upper", ending("0.99", RoundNearest), "19.60", "19.99"},
		{"ending up", ending("0.99", RoundUp), "19.40", "19.99"},
		{"ending down", ending("0.99", RoundDown), "19.40", "18.99"},
		{"ending exact is unchanged", ending("0.99", RoundUp), "19.99", "19.99"},
		{"ending 0.95", ending("0.95", RoundUp), "12.10", "12.95"},
		{"ending 0.90 down", ending("0.90", RoundDown), "12.10", "11.90"},
		{"whole ending nearest", ending("0", RoundNearest), "19.40", "19.00"},
		{"whole ending tie rounds up", ending("0", RoundNearest), "19.50", "20.00"},
		{"ending never rounds below zero", ending("0.99", RoundDown), "0.50", "0.99"},
		{"multiple nearest up", multiple("5", RoundNearest), "23", "25"},
		{"multiple nearest down", multiple("5", RoundNearest), "22", "20"},
		{"multiple tie rounds up", multiple("5", RoundNearest), "22.50", "25"},
		{"multiple down", multiple("5", RoundDown), "24.99", "20"},
		{"multiple up", multiple("10", RoundUp), "101", "110"},
		{"multiple exact", multiple("5", RoundUp), "25", "25"},
		{"fractional multiple", multiple("0.05", RoundNearest), "9.97", "9.95"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMoney(t, tt.want, tt.rule.Apply(MustMoney(tt.price)))
		})
	}
}

func TestRoundingRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rule    RoundingRule
		wantErr bool
	}{
		{"valid ending", RoundingRule{Method: RoundToEnding, Ending: dec("0.99"), Direction: RoundUp}, false},
		{"valid multiple", RoundingRule{Method: RoundToMultiple, Multiple: dec("5"), Direction: RoundNearest}, false},
		{"unsupported ending", RoundingRule{Method: RoundToEnding, Ending: dec("0.49"), Direction: RoundUp}, true},
		{"zero multiple", RoundingRule{Method: RoundToMultiple, Direction: RoundDown}, true},
		{"unknown method", RoundingRule{Method: "bankers", Direction: RoundUp}, true},
		{"missing direction", RoundingRule{Method: RoundToEnding, Ending: dec("0.99")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRoundingRule)
				return
			}
			assert.NoError(t, err)
		})
	}
}

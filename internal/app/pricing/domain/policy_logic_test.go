package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexBasedLogic_Price(t *testing.T) {
	l := IndexBasedLogic{Multiplier: dec("1.1"), FixedAdjustment: dec("-2")}
	require.NoError(t, l.Validate())

	assertMoney(t, "86.00", ApplyRounding(l, l.Price(MustMoney("80.00"))))
}

func TestCostPlusMarginLogic_Price(t *testing.T) {
	l := CostPlusMarginLogic{MarginPercent: dec("40"), Markup: dec("0.5")}
	assertMoney(t, "70.50", ApplyRounding(l, l.Price(MustMoney("50"))))

	t.Run("with rounding", func(t *testing.T) {
		l.Rounding = &RoundingRule{Method: RoundToEnding, Ending: dec("0.99"), Direction: RoundNearest}
		assertMoney(t, "70.99", ApplyRounding(l, l.Price(MustMoney("50"))))
	})
}

func TestAdjustment_Apply(t *testing.T) {
	base := MustMoney("100")
	assertMoney(t, "90", Adjustment{Kind: AdjustPercentage, Value: dec("-10")}.Apply(base))
	assertMoney(t, "105", Adjustment{Kind: AdjustFlat, Value: dec("5")}.Apply(base))
	assertMoney(t, "97.50", Adjustment{Kind: AdjustFlat, Value: dec("-2.5")}.Apply(base))
}

func TestApplyRounding_RoundsToCents(t *testing.T) {
	l := FixedAdjustmentLogic{Adjustment: Adjustment{Kind: AdjustPercentage, Value: dec("3.333")}}
	assertMoney(t, "10.33", ApplyRounding(l, l.Adjustment.Apply(MustMoney("10"))))
}

func TestPolicyLogic_Validate(t *testing.T) {
	badRounding := &RoundingRule{Method: RoundToMultiple, Direction: RoundUp}

	tests := []struct {
		name    string
		logic   PolicyLogic
		wantErr bool
	}{
		{"cost plus margin", CostPlusMarginLogic{MarginPercent: dec("25")}, false},
		{"margin below -100", CostPlusMarginLogic{MarginPercent: dec("-150")}, true},
		{"cost plus bad rounding", CostPlusMarginLogic{MarginPercent: dec("25"), Rounding: badRounding}, true},
		{"reference book", ReferencePriceBookLogic{SourcePriceBookID: "pb-1", Adjustment: Adjustment{Kind: AdjustFlat}}, false},
		{"reference without source", ReferencePriceBookLogic{Adjustment: Adjustment{Kind: AdjustFlat}}, true},
		{"reference with unknown adjustment", ReferencePriceBookLogic{SourcePriceBookID: "pb-1", Adjustment: Adjustment{Kind: "ratio"}}, true},
		{"index based", IndexBasedLogic{Multiplier: dec("1")}, false},
		{"index based zero multiplier", IndexBasedLogic{}, true},
		{"fixed adjustment", FixedAdjustmentLogic{Adjustment: Adjustment{Kind: AdjustPercentage, Value: dec("5")}}, false},
		{"rounding only", RoundingLogic{Rounding: RoundingRule{Method: RoundToEnding, Ending: dec("0.99"), Direction: RoundDown}}, false},
		{"rounding only invalid", RoundingLogic{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.logic.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPricingPolicy_Lifecycle(t *testing.T) {
	logic := CostPlusMarginLogic{MarginPercent: dec("30")}
	scope := PolicyScope{Type: ScopeAll}

	t.Run("constructor guards", func(t *testing.T) {
		_, err := NewPricingPolicy("p", "", logic, scope, "pb-1", t0)
		assert.ErrorIs(t, err, ErrEmptyPolicyName)
		_, err = NewPricingPolicy("p", "x", logic, scope, "", t0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = NewPricingPolicy("p", "x", IndexBasedLogic{}, scope, "pb-1", t0)
		assert.ErrorIs(t, err, ErrInvalidPolicyLogic)
		_, err = NewPricingPolicy("p", "x", nil, scope, "pb-1", t0)
		assert.ErrorIs(t, err, ErrInvalidPolicyLogic)
		_, err = NewPricingPolicy("p", "x", logic, PolicyScope{Type: ScopeSku}, "pb-1", t0)
		assert.ErrorIs(t, err, ErrInvalidPolicyScope)
	})

	p, err := NewPricingPolicy("p", "Margin", logic, scope, "pb-1", t0)
	require.NoError(t, err)
	assert.Equal(t, PolicyCostPlusMargin, p.Type())

	assert.ErrorIs(t, p.CanExecute(false), ErrPolicyNotActive)
	assert.NoError(t, p.CanExecute(true), "drafts may be dry-run")

	require.NoError(t, p.Activate("ops", t0))
	assert.NoError(t, p.CanExecute(false))
	assert.ErrorIs(t, p.Activate("ops", t0), ErrInvalidPolicyTransition)

	require.NoError(t, p.Pause("ops", t0))
	assert.ErrorIs(t, p.Pause("ops", t0), ErrInvalidPolicyTransition)
	require.NoError(t, p.Activate("ops", t0))

	require.NoError(t, p.Archive("ops", t0))
	assert.ErrorIs(t, p.CanExecute(true), ErrPolicyArchived)
	assert.ErrorIs(t, p.Archive("ops", t0), ErrPolicyArchived)
	assert.Len(t, p.StatusChanges(), 4)

	ran := t0.Add(time.Hour)
	p.MarkExecuted(ran)
	require.NotNil(t, p.LastExecutedAt())
	assert.Equal(t, ran, *p.LastExecutedAt())
	assert.True(t, p.Changes().Dirty(FieldLastExecutedAt))
}

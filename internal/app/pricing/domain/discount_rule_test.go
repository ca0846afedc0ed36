package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentageRule(t *testing.T) {
	r := PercentageRule{Value: dec("15")}
	require.NoError(t, r.Validate())
	assertMoney(t, "15", r.Discount(MustMoney("100"), 1))

	assert.ErrorIs(t, PercentageRule{Value: dec("101")}.Validate(), ErrInvalidPercentage)
	assert.ErrorIs(t, PercentageRule{Value: dec("-1")}.Validate(), ErrInvalidPercentage)
}

func TestFixedAmountRule(t *testing.T) {
	r := FixedAmountRule{Amount: dec("7.50")}
	require.NoError(t, r.Validate())
	assertMoney(t, "7.50", r.Discount(MustMoney("100"), 3))

	assert.ErrorIs(t, FixedAmountRule{Amount: dec("-1")}.Validate(), ErrNegativeAmount)
}

func TestTieredRule(t *testing.T) {
	fifty := dec("50")
	hundredTwenty := dec("120")
	r := TieredRule{Tiers: []PriceTier{
		{Min: dec("0"), Max: &fifty, Percent: dec("5")},
		{Min: dec("40"), Max: &hundredTwenty, Percent: dec("10")},
		{Min: dec("100"), Percent: dec("20")},
	}}
	require.NoError(t, r.Validate())

	t.Run("first containing tier wins over later overlapping tiers", func(t *testing.T) {
		// 45 lies in tier 0 and tier 1; declaration order picks tier 0.
		assertMoney(t, "2.25", r.Discount(MustMoney("45"), 1))
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		assertMoney(t, "2.50", r.Discount(MustMoney("50"), 1))
		assertMoney(t, "12", r.Discount(MustMoney("120"), 1))
	})

	t.Run("open-ended last tier", func(t *testing.T) {
		assertMoney(t, "100", r.Discount(MustMoney("500"), 1))
	})

	t.Run("no containing tier gives zero", func(t *testing.T) {
		gap := TieredRule{Tiers: []PriceTier{{Min: dec("10"), Max: &fifty, Percent: dec("5")}}}
		assert.True(t, gap.Discount(MustMoney("5"), 1).IsZero())
	})

	t.Run("selection is deterministic", func(t *testing.T) {
		first, _ := r.Match(MustMoney("110"))
		for i := 0; i < 10; i++ {
			again, ok := r.Match(MustMoney("110"))
			require.True(t, ok)
			assert.Equal(t, first, again)
		}
	})

	t.Run("validation", func(t *testing.T) {
		assert.Error(t, TieredRule{}.Validate())
		bad := TieredRule{Tiers: []PriceTier{{Min: dec("60"), Max: &fifty, Percent: dec("5")}}}
		assert.Error(t, bad.Validate())
	})
}

func TestVolumeRule(t *testing.T) {
	r := VolumeRule{Thresholds: []VolumeThreshold{
		{MinQty: 6, Amount: dec("3")},
		{MinQty: 12, Amount: dec("8")},
		{MinQty: 12, Amount: dec("9")},
		{MinQty: 24, Amount: dec("20")},
	}}
	require.NoError(t, r.Validate())

	tests := []struct {
		name string
		qty  int64
		want string
	}{
		{"below every threshold", 5, "0"},
		{"exact threshold", 6, "3"},
		{"greatest reached threshold wins", 20, "8"},
		{"first declared wins on equal min_qty", 12, "8"},
		{"top threshold", 100, "20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMoney(t, tt.want, r.Discount(MustMoney("100"), tt.qty))
		})
	}

	t.Run("validation", func(t *testing.T) {
		assert.Error(t, VolumeRule{}.Validate())
		assert.Error(t, VolumeRule{Thresholds: []VolumeThreshold{{MinQty: -1, Amount: dec("1")}}}.Validate())
	})
}

func TestDiscountRule_FinalPrice(t *testing.T) {
	rule, err := NewDiscountRule("r1", "Ten off", FixedAmountRule{Amount: dec("10")}, t0)
	require.NoError(t, err)

	assertMoney(t, "15", rule.FinalPrice(MustMoney("25"), 1))
	assert.True(t, rule.FinalPrice(MustMoney("4"), 1).IsZero(), "final price is floored at zero")
}

func TestNewDiscountRule_Validation(t *testing.T) {
	_, err := NewDiscountRule("r1", "", PercentageRule{Value: dec("5")}, t0)
	assert.ErrorIs(t, err, ErrEmptyRuleName)

	_, err = NewDiscountRule("r1", "Bad", nil, t0)
	assert.ErrorIs(t, err, ErrInvalidRuleLogic)

	_, err = NewDiscountRule("r1", "Bad", PercentageRule{Value: dec("150")}, t0)
	assert.ErrorIs(t, err, ErrInvalidRuleLogic)
}

func TestDiscountRule_UpdateAndDeactivate(t *testing.T) {
	later := t0.Add(time.Hour)

	t.Run("update blocked while active offers use the rule", func(t *testing.T) {
		rule, _ := NewDiscountRule("r1", "Five", PercentageRule{Value: dec("5")}, t0)
		err := rule.Update("Six", PercentageRule{Value: dec("6")}, 2, "alice", later)
		assert.ErrorIs(t, err, ErrDiscountRuleInUse)
		assert.Equal(t, "Five", rule.Name())
		assert.False(t, rule.Changes().HasChanges())
	})

	t.Run("update allowed with zero active offers", func(t *testing.T) {
		rule, _ := NewDiscountRule("r1", "Five", PercentageRule{Value: dec("5")}, t0)
		require.NoError(t, rule.Update("Six", PercentageRule{Value: dec("6")}, 0, "alice", later))
		assert.Equal(t, "Six", rule.Name())
		assert.True(t, rule.Changes().Dirty(FieldLogic))
		assert.Len(t, rule.DomainEvents(), 1)
	})

	t.Run("deactivate blocked while in use", func(t *testing.T) {
		rule, _ := NewDiscountRule("r1", "Five", PercentageRule{Value: dec("5")}, t0)
		assert.ErrorIs(t, rule.Deactivate(1, "alice", later), ErrDiscountRuleInUse)
		assert.True(t, rule.IsActive())
	})

	t.Run("deactivate twice fails", func(t *testing.T) {
		rule, _ := NewDiscountRule("r1", "Five", PercentageRule{Value: dec("5")}, t0)
		require.NoError(t, rule.Deactivate(0, "alice", later))
		assert.False(t, rule.IsActive())
		assert.ErrorIs(t, rule.Deactivate(0, "alice", later), ErrDiscountRuleInactive)
	})

	t.Run("inactive rule is ignored by benefits", func(t *testing.T) {
		rule, _ := NewDiscountRule("r1", "Half", PercentageRule{Value: dec("50")}, t0)
		require.NoError(t, rule.Deactivate(0, "alice", later))
		b, err := NewBenefit(BenefitPercentageDiscount, decimal.NewFromInt(10), "r1")
		require.NoError(t, err)
		assertMoney(t, "90", b.FinalPriceWith(MustMoney("100"), 1, rule))
	})
}

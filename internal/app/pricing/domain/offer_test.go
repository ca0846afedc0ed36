package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOffer(t *testing.T, id, bookID string, w ValidityWindow, benefit *Benefit, createdAt time.Time) *Offer {
	t.Helper()
	o, err := NewOffer(id, OfferParams{
		ItemID:      "S",
		ChannelID:   "C",
		PriceBookID: bookID,
		Window:      w,
		Benefit:     benefit,
	}, createdAt)
	require.NoError(t, err)
	return o
}

func percentOff(t *testing.T, pct string) *Benefit {
	t.Helper()
	b, err := NewBenefit(BenefitPercentageDiscount, dec(pct), "")
	require.NoError(t, err)
	return b
}

func TestNewOffer(t *testing.T) {
	o, err := NewOffer("o-1", OfferParams{ItemID: "S", ChannelID: "C", PriceBookID: "P"}, t0)
	require.NoError(t, err)
	assert.Equal(t, OfferDraft, o.Status())
	assert.Equal(t, OfferStandard, o.Type())
	assert.Equal(t, VisibilityPublic, o.Visibility())

	_, err = NewOffer("o-2", OfferParams{ItemID: "S", ChannelID: "C"}, t0)
	assert.ErrorIs(t, err, ErrInvalidOfferReference)
}

func TestOffer_ResolvePrice(t *testing.T) {
	book := activeBook(t, "P", "C", openWindow(t0), map[string]string{"S": "100.00"})
	o := newOffer(t, "O", "P", openWindow(t0), percentOff(t, "10"), t0)
	require.NoError(t, o.Activate(book, "ops", t0))

	got, err := o.ResolvePrice(book, 1, nil)
	require.NoError(t, err)

	assertMoney(t, "100.00", got.Base)
	assertMoney(t, "90.00", got.Final)
	assertMoney(t, "10.00", got.Discount)
	assert.True(t, dec("10.0").Equal(got.DiscountPercent))

	t.Run("no benefit keeps base", func(t *testing.T) {
		plain := newOffer(t, "O2", "P", openWindow(t0), nil, t0)
		got, err := plain.ResolvePrice(book, 1, nil)
		require.NoError(t, err)
		assertMoney(t, "100", got.Final)
		assert.True(t, got.Discount.IsZero())
	})

	t.Run("missing entry is an error, not zero", func(t *testing.T) {
		other := activeBook(t, "P", "C", openWindow(t0), map[string]string{"X": "5"})
		_, err := o.ResolvePrice(other, 1, nil)
		assert.ErrorIs(t, err, ErrMissingBasePrice)
	})

	t.Run("wrong book", func(t *testing.T) {
		other := activeBook(t, "Q", "C", openWindow(t0), map[string]string{"S": "5"})
		_, err := o.ResolvePrice(other, 1, nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("active discount rule overrides own value", func(t *testing.T) {
		rule, err := NewDiscountRule("r-1", "Fixed", FixedAmountRule{Amount: dec("25")}, t0)
		require.NoError(t, err)
		got, err := o.ResolvePrice(book, 1, rule)
		require.NoError(t, err)
		assertMoney(t, "75", got.Final)
	})
}

func TestOffer_Activate(t *testing.T) {
	t.Run("book must be active", func(t *testing.T) {
		book := draftBook(t, "P", "C", openWindow(t0), map[string]string{"S": "10"})
		o := newOffer(t, "O", "P", openWindow(t0), nil, t0)
		assert.ErrorIs(t, o.Activate(book, "ops", t0), ErrPriceBookNotActive)
		assert.Equal(t, OfferDraft, o.Status())
	})

	t.Run("book must price the item", func(t *testing.T) {
		book := activeBook(t, "P", "C", openWindow(t0), map[string]string{"X": "10"})
		o := newOffer(t, "O", "P", openWindow(t0), nil, t0)
		assert.ErrorIs(t, o.Activate(book, "ops", t0), ErrMissingBasePrice)
	})

	t.Run("book must be the linked one", func(t *testing.T) {
		book := activeBook(t, "Q", "C", openWindow(t0), map[string]string{"S": "10"})
		o := newOffer(t, "O", "P", openWindow(t0), nil, t0)
		assert.ErrorIs(t, o.Activate(book, "ops", t0), ErrPriceBookNotFound)
	})

	t.Run("only drafts", func(t *testing.T) {
		book := activeBook(t, "P", "C", openWindow(t0), map[string]string{"S": "10"})
		o := newOffer(t, "O", "P", openWindow(t0), nil, t0)
		require.NoError(t, o.Activate(book, "ops", t0))
		assert.ErrorIs(t, o.Activate(book, "ops", t0), ErrOfferNotDraft)
		assert.ErrorIs(t, o.SetBenefit(nil, t0), ErrOfferNotDraft)
		assert.ErrorIs(t, o.SetEligibility(nil, t0), ErrOfferNotDraft)
	})
}

func TestOffer_Lifecycle(t *testing.T) {
	end := t0.Add(48 * time.Hour)
	book := activeBook(t, "P", "C", openWindow(t0), map[string]string{"S": "10"})

	activeOffer := func(t *testing.T) *Offer {
		o := newOffer(t, "O", "P", window(t, t0, end), nil, t0)
		require.NoError(t, o.Activate(book, "ops", t0))
		o.ClearEvents()
		return o
	}

	t.Run("pause and resume", func(t *testing.T) {
		o := activeOffer(t)
		require.NoError(t, o.Pause("ops", t0))
		assert.Equal(t, OfferPaused, o.Status())
		assert.ErrorIs(t, o.Pause("ops", t0), ErrOfferNotActive)

		require.NoError(t, o.Resume(book, "ops", t0))
		assert.Equal(t, OfferActive, o.Status())
		assert.ErrorIs(t, o.Resume(book, "ops", t0), ErrOfferNotPaused)
		assert.Len(t, o.StatusChanges(), 2)
	})

	t.Run("resume needs an active book", func(t *testing.T) {
		o := activeOffer(t)
		require.NoError(t, o.Pause("ops", t0))
		closed := activeBook(t, "P", "C", openWindow(t0), map[string]string{"S": "10"})
		require.NoError(t, closed.Archive("ops", t0))
		assert.ErrorIs(t, o.Resume(closed, "ops", t0), ErrPriceBookNotActive)
		assert.Equal(t, OfferPaused, o.Status())
	})

	t.Run("cancel from any live status", func(t *testing.T) {
		draft := newOffer(t, "O1", "P", openWindow(t0), nil, t0)
		require.NoError(t, draft.Cancel("ops", t0))

		paused := activeOffer(t)
		require.NoError(t, paused.Pause("ops", t0))
		require.NoError(t, paused.Cancel("ops", t0))

		assert.True(t, paused.IsTerminal())
		assert.ErrorIs(t, paused.Cancel("ops", t0), ErrOfferTerminal)
		assert.ErrorIs(t, paused.Pause("ops", t0), ErrOfferNotActive)
	})

	t.Run("expire only after the window", func(t *testing.T) {
		o := activeOffer(t)
		assert.ErrorIs(t, o.Expire("system", end), ErrOfferStillValid)
		require.NoError(t, o.Expire("system", end.Add(time.Second)))
		assert.Equal(t, OfferExpired, o.Status())
		assert.ErrorIs(t, o.Cancel("ops", end), ErrOfferTerminal)
	})

	t.Run("open ended offers never expire", func(t *testing.T) {
		o := newOffer(t, "O", "P", openWindow(t0), nil, t0)
		require.NoError(t, o.Activate(book, "ops", t0))
		assert.ErrorIs(t, o.Expire("system", t0.AddDate(10, 0, 0)), ErrOfferStillValid)
	})
}

func TestResolveOffer(t *testing.T) {
	book := activeBook(t, "P", "C", openWindow(t0), map[string]string{"S": "10"})
	at := t0.Add(time.Hour)

	activate := func(o *Offer) *Offer {
		require.NoError(t, o.Activate(book, "ops", t0))
		return o
	}

	older := activate(newOffer(t, "b", "P", openWindow(t0), nil, t0))
	sameTimeLowerID := activate(newOffer(t, "a", "P", openWindow(t0), nil, t0.Add(time.Minute)))
	sameTimeHigherID := activate(newOffer(t, "c", "P", openWindow(t0), nil, t0.Add(time.Minute)))
	paused := activate(newOffer(t, "0", "P", openWindow(t0), nil, t0.Add(-time.Hour)))
	require.NoError(t, paused.Pause("ops", t0))

	t.Run("earliest created wins", func(t *testing.T) {
		got := ResolveOffer([]*Offer{sameTimeHigherID, sameTimeLowerID, older, paused}, "S", "C", at, nil)
		require.NotNil(t, got)
		assert.Equal(t, "b", got.ID())
	})

	t.Run("id breaks creation ties", func(t *testing.T) {
		got := ResolveOffer([]*Offer{sameTimeHigherID, sameTimeLowerID}, "S", "C", at, nil)
		require.NotNil(t, got)
		assert.Equal(t, "a", got.ID())
	})

	t.Run("deterministic across input order", func(t *testing.T) {
		first := ResolveOffer([]*Offer{older, sameTimeLowerID, sameTimeHigherID}, "S", "C", at, nil)
		second := ResolveOffer([]*Offer{sameTimeHigherID, sameTimeLowerID, older}, "S", "C", at, nil)
		assert.Same(t, first, second)
	})

	t.Run("other channel or item", func(t *testing.T) {
		assert.Nil(t, ResolveOffer([]*Offer{older}, "S", "other", at, nil))
		assert.Nil(t, ResolveOffer([]*Offer{older}, "T", "C", at, nil))
	})

	t.Run("eligibility filters with a customer context", func(t *testing.T) {
		members := newOffer(t, "m", "P", openWindow(t0), nil, t0.Add(-time.Minute))
		require.NoError(t, members.SetEligibility(&Eligibility{MembershipTiers: []string{"gold"}}, t0))
		activate(members)

		got := ResolveOffer([]*Offer{older, members}, "S", "C", at, &CustomerContext{MembershipTier: "gold"})
		assert.Equal(t, "m", got.ID())

		got = ResolveOffer([]*Offer{older, members}, "S", "C", at, &CustomerContext{MembershipTier: "silver"})
		assert.Equal(t, "b", got.ID())
	})
}

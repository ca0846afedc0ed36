package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceBook(t *testing.T) {
	t.Run("valid book starts as draft", func(t *testing.T) {
		b, err := NewPriceBook("pb-1", "Spring", PriceBookScope{Market: "FR", Currency: "EUR"}, openWindow(t0), t0)
		require.NoError(t, err)
		assert.Equal(t, PriceBookDraft, b.Status())
		assert.Nil(t, b.Approval())
		assert.Zero(t, b.EntryCount())
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewPriceBook("pb-1", "", PriceBookScope{Market: "FR", Currency: "EUR"}, openWindow(t0), t0)
		assert.ErrorIs(t, err, ErrEmptyPriceBookName)
	})

	t.Run("market and currency are required", func(t *testing.T) {
		_, err := NewPriceBook("pb-1", "x", PriceBookScope{Currency: "EUR"}, openWindow(t0), t0)
		assert.ErrorIs(t, err, ErrInvalidPriceBookScope)
		_, err = NewPriceBook("pb-1", "x", PriceBookScope{Market: "FR"}, openWindow(t0), t0)
		assert.ErrorIs(t, err, ErrInvalidPriceBookScope)
	})

	t.Run("window is required", func(t *testing.T) {
		_, err := NewPriceBook("pb-1", "x", PriceBookScope{Market: "FR", Currency: "EUR"}, ValidityWindow{}, t0)
		assert.ErrorIs(t, err, ErrWindowStartRequired)

		end := t0.Add(-time.Hour)
		_, err = NewPriceBook("pb-1", "x", PriceBookScope{Market: "FR", Currency: "EUR"}, ValidityWindow{From: t0, To: &end}, t0)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestPriceBook_DraftEdits(t *testing.T) {
	b := draftBook(t, "pb-1", "web", openWindow(t0), map[string]string{"sku-1": "10.005"})

	price, err := b.BasePrice("sku-1")
	require.NoError(t, err)
	assertMoney(t, "10.01", price)

	entry, ok := b.Entry("sku-1")
	require.True(t, ok)
	assert.Equal(t, SourceManual, entry.Source)

	assert.ErrorIs(t, b.SetEntry("sku-2", ZeroMoney(), t0), ErrInvalidEntryPrice)
	assert.ErrorIs(t, b.SetEntry("sku-2", MustMoney("-1"), t0), ErrInvalidEntryPrice)
	assert.ErrorIs(t, b.SetEntry("", MustMoney("1"), t0), ErrInvalidArgument)

	require.NoError(t, b.SetEntry("sku-2", MustMoney("5"), t0))
	require.NoError(t, b.RemoveEntry("sku-1", t0))
	assert.ErrorIs(t, b.RemoveEntry("sku-1", t0), ErrEntryNotFound)

	_, err = b.BasePrice("sku-1")
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.Equal(t, []string{"sku-1", "sku-2"}, b.TouchedItems())
	assert.True(t, b.Changes().Dirty(FieldEntries))

	require.NoError(t, b.Rename("Summer", t0))
	assert.Equal(t, "Summer", b.Name())
	assert.ErrorIs(t, b.Rename("", t0), ErrEmptyPriceBookName)
}

func TestPriceBook_Activate(t *testing.T) {
	t.Run("requires entries", func(t *testing.T) {
		b := draftBook(t, "pb-1", "web", openWindow(t0), nil)
		assert.ErrorIs(t, b.Activate("approver-1", t0), ErrPriceBookHasNoEntries)
		assert.Equal(t, PriceBookDraft, b.Status())
	})

	t.Run("requires approver", func(t *testing.T) {
		b := draftBook(t, "pb-1", "web", openWindow(t0), map[string]string{"sku-1": "10"})
		assert.ErrorIs(t, b.Activate("", t0), ErrApproverRequired)
	})

	t.Run("records approval and status change", func(t *testing.T) {
		b := draftBook(t, "pb-1", "web", openWindow(t0), map[string]string{"sku-1": "10"})
		now := t0.Add(time.Hour)
		require.NoError(t, b.Activate("approver-1", now))

		assert.Equal(t, PriceBookActive, b.Status())
		require.NotNil(t, b.Approval())
		assert.Equal(t, "approver-1", b.Approval().ApprovedBy)
		assert.Equal(t, now, b.Approval().ApprovedAt)

		changes := b.StatusChanges()
		require.Len(t, changes, 1)
		assert.Equal(t, "draft", changes[0].From)
		assert.Equal(t, "active", changes[0].To)
		assert.Equal(t, "price_book.status_changed", changes[0].EventType())
	})

	t.Run("active books are immutable", func(t *testing.T) {
		b := activeBook(t, "pb-1", "web", openWindow(t0), map[string]string{"sku-1": "10"})
		assert.ErrorIs(t, b.Activate("approver-1", t0), ErrPriceBookNotDraft)
		assert.ErrorIs(t, b.SetEntry("sku-2", MustMoney("1"), t0), ErrPriceBookNotDraft)
		assert.ErrorIs(t, b.RemoveEntry("sku-1", t0), ErrPriceBookNotDraft)
		assert.ErrorIs(t, b.SetWindow(openWindow(t0), t0), ErrPriceBookNotDraft)
	})
}

func TestPriceBook_UpsertGeneratedEntry(t *testing.T) {
	b := activeBook(t, "pb-1", "web", openWindow(t0), map[string]string{"sku-1": "10"})

	require.NoError(t, b.UpsertGeneratedEntry("sku-1", MustMoney("12.5"), "pol-1", t0))
	entry, _ := b.Entry("sku-1")
	assert.Equal(t, SourcePolicyGenerated, entry.Source)
	assert.Equal(t, "pol-1", entry.PolicyID)
	assertMoney(t, "12.50", entry.BasePrice)

	assert.ErrorIs(t, b.UpsertGeneratedEntry("sku-2", ZeroMoney(), "pol-1", t0), ErrInvalidEntryPrice)

	require.NoError(t, b.Archive("ops", t0))
	assert.ErrorIs(t, b.UpsertGeneratedEntry("sku-1", MustMoney("1"), "pol-1", t0), ErrPriceBookClosed)
}

func TestPriceBook_Archive(t *testing.T) {
	draft := draftBook(t, "pb-1", "web", openWindow(t0), map[string]string{"sku-1": "10"})
	assert.ErrorIs(t, draft.Archive("ops", t0), ErrCannotArchivePriceBook)

	active := activeBook(t, "pb-2", "web", openWindow(t0), map[string]string{"sku-1": "10"})
	require.NoError(t, active.Archive("ops", t0))
	assert.Equal(t, PriceBookArchived, active.Status())
	assert.ErrorIs(t, active.Archive("ops", t0), ErrCannotArchivePriceBook)

	expired := activeBook(t, "pb-3", "web", openWindow(t0), map[string]string{"sku-1": "10"})
	require.NoError(t, expired.ForceExpire("pb-9", "ops", t0))
	require.NoError(t, expired.Archive("ops", t0))
	assert.Equal(t, PriceBookArchived, expired.Status())
}

func TestActivateExclusive(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	dec31 := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	a := activeBook(t, "A", "web", window(t, jan, jun), map[string]string{"sku-1": "10"})
	other := activeBook(t, "D", "store", window(t, jan, jun), map[string]string{"sku-1": "10"})
	b := draftBook(t, "B", "web", window(t, mar, dec31), map[string]string{"sku-1": "11"})

	expired, err := ActivateExclusive(b, "approver-1", []*PriceBook{a, other}, mar)
	require.NoError(t, err)

	require.Len(t, expired, 1)
	assert.Equal(t, "A", expired[0].ID())
	assert.Equal(t, PriceBookExpired, a.Status())
	assert.Equal(t, PriceBookActive, b.Status())
	assert.Equal(t, PriceBookActive, other.Status(), "different channel is a different scope")

	changes := a.StatusChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, "superseded by B", changes[0].Reason)
}

func TestActivateExclusive_NonOverlappingKeepsBoth(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	a := activeBook(t, "A", "web", window(t, jan, feb), map[string]string{"sku-1": "10"})
	b := draftBook(t, "B", "web", openWindow(mar), map[string]string{"sku-1": "11"})

	expired, err := ActivateExclusive(b, "approver-1", []*PriceBook{a}, mar)
	require.NoError(t, err)
	assert.Empty(t, expired)
	assert.Equal(t, PriceBookActive, a.Status())
}

func TestActivateExclusive_FailureChangesNothing(t *testing.T) {
	a := activeBook(t, "A", "web", openWindow(t0), map[string]string{"sku-1": "10"})
	b := draftBook(t, "B", "web", openWindow(t0), nil)

	_, err := ActivateExclusive(b, "approver-1", []*PriceBook{a}, t0)
	assert.ErrorIs(t, err, ErrPriceBookHasNoEntries)
	assert.Equal(t, PriceBookActive, a.Status())
	assert.Equal(t, PriceBookDraft, b.Status())
}

func TestPriceBook_CloneToNew(t *testing.T) {
	src := activeBook(t, "pb-1", "web", openWindow(t0), map[string]string{"sku-1": "10", "sku-2": "20"})
	require.NoError(t, src.UpsertGeneratedEntry("sku-2", MustMoney("25"), "pol-1", t0))

	next := t0.AddDate(0, 1, 0)
	clone, err := src.CloneToNew("pb-2", CloneOverrides{Window: openWindow(next)}, "ops", t0)
	require.NoError(t, err)

	assert.Equal(t, "pb-2", clone.ID())
	assert.Equal(t, "Book pb-1 (copy)", clone.Name())
	assert.Equal(t, PriceBookDraft, clone.Status())
	assert.Equal(t, src.Scope(), clone.Scope())
	assert.Equal(t, next, clone.Window().From)
	require.Equal(t, 2, clone.EntryCount())
	for _, e := range clone.Entries() {
		assert.Equal(t, SourceManual, e.Source)
		assert.Empty(t, e.PolicyID)
	}
	price, _ := clone.BasePrice("sku-2")
	assertMoney(t, "25", price)

	events := clone.DomainEvents()
	require.Len(t, events, 1)
	cloned, ok := events[0].(*PriceBookClonedEvent)
	require.True(t, ok)
	assert.Equal(t, "pb-1", cloned.SourceID)
	assert.Equal(t, 2, cloned.EntryCount)

	t.Run("overrides scope and name", func(t *testing.T) {
		scope := PriceBookScope{Market: "DE", Channel: "web", Currency: "EUR"}
		c, err := src.CloneToNew("pb-3", CloneOverrides{Name: "DE", Scope: &scope, Window: openWindow(next)}, "ops", t0)
		require.NoError(t, err)
		assert.Equal(t, "DE", c.Name())
		assert.Equal(t, "DE", c.Scope().Market)
	})

	t.Run("zero window is rejected", func(t *testing.T) {
		_, err := src.CloneToNew("pb-4", CloneOverrides{}, "ops", t0)
		assert.ErrorIs(t, err, ErrWindowStartRequired)
	})
}

func TestSelectPriceBook(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	entries := map[string]string{"sku-1": "10"}

	agnostic := activeBook(t, "agnostic", "", openWindow(feb), entries)
	webOld := activeBook(t, "web-old", "web", openWindow(jan), entries)
	webNew := activeBook(t, "web-new", "web", openWindow(feb), entries)
	webTwin := activeBook(t, "web-a", "web", openWindow(feb), entries)
	draft := draftBook(t, "draft", "web", openWindow(at), entries)

	t.Run("channel specific beats agnostic", func(t *testing.T) {
		got := SelectPriceBook([]*PriceBook{agnostic, webOld}, "web", "", at)
		require.NotNil(t, got)
		assert.Equal(t, "web-old", got.ID())
	})

	t.Run("latest start wins then lowest id", func(t *testing.T) {
		got := SelectPriceBook([]*PriceBook{webOld, webNew, webTwin, draft}, "web", "", at)
		require.NotNil(t, got)
		assert.Equal(t, "web-a", got.ID())
	})

	t.Run("agnostic serves other channels", func(t *testing.T) {
		got := SelectPriceBook([]*PriceBook{agnostic, webNew}, "store", "", at)
		require.NotNil(t, got)
		assert.Equal(t, "agnostic", got.ID())
	})

	t.Run("market filter", func(t *testing.T) {
		assert.Nil(t, SelectPriceBook([]*PriceBook{agnostic, webNew}, "web", "DE", at))
	})

	t.Run("nothing live", func(t *testing.T) {
		assert.Nil(t, SelectPriceBook([]*PriceBook{webNew}, "web", "", jan))
	})
}

package clone_price_book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/fakes"
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

func TestClonePriceBook(t *testing.T) {
	ctx := context.Background()
	source := fakes.StoredBook("pb-1", fakes.Scope, fakes.Window(fakes.T0, time.Time{}), domain.PriceBookExpired,
		map[string]string{"sku-1": "10", "sku-2": "20.50"})

	newFixture := func() (*Interactor, *committer.Recorder, *fakes.Outbox) {
		recorder := committer.NewRecorder()
		box := &fakes.Outbox{}
		uc := NewInteractor(fakes.NewPriceBooks(source), box, recorder, clock.NewMockClock(fakes.T0))
		uc.newID = func() string { return "pb-2" }
		return uc, recorder, box
	}

	t.Run("copies entries into a new draft", func(t *testing.T) {
		uc, recorder, box := newFixture()
		store := domain.PriceBookScope{Market: "FR", Channel: "store", Currency: "EUR"}

		id, err := uc.Execute(ctx, &Request{
			SourceID:  "pb-1",
			Overrides: Overrides{Scope: &store, ValidFrom: fakes.T0.Add(24 * time.Hour)},
			Actor:     "ops",
		})
		require.NoError(t, err)
		assert.Equal(t, "pb-2", id)

		require.NotNil(t, recorder.Last())
		assert.Equal(t, 4, recorder.Last().Count(), "book, two entries and the clone event")
		assert.Empty(t, recorder.Last().Guards())
		assert.Equal(t, []string{"price_book.cloned"}, box.EventTypes())
		assert.Equal(t, domain.PriceBookExpired, source.Status())
	})

	t.Run("window must be valid", func(t *testing.T) {
		uc, recorder, _ := newFixture()
		before := fakes.T0.Add(-time.Hour)

		_, err := uc.Execute(ctx, &Request{SourceID: "pb-1", Overrides: Overrides{ValidFrom: fakes.T0, ValidTo: &before}})
		require.ErrorIs(t, err, domain.ErrInvalidWindow)

		_, err = uc.Execute(ctx, &Request{SourceID: "pb-1"})
		require.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Empty(t, recorder.Plans())
	})

	t.Run("unknown source", func(t *testing.T) {
		uc, _, _ := newFixture()
		_, err := uc.Execute(ctx, &Request{SourceID: "missing", Overrides: Overrides{ValidFrom: fakes.T0}})
		assert.ErrorIs(t, err, domain.ErrPriceBookNotFound)
	})
}

package archive_price_book

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

func TestArchivePriceBook(t *testing.T) {
	ctx := context.Background()
	window := fakes.Window(fakes.T0, time.Time{})
	prices := map[string]string{"sku-1": "10"}

	tests := []struct {
		name       string
		status     domain.PriceBookStatus
		wantErr    error
		wantStatus domain.PriceBookStatus
	}{
		{name: "from active", status: domain.PriceBookActive, wantStatus: domain.PriceBookArchived},
		{name: "from expired", status: domain.PriceBookExpired, wantStatus: domain.PriceBookArchived},
		{name: "from draft", status: domain.PriceBookDraft, wantErr: domain.ErrCannotArchivePriceBook, wantStatus: domain.PriceBookDraft},
		{name: "twice", status: domain.PriceBookArchived, wantErr: domain.ErrCannotArchivePriceBook, wantStatus: domain.PriceBookArchived},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := fakes.StoredBook("pb-1", fakes.Scope, window, tt.status, prices)
			recorder := committer.NewRecorder()
			auditLog := &fakes.AuditLog{}
			uc := NewInteractor(fakes.NewPriceBooks(book), &fakes.Outbox{}, recorder, auditLog, clock.NewMockClock(fakes.T0))

			err := uc.Execute(ctx, &Request{PriceBookID: "pb-1", Actor: "ops"})
			assert.Equal(t, tt.wantStatus, book.Status())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, recorder.Plans())
				return
			}
			require.NoError(t, err)
			require.NotNil(t, recorder.Last())
			assert.Equal(t, 2, recorder.Last().Count())
			assert.Equal(t, []string{"pb-1:" + string(tt.status) + "->archived"}, auditLog.Transitions())
			assert.Equal(t, "ops", auditLog.Entries[0].Actor)
		})
	}
}

package repo

import (
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/models/m_outbox"
)

func TestEventsStatement(t *testing.T) {
	t.Run("no filter", func(t *testing.T) {
		stmt := eventsStatement(contracts.EventFilter{})
		assert.NotContains(t, stmt.SQL, "WHERE")
		assert.Contains(t, stmt.SQL, "ORDER BY created_at DESC, event_id ASC")
		assert.NotContains(t, stmt.SQL, "LIMIT")
	})

	t.Run("all filters", func(t *testing.T) {
		stmt := eventsStatement(contracts.EventFilter{
			EventType:   "offer.expired",
			AggregateID: "o-1",
			Status:      m_outbox.StatusPending,
			Limit:       25,
		})
		assert.Contains(t, stmt.SQL, "WHERE event_type = @p0 AND aggregate_id = @p1 AND status = @p2")
		assert.Contains(t, stmt.SQL, "LIMIT @limit")
		assert.Equal(t, "offer.expired", stmt.Params["p0"])
		assert.Equal(t, "o-1", stmt.Params["p1"])
		assert.Equal(t, m_outbox.StatusPending, stmt.Params["p2"])
		assert.Equal(t, int64(25), stmt.Params["limit"])
	})
}

func TestStoredEventFromData(t *testing.T) {
	t.Run("processed with error", func(t *testing.T) {
		data := &m_outbox.Data{
			EventID:      "e-1",
			EventType:    "price_book.activated",
			AggregateID:  "pb-1",
			Payload:      stored(t, spanner.NullJSON{Value: map[string]any{"version": 2}, Valid: true}),
			Status:       m_outbox.StatusFailed,
			CreatedAt:    now,
			ProcessedAt:  spanner.NullTime{Time: now.Add(time.Minute), Valid: true},
			RetryCount:   3,
			ErrorMessage: spanner.NullString{StringVal: "broker down", Valid: true},
		}

		event, err := storedEventFromData(data)
		require.NoError(t, err)
		assert.Equal(t, "e-1", event.EventID)
		assert.JSONEq(t, `{"version":2}`, event.Payload)
		require.NotNil(t, event.ProcessedAt)
		assert.True(t, event.ProcessedAt.Equal(now.Add(time.Minute)))
		assert.Equal(t, int64(3), event.RetryCount)
		assert.Equal(t, "broker down", event.ErrorMessage)
	})

	t.Run("pending without payload", func(t *testing.T) {
		event, err := storedEventFromData(&m_outbox.Data{EventID: "e-2", Status: m_outbox.StatusPending, CreatedAt: now})
		require.NoError(t, err)
		assert.Empty(t, event.Payload)
		assert.Nil(t, event.ProcessedAt)
		assert.Empty(t, event.ErrorMessage)
	})
}

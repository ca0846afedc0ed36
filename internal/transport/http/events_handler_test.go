package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/fakes"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	processedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	box := &fakes.Outbox{
		Events: []*contracts.OutboxEvent{
			{EventID: "e-1", EventType: "price_book.activated", AggregateID: "pb-1", Payload: `{"version":2}`, Status: "completed"},
			{EventID: "e-2", EventType: "offer.expired", AggregateID: "o-1", Payload: `{"offer_id":"o-1"}`, Status: "pending"},
		},
		Processed: map[string]time.Time{"e-1": processedAt},
	}
	handler := NewEventsHandler(list_events.NewQuery(box), logger.Nop())
	return NewMux(prometheus.NewRegistry(), handler)
}

func get(t *testing.T, mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestEventsHandler(t *testing.T) {
	mux := newTestMux(t)

	t.Run("lists newest first", func(t *testing.T) {
		rec := get(t, mux, "/api/v1/events")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp ListEventsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 2, resp.TotalCount)
		assert.Equal(t, "e-2", resp.Events[0].EventID)
		assert.JSONEq(t, `{"offer_id":"o-1"}`, string(resp.Events[0].Payload))
		assert.Nil(t, resp.Events[0].ProcessedAt)
		require.NotNil(t, resp.Events[1].ProcessedAt)
		assert.Equal(t, "2025-03-01T10:00:00Z", *resp.Events[1].ProcessedAt)
	})

	t.Run("filters by status", func(t *testing.T) {
		rec := get(t, mux, "/api/v1/events?status=completed")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp ListEventsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Events, 1)
		assert.Equal(t, "e-1", resp.Events[0].EventID)
	})

	t.Run("rejects bad limit", func(t *testing.T) {
		rec := get(t, mux, "/api/v1/events?limit=abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		rec := get(t, mux, "/api/v1/events?status=done")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown event status")
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/events", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestProbesAndMetrics(t *testing.T) {
	mux := newTestMux(t)

	rec := get(t, mux, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(t, mux, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

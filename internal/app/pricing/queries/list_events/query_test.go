package list_events

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/fakes"
)

func outboxWith(n int) *fakes.Outbox {
	box := &fakes.Outbox{}
	for i := 0; i < n; i++ {
		eventType := "offer.activated"
		if i%2 == 1 {
			eventType = "offer.expired"
		}
		box.Events = append(box.Events, &contracts.OutboxEvent{
			EventID:     fmt.Sprintf("e-%d", i),
			EventType:   eventType,
			AggregateID: fmt.Sprintf("o-%d", i%3),
			Status:      "pending",
		})
	}
	return box
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("newest first with default limit", func(t *testing.T) {
		events, err := NewQuery(outboxWith(150)).Execute(ctx, &Request{})
		require.NoError(t, err)
		require.Len(t, events, 100)
		assert.Equal(t, "e-149", events[0].EventID)
	})

	t.Run("limit is capped", func(t *testing.T) {
		events, err := NewQuery(outboxWith(1200)).Execute(ctx, &Request{Limit: 5000})
		require.NoError(t, err)
		assert.Len(t, events, 1000)
	})

	t.Run("filters by type and aggregate", func(t *testing.T) {
		events, err := NewQuery(outboxWith(12)).Execute(ctx, &Request{EventType: "offer.expired", AggregateID: "o-1"})
		require.NoError(t, err)
		require.NotEmpty(t, events)
		for _, e := range events {
			assert.Equal(t, "offer.expired", e.EventType)
			assert.Equal(t, "o-1", e.AggregateID)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := NewQuery(outboxWith(1)).Execute(ctx, &Request{Status: "done"})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

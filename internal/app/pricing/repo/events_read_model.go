package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/models/m_outbox"
	"github.com/light-bringer/pricing-engine/internal/pkg/query"
)

// EventsReadModel implements contracts.EventsReadModel for Spanner.
type EventsReadModel struct {
	client *spanner.Client
}

// NewEventsReadModel creates a new EventsReadModel.
func NewEventsReadModel(client *spanner.Client) *EventsReadModel {
	return &EventsReadModel{client: client}
}

// ListEvents retrieves outbox events matching filter, newest first.
func (r *EventsReadModel) ListEvents(ctx context.Context, filter contracts.EventFilter) ([]*contracts.StoredEvent, error) {
	iter := r.client.Single().Query(ctx, eventsStatement(filter))
	defer iter.Stop()

	var events []*contracts.StoredEvent
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate events: %w", err)
		}

		var data m_outbox.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event, err := storedEventFromData(&data)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func eventsStatement(filter contracts.EventFilter) spanner.Statement {
	return query.From(m_outbox.TableName).
		Select(m_outbox.Columns...).
		WhereIf(filter.EventType != "", query.Eq(m_outbox.EventType, filter.EventType)).
		WhereIf(filter.AggregateID != "", query.Eq(m_outbox.AggregateID, filter.AggregateID)).
		WhereIf(filter.Status != "", query.Eq(m_outbox.Status, filter.Status)).
		OrderBy(m_outbox.CreatedAt, query.Desc).
		OrderBy(m_outbox.EventID, query.Asc).
		Limit(int64(filter.Limit)).
		Build()
}

func storedEventFromData(data *m_outbox.Data) (*contracts.StoredEvent, error) {
	payload, err := jsonBytes(data.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload of event %s: %w", data.EventID, err)
	}
	event := &contracts.StoredEvent{
		OutboxEvent: contracts.OutboxEvent{
			EventID:     data.EventID,
			EventType:   data.EventType,
			AggregateID: data.AggregateID,
			Payload:     string(payload),
			Status:      data.Status,
		},
		CreatedAt:  data.CreatedAt,
		RetryCount: data.RetryCount,
	}
	if data.ProcessedAt.Valid {
		at := data.ProcessedAt.Time
		event.ProcessedAt = &at
	}
	if data.ErrorMessage.Valid {
		event.ErrorMessage = data.ErrorMessage.StringVal
	}
	return event, nil
}

package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/models/m_outbox"
	"github.com/light-bringer/pricing-engine/internal/pkg/query"
)

// OutboxRepo implements OutboxRepository for Spanner.
type OutboxRepo struct {
	client *spanner.Client
	model  *m_outbox.Model
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo(client *spanner.Client) contracts.OutboxRepository {
	return &OutboxRepo{
		client: client,
		model:  m_outbox.NewModel(),
	}
}

// InsertMut creates a mutation for inserting an outbox event.
func (r *OutboxRepo) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	// RawMessage keeps the payload an object instead of a quoted string.
	payload := spanner.NullJSON{Value: json.RawMessage(event.Payload), Valid: event.Payload != ""}

	return r.model.InsertMut(&m_outbox.Data{
		EventID:     event.EventID,
		EventType:   event.EventType,
		AggregateID: event.AggregateID,
		Payload:     payload,
		Status:      event.Status,
	})
}

// EnrichEvent converts a domain event to an outbox event with metadata.
func (r *OutboxRepo) EnrichEvent(event domain.DomainEvent, payload string) *contracts.OutboxEvent {
	return &contracts.OutboxEvent{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		Status:      m_outbox.StatusPending,
	}
}

// ListProcessedBefore returns IDs of completed or failed events processed
// before cutoff, oldest first.
func (r *OutboxRepo) ListProcessedBefore(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	stmt := query.From(m_outbox.TableName).
		Select(m_outbox.EventID).
		Where(query.In(m_outbox.Status, m_outbox.FinishedStatuses)).
		Where(query.IsNotNull(m_outbox.ProcessedAt)).
		Where(query.Lt(m_outbox.ProcessedAt, cutoff)).
		OrderBy(m_outbox.ProcessedAt, query.Asc).
		Limit(int64(limit)).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var ids []string
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list processed outbox events: %w", err)
		}
		var id string
		if err := row.Column(0, &id); err != nil {
			return nil, fmt.Errorf("failed to parse event id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DeleteMut creates a mutation removing an event.
func (r *OutboxRepo) DeleteMut(eventID string) *spanner.Mutation {
	return r.model.DeleteMut(eventID)
}

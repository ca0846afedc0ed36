package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
)

// OutboxEvent represents an enriched domain event ready for persistence.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
}

// OutboxRepository defines the interface for outbox event persistence.
type OutboxRepository interface {
	// InsertMut creates a mutation for inserting an outbox event
	InsertMut(event *OutboxEvent) *spanner.Mutation

	// EnrichEvent converts a domain event to an outbox event with metadata
	EnrichEvent(event domain.DomainEvent, payload string) *OutboxEvent

	// ListProcessedBefore returns IDs of completed or failed events processed
	// before cutoff, at most limit of them.
	ListProcessedBefore(ctx context.Context, cutoff time.Time, limit int) ([]string, error)

	// DeleteMut creates a mutation removing an event
	DeleteMut(eventID string) *spanner.Mutation
}

// EventFilter narrows an outbox listing. Empty strings match everything.
type EventFilter struct {
	EventType   string
	AggregateID string
	Status      string
	Limit       int
}

// StoredEvent is an outbox row as read back for inspection.
type StoredEvent struct {
	OutboxEvent
	CreatedAt    time.Time
	ProcessedAt  *time.Time
	RetryCount   int64
	ErrorMessage string
}

// EventsReadModel lists outbox events, newest first.
type EventsReadModel interface {
	ListEvents(ctx context.Context, filter EventFilter) ([]*StoredEvent, error)
}

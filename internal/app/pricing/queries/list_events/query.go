package list_events

import (
	"context"
	"fmt"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/models/m_outbox"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Request contains filtering parameters for listing outbox events.
type Request struct {
	EventType   string // e.g. "offer.expired"
	AggregateID string
	Status      string // pending, processing, completed or failed
	Limit       int
}

// Query handles the list events query.
type Query struct {
	readModel contracts.EventsReadModel
}

// NewQuery creates a new list events query.
func NewQuery(readModel contracts.EventsReadModel) *Query {
	return &Query{readModel: readModel}
}

// Execute lists events newest first. Limit defaults to 100 and is capped at 1000.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*contracts.StoredEvent, error) {
	if req.Status != "" && !knownStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown event status %q", domain.ErrInvalidArgument, req.Status)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return q.readModel.ListEvents(ctx, contracts.EventFilter{
		EventType:   req.EventType,
		AggregateID: req.AggregateID,
		Status:      req.Status,
		Limit:       limit,
	})
}

func knownStatus(s string) bool {
	switch s {
	case m_outbox.StatusPending, m_outbox.StatusProcessing, m_outbox.StatusCompleted, m_outbox.StatusFailed:
		return true
	}
	return false
}

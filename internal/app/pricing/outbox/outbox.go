// Package outbox turns recorded domain events into outbox mutations that
// join the same commit plan as the aggregate changes.
package outbox

import (
	"encoding/json"
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
)

// Mutations returns one outbox insert per event, in order.
func Mutations(repo contracts.OutboxRepository, events []domain.DomainEvent) ([]*spanner.Mutation, error) {
	muts := make([]*spanner.Mutation, 0, len(events))
	for _, event := range events {
		payload, err := serializeEvent(event)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize event %s: %w", event.EventType(), err)
		}
		muts = append(muts, repo.InsertMut(repo.EnrichEvent(event, payload)))
	}
	return muts, nil
}

// serializeEvent converts a domain event to JSON payload.
func serializeEvent(event domain.DomainEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

package audit

import (
	"context"
	"encoding/json"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
)

// RecordedEvent is the outbox representation of an audit entry.
type RecordedEvent struct {
	Entry contracts.AuditEntry
}

func (e *RecordedEvent) EventType() string   { return "audit.recorded" }
func (e *RecordedEvent) AggregateID() string { return e.Entry.EntityID }

// OutboxSink stores audit entries in the outbox table so downstream
// consumers receive them with the domain events. Write failures are logged
// and dropped.
type OutboxSink struct {
	outbox  contracts.OutboxRepository
	applier committer.Applier
	log     *logger.Logger
}

// NewOutboxSink creates an OutboxSink.
func NewOutboxSink(outbox contracts.OutboxRepository, applier committer.Applier, log *logger.Logger) *OutboxSink {
	return &OutboxSink{outbox: outbox, applier: applier, log: log}
}

// Record implements contracts.AuditSink.
func (s *OutboxSink) Record(ctx context.Context, entry contracts.AuditEntry) {
	event := &RecordedEvent{Entry: entry}
	payload, err := json.Marshal(entry)
	if err != nil {
		s.log.Error(ctx, "failed to encode audit entry", err)
		return
	}

	plan := committer.NewPlan()
	plan.Add(s.outbox.InsertMut(s.outbox.EnrichEvent(event, string(payload))))
	if err := s.applier.Apply(ctx, plan); err != nil {
		s.log.Error(ctx, "failed to store audit entry", err)
	}
}

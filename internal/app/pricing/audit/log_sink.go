package audit

import (
	"context"
	"time"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
)

// LogSink writes audit entries as structured log lines.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

// Record implements contracts.AuditSink.
func (s *LogSink) Record(ctx context.Context, entry contracts.AuditEntry) {
	event := s.log.Zerolog(ctx).Info().
		Str("audit_entity", entry.Entity).
		Str("audit_entity_id", entry.EntityID).
		Str("old_state", entry.OldState).
		Str("new_state", entry.NewState).
		Str("actor", entry.Actor).
		Str("at", entry.At.UTC().Format(time.RFC3339))
	if entry.Reason != "" {
		event = event.Str("reason", entry.Reason)
	}
	event.Msg("state changed")
}

// Package audit forwards committed state changes to audit sinks.
package audit

import (
	"context"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
)

// Entry converts a status change into an audit entry.
func Entry(e *domain.StatusChangedEvent) contracts.AuditEntry {
	return contracts.AuditEntry{
		Entity:   e.Entity,
		EntityID: e.EntityID,
		OldState: e.From,
		NewState: e.To,
		Actor:    e.Actor,
		Reason:   e.Reason,
		At:       e.At,
	}
}

// Forward records every change on sink. Call it only after the changes are
// committed. A nil sink drops them.
func Forward(ctx context.Context, sink contracts.AuditSink, changes []*domain.StatusChangedEvent) {
	if sink == nil {
		return
	}
	for _, c := range changes {
		sink.Record(ctx, Entry(c))
	}
}

// Multi fans entries out to several sinks.
type Multi []contracts.AuditSink

// Record implements contracts.AuditSink.
func (m Multi) Record(ctx context.Context, entry contracts.AuditEntry) {
	for _, s := range m {
		if s != nil {
			s.Record(ctx, entry)
		}
	}
}

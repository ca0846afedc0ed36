package contracts

import (
	"context"
	"time"
)

// AuditEntry is one recorded state change.
type AuditEntry struct {
	Entity   string
	EntityID string
	OldState string
	NewState string
	Actor    string
	Reason   string
	At       time.Time
}

// AuditSink receives state changes after they are committed. Sinks must not
// fail the operation that produced the entry.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}

// ApproverAuthority decides whether an actor may approve price books.
type ApproverAuthority interface {
	CanApprove(ctx context.Context, actor string) (bool, error)
}

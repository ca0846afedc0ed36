package domain

import "sort"

// Field names for change tracking, shared by all pricing aggregates.
const (
	FieldName           = "name"
	FieldStatus         = "status"
	FieldWindow         = "window"
	FieldScope          = "scope"
	FieldApproval       = "approval"
	FieldEntries        = "entries"
	FieldEligibility    = "eligibility"
	FieldBenefit        = "benefit"
	FieldLogic          = "logic"
	FieldLastExecutedAt = "last_executed_at"
	FieldComponents     = "components"
	FieldActive         = "active"
)

// ChangeTracker records which fields of an aggregate were modified so
// repositories only write what changed.
type ChangeTracker struct {
	dirty map[string]struct{}
}

// NewChangeTracker creates an empty ChangeTracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirty: make(map[string]struct{})}
}

// MarkDirty flags one or more fields as modified.
func (ct *ChangeTracker) MarkDirty(fields ...string) {
	for _, f := range fields {
		ct.dirty[f] = struct{}{}
	}
}

// Dirty reports whether field was modified.
func (ct *ChangeTracker) Dirty(field string) bool {
	_, ok := ct.dirty[field]
	return ok
}

// Clear forgets all modifications, typically after a successful commit.
func (ct *ChangeTracker) Clear() {
	ct.dirty = make(map[string]struct{})
}

// HasChanges reports whether any field was modified.
func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirty) > 0
}

// DirtyFields returns the modified fields in sorted order.
func (ct *ChangeTracker) DirtyFields() []string {
	fields := make([]string, 0, len(ct.dirty))
	for f := range ct.dirty {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

package domain

import "time"

// Entity kinds used in events and audit entries.
const (
	EntityPriceBook    = "price_book"
	EntityOffer        = "offer"
	EntityPolicy       = "pricing_policy"
	EntityBundle       = "bundle"
	EntityDiscountRule = "discount_rule"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// StatusChangedEvent is emitted by every state machine transition.
type StatusChangedEvent struct {
	Entity   string
	EntityID string
	From     string
	To       string
	Actor    string
	Reason   string
	At       time.Time
}

func (e *StatusChangedEvent) EventType() string {
	return e.Entity + ".status_changed"
}

func (e *StatusChangedEvent) AggregateID() string {
	return e.EntityID
}

// PriceBookClonedEvent is emitted when a draft is cloned from another book.
type PriceBookClonedEvent struct {
	PriceBookID string
	SourceID    string
	EntryCount  int
	Actor       string
	ClonedAt    time.Time
}

func (e *PriceBookClonedEvent) EventType() string {
	return "price_book.cloned"
}

func (e *PriceBookClonedEvent) AggregateID() string {
	return e.PriceBookID
}

// PricesGeneratedEvent is emitted when a policy run writes entries into a book.
type PricesGeneratedEvent struct {
	PolicyID    string
	PriceBookID string
	ExecutionID string
	Generated   int
	ExecutedAt  time.Time
}

func (e *PricesGeneratedEvent) EventType() string {
	return "pricing_policy.prices_generated"
}

func (e *PricesGeneratedEvent) AggregateID() string {
	return e.PolicyID
}

// DiscountRuleUpdatedEvent is emitted when a rule's name or logic changes.
type DiscountRuleUpdatedEvent struct {
	RuleID    string
	RuleType  string
	Actor     string
	UpdatedAt time.Time
}

func (e *DiscountRuleUpdatedEvent) EventType() string {
	return "discount_rule.updated"
}

func (e *DiscountRuleUpdatedEvent) AggregateID() string {
	return e.RuleID
}

// eventLog is embedded by aggregates to collect pending events.
type eventLog struct {
	events []DomainEvent
}

func (l *eventLog) recordEvent(e DomainEvent) {
	l.events = append(l.events, e)
}

// DomainEvents returns events recorded since the last ClearEvents.
func (l *eventLog) DomainEvents() []DomainEvent {
	return l.events
}

// ClearEvents drops recorded events. Call only after a successful commit.
func (l *eventLog) ClearEvents() {
	l.events = nil
}

// StatusChanges returns the status transitions among the pending events.
func (l *eventLog) StatusChanges() []*StatusChangedEvent {
	var out []*StatusChangedEvent
	for _, e := range l.events {
		if sc, ok := e.(*StatusChangedEvent); ok {
			out = append(out, sc)
		}
	}
	return out
}

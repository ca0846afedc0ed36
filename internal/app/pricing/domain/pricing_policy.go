package domain

import (
	"fmt"
	"time"
)

// PolicyStatus represents the lifecycle status of a pricing policy.
type PolicyStatus string

const (
	PolicyDraft    PolicyStatus = "draft"
	PolicyActive   PolicyStatus = "active"
	PolicyPaused   PolicyStatus = "paused"
	PolicyArchived PolicyStatus = "archived"
)

// PricingPolicy generates base prices for a scope of items and writes them
// into a target price book.
type PricingPolicy struct {
	id                string
	name              string
	logic             PolicyLogic
	scope             PolicyScope
	targetPriceBookID string
	status            PolicyStatus
	lastExecutedAt    *time.Time
	version           int64
	createdAt         time.Time
	updatedAt         time.Time

	changes *ChangeTracker
	eventLog
}

// NewPricingPolicy creates a draft policy.
func NewPricingPolicy(id, name string, logic PolicyLogic, scope PolicyScope, targetPriceBookID string, now time.Time) (*PricingPolicy, error) {
	if name == "" {
		return nil, ErrEmptyPolicyName
	}
	if targetPriceBookID == "" {
		return nil, fmt.Errorf("%w: target price book required", ErrInvalidArgument)
	}
	if err := checkPolicyLogic(logic); err != nil {
		return nil, err
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return &PricingPolicy{
		id:                id,
		name:              name,
		logic:             logic,
		scope:             scope,
		targetPriceBookID: targetPriceBookID,
		status:            PolicyDraft,
		createdAt:         now,
		updatedAt:         now,
		changes:           NewChangeTracker(),
	}, nil
}

// ReconstructPricingPolicy rebuilds a policy from storage.
func ReconstructPricingPolicy(
	id, name string,
	logic PolicyLogic,
	scope PolicyScope,
	targetPriceBookID string,
	status PolicyStatus,
	lastExecutedAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *PricingPolicy {
	return &PricingPolicy{
		id:                id,
		name:              name,
		logic:             logic,
		scope:             scope,
		targetPriceBookID: targetPriceBookID,
		status:            status,
		lastExecutedAt:    lastExecutedAt,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
		changes:           NewChangeTracker(),
	}
}

func (p *PricingPolicy) ID() string                 { return p.id }
func (p *PricingPolicy) Name() string               { return p.name }
func (p *PricingPolicy) Logic() PolicyLogic         { return p.logic }
func (p *PricingPolicy) Type() PolicyType           { return p.logic.Type() }
func (p *PricingPolicy) Scope() PolicyScope         { return p.scope }
func (p *PricingPolicy) TargetPriceBookID() string  { return p.targetPriceBookID }
func (p *PricingPolicy) Status() PolicyStatus       { return p.status }
func (p *PricingPolicy) LastExecutedAt() *time.Time { return p.lastExecutedAt }
func (p *PricingPolicy) Version() int64             { return p.version }
func (p *PricingPolicy) CreatedAt() time.Time       { return p.createdAt }
func (p *PricingPolicy) UpdatedAt() time.Time       { return p.updatedAt }
func (p *PricingPolicy) Changes() *ChangeTracker    { return p.changes }

// Activate moves a draft or paused policy to active.
func (p *PricingPolicy) Activate(actor string, now time.Time) error {
	if p.status != PolicyDraft && p.status != PolicyPaused {
		return fmt.Errorf("%w: %s to %s", ErrInvalidPolicyTransition, p.status, PolicyActive)
	}
	p.transition(PolicyActive, actor, now)
	return nil
}

// Pause suspends an active policy.
func (p *PricingPolicy) Pause(actor string, now time.Time) error {
	if p.status != PolicyActive {
		return fmt.Errorf("%w: %s to %s", ErrInvalidPolicyTransition, p.status, PolicyPaused)
	}
	p.transition(PolicyPaused, actor, now)
	return nil
}

// Archive retires the policy from any other status.
func (p *PricingPolicy) Archive(actor string, now time.Time) error {
	if p.status == PolicyArchived {
		return ErrPolicyArchived
	}
	p.transition(PolicyArchived, actor, now)
	return nil
}

// CanExecute reports whether a run is allowed. Real runs need an active
// policy; dry runs are allowed unless the policy is archived.
func (p *PricingPolicy) CanExecute(dryRun bool) error {
	if p.status == PolicyArchived {
		return ErrPolicyArchived
	}
	if !dryRun && p.status != PolicyActive {
		return ErrPolicyNotActive
	}
	return nil
}

// MarkExecuted records the time of a committed (non dry-run) execution.
func (p *PricingPolicy) MarkExecuted(at time.Time) {
	p.lastExecutedAt = &at
	p.updatedAt = at
	p.changes.MarkDirty(FieldLastExecutedAt)
}

func (p *PricingPolicy) transition(to PolicyStatus, actor string, now time.Time) {
	from := p.status
	p.status = to
	p.updatedAt = now
	p.changes.MarkDirty(FieldStatus)
	p.recordEvent(&StatusChangedEvent{
		Entity:   EntityPolicy,
		EntityID: p.id,
		From:     string(from),
		To:       string(to),
		Actor:    actor,
		At:       now,
	})
}

func checkPolicyLogic(logic PolicyLogic) error {
	if logic == nil {
		return ErrInvalidPolicyLogic
	}
	if err := logic.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPolicyLogic, err)
	}
	return nil
}

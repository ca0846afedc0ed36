package change_bundle_status

import (
	"context"
	"fmt"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/audit"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/outbox"
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

// Action is a bundle transition.
type Action string

const (
	ActionActivate   Action = "activate"
	ActionDeactivate Action = "deactivate"
	ActionReactivate Action = "reactivate"
)

// Request contains the bundle and the transition to apply.
type Request struct {
	BundleID string
	Action   Action
	Actor    string
}

// Interactor handles the change bundle status use case.
type Interactor struct {
	bundles     contracts.BundleRepository
	outboxRepo  contracts.OutboxRepository
	catalog     contracts.Catalog
	allocations contracts.AllocationSource
	committer   committer.Applier
	auditSink   contracts.AuditSink
	clock       clock.Clock
}

// NewInteractor creates a new change bundle status interactor.
func NewInteractor(
	bundles contracts.BundleRepository,
	outboxRepo contracts.OutboxRepository,
	catalog contracts.Catalog,
	allocations contracts.AllocationSource,
	committer committer.Applier,
	auditSink contracts.AuditSink,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		bundles:     bundles,
		outboxRepo:  outboxRepo,
		catalog:     catalog,
		allocations: allocations,
		committer:   committer,
		auditSink:   auditSink,
		clock:       clock,
	}
}

// Execute applies one transition to a bundle. Activation and reactivation
// check every component against the catalog and the allocations first.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if req.BundleID == "" {
		return fmt.Errorf("%w: bundle id required", domain.ErrInvalidArgument)
	}

	// 1. Load aggregate
	bundle, err := i.bundles.GetByID(ctx, req.BundleID)
	if err != nil {
		return err
	}

	// 2. Call domain method
	now := i.clock.Now()
	switch req.Action {
	case ActionDeactivate:
		err = bundle.Deactivate(req.Actor, now)
	case ActionActivate, ActionReactivate:
		readiness, rerr := i.readiness(ctx, bundle)
		if rerr != nil {
			return rerr
		}
		if req.Action == ActionActivate {
			err = bundle.Activate(readiness, req.Actor, now)
		} else {
			err = bundle.Reactivate(readiness, req.Actor, now)
		}
	default:
		return fmt.Errorf("%w: unknown bundle action %q", domain.ErrInvalidArgument, req.Action)
	}
	if err != nil {
		return err
	}

	// 3. Create commit plan
	plan := committer.NewPlan()
	muts, err := i.bundles.UpdateMuts(bundle)
	if err != nil {
		return err
	}
	plan.AddMultiple(muts)
	plan.Guard(i.bundles.VersionGuard(bundle))

	// 4. Add outbox events
	events, err := outbox.Mutations(i.outboxRepo, bundle.DomainEvents())
	if err != nil {
		return err
	}
	plan.AddMultiple(events)

	// 5. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	audit.Forward(ctx, i.auditSink, bundle.StatusChanges())
	bundle.ClearEvents()
	return nil
}

// readiness reports, per component item, whether it is active in the
// catalog and backed by an active allocation with quantity left. Unknown
// items are neither.
func (i *Interactor) readiness(ctx context.Context, bundle *domain.Bundle) (map[string]domain.ComponentReadiness, error) {
	ids := bundle.ItemIDs()
	items, err := i.catalog.ItemsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load component items: %w", err)
	}

	out := make(map[string]domain.ComponentReadiness, len(ids))
	for _, item := range items {
		out[item.ID] = domain.ComponentReadiness{ItemActive: item.Active}
	}
	for _, id := range ids {
		allocation, err := i.allocations.ActiveAllocation(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load allocation for %s: %w", id, err)
		}
		r := out[id]
		r.Allocated = allocation != nil && allocation.HasSupply()
		out[id] = r
	}
	return out, nil
}

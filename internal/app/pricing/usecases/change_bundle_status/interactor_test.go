package change_bundle_status

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/fakes"
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

func storedBundle(status domain.BundleStatus, components ...domain.BundleComponent) *domain.Bundle {
	return domain.ReconstructBundle("bdl-1", domain.BundleParams{
		Name:       "Starter kit",
		SKUCode:    "KIT-1",
		Logic:      domain.BundleSumComponents,
		Components: components,
	}, status, 1, fakes.T0, fakes.T0)
}

func TestChangeBundleStatus(t *testing.T) {
	ctx := context.Background()
	catalog := &fakes.Catalog{Items: []domain.SellableItem{
		{ID: "A", ProductName: "Widget", Active: true},
		{ID: "B", ProductName: "Gadget", Active: true},
		{ID: "C", ProductName: "Retired", Active: false},
		{ID: "E", ProductName: "Sold out", Active: true},
	}}
	allocations := &fakes.Allocations{ByItem: map[string]*domain.Allocation{
		"A": {ID: "al-a", ItemID: "A", RemainingQuantity: 10},
		"B": {ID: "al-b", ItemID: "B", RemainingQuantity: 5},
		"C": {ID: "al-c", ItemID: "C", RemainingQuantity: 5},
		"E": {ID: "al-e", ItemID: "E", RemainingQuantity: 0},
	}}
	ready := []domain.BundleComponent{{ItemID: "A", Quantity: 2}, {ItemID: "B", Quantity: 1}}

	run := func(b *domain.Bundle, action Action) (*committer.Recorder, *fakes.AuditLog, error) {
		recorder := committer.NewRecorder()
		auditLog := &fakes.AuditLog{}
		uc := NewInteractor(fakes.NewBundles(b), &fakes.Outbox{}, catalog, allocations, recorder, auditLog, clock.NewMockClock(fakes.T0))
		err := uc.Execute(ctx, &Request{BundleID: "bdl-1", Action: action, Actor: "ops"})
		return recorder, auditLog, err
	}

	t.Run("activate ready bundle", func(t *testing.T) {
		b := storedBundle(domain.BundleDraft, ready...)
		recorder, auditLog, err := run(b, ActionActivate)
		require.NoError(t, err)
		assert.Equal(t, domain.BundleActive, b.Status())
		assert.Len(t, recorder.Plans(), 1)
		assert.Equal(t, []string{"bdl-1:draft->active"}, auditLog.Transitions())
	})

	t.Run("every failing component is reported", func(t *testing.T) {
		b := storedBundle(domain.BundleDraft,
			domain.BundleComponent{ItemID: "A", Quantity: 0},
			domain.BundleComponent{ItemID: "C", Quantity: 1},
			domain.BundleComponent{ItemID: "Z", Quantity: 1},
		)
		recorder, _, err := run(b, ActionActivate)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidComponentQuantity)
		assert.ErrorIs(t, err, domain.ErrComponentItemInactive)
		assert.ErrorIs(t, err, domain.ErrComponentNotAllocated)
		assert.Len(t, multierr.Errors(err), 4, "A quantity, C inactive, Z inactive and unallocated")
		assert.Equal(t, domain.BundleDraft, b.Status())
		assert.Empty(t, recorder.Plans())
	})

	t.Run("exhausted allocation is no supply", func(t *testing.T) {
		b := storedBundle(domain.BundleDraft,
			domain.BundleComponent{ItemID: "A", Quantity: 1},
			domain.BundleComponent{ItemID: "E", Quantity: 1},
		)
		recorder, _, err := run(b, ActionActivate)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrComponentNotAllocated)
		assert.Len(t, multierr.Errors(err), 1)
		assert.Equal(t, domain.BundleDraft, b.Status())
		assert.Empty(t, recorder.Plans())
	})

	t.Run("deactivate then reactivate", func(t *testing.T) {
		b := storedBundle(domain.BundleActive, ready...)
		_, _, err := run(b, ActionDeactivate)
		require.NoError(t, err)
		assert.Equal(t, domain.BundleInactive, b.Status())

		_, auditLog, err := run(b, ActionReactivate)
		require.NoError(t, err)
		assert.Equal(t, domain.BundleActive, b.Status())
		assert.Equal(t, []string{"bdl-1:inactive->active"}, auditLog.Transitions())
	})

	t.Run("invalid transitions", func(t *testing.T) {
		_, _, err := run(storedBundle(domain.BundleDraft, ready...), ActionDeactivate)
		assert.ErrorIs(t, err, domain.ErrBundleNotActive)

		_, _, err = run(storedBundle(domain.BundleActive, ready...), ActionReactivate)
		assert.ErrorIs(t, err, domain.ErrBundleNotInactive)

		_, _, err = run(storedBundle(domain.BundleActive, ready...), "archive")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

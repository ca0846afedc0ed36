// Package engine runs pricing policies: it resolves the policy scope against
// the catalog, prices every item with the policy's strategy and writes the
// results into the target price book held in memory. Persisting the book,
// the policy and the execution record is left to the caller.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
)

// Skip reasons recorded on item changes.
const (
	ReasonNoCost            = "no cost and no market price"
	ReasonNoMarketPrice     = "no market price reference"
	ReasonNoReferenceEntry  = "no entry in reference price book"
	ReasonNoTargetEntry     = "no entry in target price book"
	ReasonUnknownItem       = "unknown item"
	reasonSourceUnavailable = "source lookup failed"
)

// ErrTargetMismatch reports a target book that is not the policy's target.
var ErrTargetMismatch = errors.New("price book is not the policy target")

// Sources groups the readers strategies consult.
type Sources struct {
	Catalog      contracts.Catalog
	Costs        contracts.CostSource
	MarketPrices contracts.MarketPriceSource
	// Books loads reference price books.
	Books interface {
		GetByID(ctx context.Context, priceBookID string) (*domain.PriceBook, error)
	}
}

// Engine executes pricing policies.
type Engine struct {
	src Sources
}

// New creates an Engine.
func New(src Sources) *Engine {
	return &Engine{src: src}
}

// Run describes one execution.
type Run struct {
	ExecutionID string
	Policy      *domain.PricingPolicy
	Target      *domain.PriceBook
	Type        domain.ExecutionType
	At          time.Time
	Actor       string
}

// DryRun reports whether the run must leave the target untouched.
func (r Run) DryRun() bool { return r.Type == domain.ExecutionDryRun }

// ExecutionResult is what a caller reports back for a run.
type ExecutionResult struct {
	ExecutionID     string
	SkusProcessed   int
	PricesGenerated int
	ErrorsCount     int
	Changes         []domain.ItemChange
	Status          domain.ExecutionStatus
}

// ResultOf summarises an execution record.
func ResultOf(e *domain.Execution) ExecutionResult {
	return ExecutionResult{
		ExecutionID:     e.ID(),
		SkusProcessed:   e.Processed(),
		PricesGenerated: e.Generated(),
		ErrorsCount:     e.Errors(),
		Changes:         e.Changes(),
		Status:          e.Status(),
	}
}

// Execute prices every item in the policy scope. Unless the run is dry, the
// target receives policy-generated entries and the policy is marked
// executed. Per-item problems are recorded on the execution and never stop
// the batch; only a failed catalog read or a broken run returns an error.
// A listed SKU the catalog does not know is recorded as an error change.
func (e *Engine) Execute(ctx context.Context, run Run) (*domain.Execution, error) {
	policy, target := run.Policy, run.Target
	if policy == nil || target == nil || run.ExecutionID == "" {
		return nil, fmt.Errorf("%w: run needs a policy, a target and an execution id", domain.ErrInvalidArgument)
	}
	if err := policy.CanExecute(run.DryRun()); err != nil {
		return nil, err
	}
	if target.ID() != policy.TargetPriceBookID() {
		return nil, fmt.Errorf("%w: %s, policy targets %s", ErrTargetMismatch, target.ID(), policy.TargetPriceBookID())
	}

	items, err := e.resolveItems(ctx, policy.Scope())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve policy scope: %w", err)
	}
	unknown := policy.Scope().Unresolved(items)

	strat := e.strategyFor(ctx, policy, target)
	changes := make([]domain.ItemChange, 0, len(items)+len(unknown))
	for _, item := range items {
		change := e.priceItem(ctx, strat, policy, target, item.ID)
		if change.Outcome == domain.OutcomeGenerated && !run.DryRun() {
			if err := target.UpsertGeneratedEntry(item.ID, change.NewPrice, policy.ID(), run.At); err != nil {
				change.Outcome = domain.OutcomeError
				change.Reason = err.Error()
			}
		}
		changes = append(changes, change)
	}
	for _, id := range unknown {
		changes = append(changes, domain.ItemChange{ItemID: id, Outcome: domain.OutcomeError, Reason: ReasonUnknownItem})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].ItemID < changes[j].ItemID })

	if !run.DryRun() {
		policy.MarkExecuted(run.At)
	}
	return domain.NewExecution(run.ExecutionID, policy.ID(), target.ID(), run.Type, changes, run.At), nil
}

func (e *Engine) resolveItems(ctx context.Context, scope domain.PolicyScope) ([]domain.SellableItem, error) {
	var (
		items []domain.SellableItem
		err   error
	)
	switch scope.Type {
	case domain.ScopeSku:
		items, err = e.src.Catalog.ItemsByIDs(ctx, scope.SkuIDs())
	case domain.ScopeCategory, domain.ScopeProduct:
		items, err = e.src.Catalog.ActiveItems(ctx, scope.Reference)
	default:
		items, err = e.src.Catalog.ActiveItems(ctx, "")
	}
	if err != nil {
		return nil, err
	}
	return scope.Resolve(items), nil
}

func (e *Engine) priceItem(ctx context.Context, strat strategy, policy *domain.PricingPolicy, target *domain.PriceBook, itemID string) domain.ItemChange {
	change := domain.ItemChange{ItemID: itemID}
	if entry, ok := target.Entry(itemID); ok {
		change.OldPrice = entry.BasePrice.Copy()
	}

	price, skip, err := strat.price(ctx, itemID)
	switch {
	case err != nil:
		change.Outcome = domain.OutcomeError
		change.Reason = err.Error()
		return change
	case skip != "":
		change.Outcome = domain.OutcomeSkipped
		change.Reason = skip
		return change
	}

	price = domain.ApplyRounding(policy.Logic(), price)
	if !price.IsPositive() {
		change.Outcome = domain.OutcomeError
		change.Reason = fmt.Sprintf("%v: %s", domain.ErrNonPositiveComputedPrice, price)
		return change
	}
	change.NewPrice = price
	change.Outcome = domain.OutcomeGenerated
	return change
}

func sourceError(source string, err error) error {
	return fmt.Errorf("%s (%s): %w", reasonSourceUnavailable, source, err)
}

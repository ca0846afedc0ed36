// Package fakes provides in-memory implementations of the pricing contracts
// for tests. Mutation builders return real Spanner mutations keyed by the
// aggregate ID so plans can be inspected; guards are recorded, not run.
package fakes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

func upsert(table, key, id string) *spanner.Mutation {
	return spanner.InsertOrUpdate(table, []string{key}, []interface{}{id})
}

func noopGuard(context.Context, *spanner.ReadWriteTransaction) error { return nil }

// PriceBooks is an in-memory PriceBookRepository.
type PriceBooks struct {
	mu          sync.Mutex
	books       map[string]*domain.PriceBook
	Err         error
	ScopeGuards [][]string
}

// NewPriceBooks stores books.
func NewPriceBooks(books ...*domain.PriceBook) *PriceBooks {
	r := &PriceBooks{books: make(map[string]*domain.PriceBook)}
	for _, b := range books {
		r.books[b.ID()] = b
	}
	return r
}

// Put stores or replaces a book.
func (r *PriceBooks) Put(b *domain.PriceBook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[b.ID()] = b
}

func (r *PriceBooks) GetByID(_ context.Context, id string) (*domain.PriceBook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrPriceBookNotFound
	}
	return b, nil
}

func (r *PriceBooks) ListActiveByScope(_ context.Context, scope domain.PriceBookScope) ([]*domain.PriceBook, error) {
	return r.filter(func(b *domain.PriceBook) bool {
		return b.Status() == domain.PriceBookActive && b.Scope() == scope
	})
}

func (r *PriceBooks) ListLiveAt(_ context.Context, at time.Time) ([]*domain.PriceBook, error) {
	return r.filter(func(b *domain.PriceBook) bool { return b.IsActiveAt(at) })
}

func (r *PriceBooks) filter(keep func(*domain.PriceBook) bool) ([]*domain.PriceBook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*domain.PriceBook
	for _, b := range r.books {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *PriceBooks) InsertMuts(b *domain.PriceBook) ([]*spanner.Mutation, error) {
	muts := []*spanner.Mutation{upsert("price_books", "price_book_id", b.ID())}
	for _, e := range b.Entries() {
		muts = append(muts, upsert("price_book_entries", "item_id", e.ItemID))
	}
	return muts, nil
}

func (r *PriceBooks) UpdateMuts(b *domain.PriceBook) ([]*spanner.Mutation, error) {
	if !b.Changes().HasChanges() {
		return nil, nil
	}
	muts := []*spanner.Mutation{upsert("price_books", "price_book_id", b.ID())}
	for _, item := range b.TouchedItems() {
		muts = append(muts, upsert("price_book_entries", "item_id", item))
	}
	return muts, nil
}

func (r *PriceBooks) VersionGuard(*domain.PriceBook) committer.Guard { return noopGuard }

func (r *PriceBooks) ActiveScopeGuard(_ domain.PriceBookScope, expectedIDs []string) committer.Guard {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ScopeGuards = append(r.ScopeGuards, append([]string(nil), expectedIDs...))
	return noopGuard
}

// Offers is an in-memory OfferRepository.
type Offers struct {
	mu     sync.Mutex
	offers map[string]*domain.Offer
	Err    error
}

// NewOffers stores offers.
func NewOffers(offers ...*domain.Offer) *Offers {
	r := &Offers{offers: make(map[string]*domain.Offer)}
	for _, o := range offers {
		r.offers[o.ID()] = o
	}
	return r
}

func (r *Offers) GetByID(_ context.Context, id string) (*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	o, ok := r.offers[id]
	if !ok {
		return nil, domain.ErrOfferNotFound
	}
	return o, nil
}

func (r *Offers) ListLive(_ context.Context, itemID, channelID string, at time.Time) ([]*domain.Offer, error) {
	return r.filter(func(o *domain.Offer) bool {
		return o.ItemID() == itemID && o.ChannelID() == channelID && o.IsLiveAt(at)
	})
}

func (r *Offers) ListExpirable(_ context.Context, now time.Time) ([]*domain.Offer, error) {
	return r.filter(func(o *domain.Offer) bool {
		return o.Status() == domain.OfferActive && o.Window().EndedBefore(now)
	})
}

func (r *Offers) CountActiveByDiscountRule(_ context.Context, ruleID string) (int, error) {
	out, err := r.filter(func(o *domain.Offer) bool {
		return o.Status() == domain.OfferActive && o.Benefit() != nil && o.Benefit().DiscountRuleID() == ruleID
	})
	return len(out), err
}

func (r *Offers) filter(keep func(*domain.Offer) bool) ([]*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*domain.Offer
	for _, o := range r.offers {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *Offers) InsertMut(o *domain.Offer) (*spanner.Mutation, error) {
	return upsert("offers", "offer_id", o.ID()), nil
}

func (r *Offers) UpdateMut(o *domain.Offer) (*spanner.Mutation, error) {
	if !o.Changes().HasChanges() {
		return nil, nil
	}
	return upsert("offers", "offer_id", o.ID()), nil
}

func (r *Offers) VersionGuard(*domain.Offer) committer.Guard { return noopGuard }

// DiscountRules is an in-memory DiscountRuleRepository.
type DiscountRules struct {
	mu    sync.Mutex
	rules map[string]*domain.DiscountRule
}

// NewDiscountRules stores rules.
func NewDiscountRules(rules ...*domain.DiscountRule) *DiscountRules {
	r := &DiscountRules{rules: make(map[string]*domain.DiscountRule)}
	for _, rule := range rules {
		r.rules[rule.ID()] = rule
	}
	return r
}

func (r *DiscountRules) GetByID(_ context.Context, id string) (*domain.DiscountRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok {
		return nil, domain.ErrDiscountRuleNotFound
	}
	return rule, nil
}

func (r *DiscountRules) InsertMut(rule *domain.DiscountRule) (*spanner.Mutation, error) {
	return upsert("discount_rules", "rule_id", rule.ID()), nil
}

func (r *DiscountRules) UpdateMut(rule *domain.DiscountRule) (*spanner.Mutation, error) {
	if !rule.Changes().HasChanges() {
		return nil, nil
	}
	return upsert("discount_rules", "rule_id", rule.ID()), nil
}

func (r *DiscountRules) VersionGuard(*domain.DiscountRule) committer.Guard { return noopGuard }

// Policies is an in-memory PolicyRepository.
type Policies struct {
	mu       sync.Mutex
	policies map[string]*domain.PricingPolicy
	Err      error
}

// NewPolicies stores policies.
func NewPolicies(policies ...*domain.PricingPolicy) *Policies {
	r := &Policies{policies: make(map[string]*domain.PricingPolicy)}
	for _, p := range policies {
		r.policies[p.ID()] = p
	}
	return r
}

func (r *Policies) GetByID(_ context.Context, id string) (*domain.PricingPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.policies[id]
	if !ok {
		return nil, domain.ErrPolicyNotFound
	}
	return p, nil
}

func (r *Policies) ListActive(context.Context) ([]*domain.PricingPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*domain.PricingPolicy
	for _, p := range r.policies {
		if p.Status() == domain.PolicyActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *Policies) InsertMut(p *domain.PricingPolicy) (*spanner.Mutation, error) {
	return upsert("pricing_policies", "policy_id", p.ID()), nil
}

func (r *Policies) UpdateMut(p *domain.PricingPolicy) (*spanner.Mutation, error) {
	if !p.Changes().HasChanges() {
		return nil, nil
	}
	return upsert("pricing_policies", "policy_id", p.ID()), nil
}

func (r *Policies) VersionGuard(*domain.PricingPolicy) committer.Guard { return noopGuard }

// Executions is an in-memory ExecutionRepository. Records are kept as soon
// as their insert mutation is built.
type Executions struct {
	mu       sync.Mutex
	Inserted []*domain.Execution
}

func (r *Executions) InsertMut(e *domain.Execution) (*spanner.Mutation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Inserted = append(r.Inserted, e)
	return spanner.Insert("policy_executions", []string{"execution_id"}, []interface{}{e.ID()}), nil
}

func (r *Executions) ListByPolicy(_ context.Context, policyID string, limit int) ([]*domain.Execution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Execution
	for i := len(r.Inserted) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if r.Inserted[i].PolicyID() == policyID {
			out = append(out, r.Inserted[i])
		}
	}
	return out, nil
}

// Bundles is an in-memory BundleRepository.
type Bundles struct {
	mu      sync.Mutex
	bundles map[string]*domain.Bundle
}

// NewBundles stores bundles.
func NewBundles(bundles ...*domain.Bundle) *Bundles {
	r := &Bundles{bundles: make(map[string]*domain.Bundle)}
	for _, b := range bundles {
		r.bundles[b.ID()] = b
	}
	return r
}

func (r *Bundles) GetByID(_ context.Context, id string) (*domain.Bundle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bundles[id]
	if !ok {
		return nil, domain.ErrBundleNotFound
	}
	return b, nil
}

func (r *Bundles) InsertMuts(b *domain.Bundle) ([]*spanner.Mutation, error) {
	return []*spanner.Mutation{upsert("bundles", "bundle_id", b.ID())}, nil
}

func (r *Bundles) UpdateMuts(b *domain.Bundle) ([]*spanner.Mutation, error) {
	if !b.Changes().HasChanges() {
		return nil, nil
	}
	return []*spanner.Mutation{upsert("bundles", "bundle_id", b.ID())}, nil
}

func (r *Bundles) VersionGuard(*domain.Bundle) committer.Guard { return noopGuard }

// Outbox is an in-memory OutboxRepository.
type Outbox struct {
	mu        sync.Mutex
	Events    []*contracts.OutboxEvent
	Processed map[string]time.Time
}

func (r *Outbox) InsertMut(e *contracts.OutboxEvent) *spanner.Mutation {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
	return spanner.Insert("outbox_events", []string{"event_id"}, []interface{}{e.EventID})
}

func (r *Outbox) EnrichEvent(event domain.DomainEvent, payload string) *contracts.OutboxEvent {
	return &contracts.OutboxEvent{
		EventID:     uuid.NewString(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		Status:      "pending",
	}
}

func (r *Outbox) ListProcessedBefore(_ context.Context, cutoff time.Time, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, at := range r.Processed {
		if at.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *Outbox) DeleteMut(eventID string) *spanner.Mutation {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Processed, eventID)
	return spanner.Delete("outbox_events", spanner.Key{eventID})
}

// ListEvents returns recorded events newest first, filtered like the
// Spanner read model.
func (r *Outbox) ListEvents(_ context.Context, filter contracts.EventFilter) ([]*contracts.StoredEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*contracts.StoredEvent
	for i := len(r.Events) - 1; i >= 0; i-- {
		e := r.Events[i]
		if filter.EventType != "" && e.EventType != filter.EventType {
			continue
		}
		if filter.AggregateID != "" && e.AggregateID != filter.AggregateID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		stored := &contracts.StoredEvent{OutboxEvent: *e}
		if at, ok := r.Processed[e.EventID]; ok {
			stored.ProcessedAt = &at
		}
		out = append(out, stored)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// EventTypes returns the types of the recorded events in order.
func (r *Outbox) EventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.EventType)
	}
	return out
}

// Catalog is an in-memory contracts.Catalog.
type Catalog struct {
	Items []domain.SellableItem
	Err   error
}

func (c *Catalog) ActiveItems(_ context.Context, nameContains string) ([]domain.SellableItem, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	needle := strings.ToLower(nameContains)
	var out []domain.SellableItem
	for _, it := range c.Items {
		if it.Active && strings.Contains(strings.ToLower(it.ProductName), needle) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *Catalog) ItemsByIDs(_ context.Context, ids []string) ([]domain.SellableItem, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []domain.SellableItem
	for _, it := range c.Items {
		if wanted[it.ID] {
			out = append(out, it)
		}
	}
	return out, nil
}

// Costs is an in-memory CostSource. Errs fails lookups per item.
type Costs struct {
	Costs map[string]*domain.Money
	Errs  map[string]error
}

func (c *Costs) CurrentCost(_ context.Context, itemID string) (*domain.Money, error) {
	if err := c.Errs[itemID]; err != nil {
		return nil, err
	}
	return c.Costs[itemID], nil
}

// MarketPrices is an in-memory MarketPriceSource.
type MarketPrices struct {
	Prices []*domain.MarketPrice
	Err    error
}

func (m *MarketPrices) Latest(_ context.Context, itemID, market string) (*domain.MarketPrice, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var latest *domain.MarketPrice
	for _, p := range m.Prices {
		if p.ItemID != itemID || (market != "" && p.Market != market) {
			continue
		}
		if latest == nil || p.ObservedAt.After(latest.ObservedAt) {
			latest = p
		}
	}
	return latest, nil
}

// Allocations is an in-memory AllocationSource and AllocationConstraintSource.
type Allocations struct {
	ByItem      map[string]*domain.Allocation
	Constraints map[string]*domain.AllocationConstraint
	Err         error
}

func (a *Allocations) ActiveAllocation(_ context.Context, itemID string) (*domain.Allocation, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	return a.ByItem[itemID], nil
}

func (a *Allocations) GetConstraint(_ context.Context, id string) (*domain.AllocationConstraint, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	return a.Constraints[id], nil
}

// AuditLog is an AuditSink that keeps entries.
type AuditLog struct {
	mu      sync.Mutex
	Entries []contracts.AuditEntry
}

func (a *AuditLog) Record(_ context.Context, e contracts.AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Entries = append(a.Entries, e)
}

// Transitions returns "entity_id:old->new" per entry.
func (a *AuditLog) Transitions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.Entries))
	for _, e := range a.Entries {
		out = append(out, e.EntityID+":"+e.OldState+"->"+e.NewState)
	}
	return out
}

// Approvers allows every listed actor. A nil set allows anyone non-empty.
type Approvers struct {
	Allowed map[string]bool
	Err     error
}

func (a *Approvers) CanApprove(_ context.Context, actor string) (bool, error) {
	if a.Err != nil {
		return false, a.Err
	}
	if a.Allowed == nil {
		return actor != "", nil
	}
	return a.Allowed[actor], nil
}

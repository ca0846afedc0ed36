package domain

import (
	"fmt"
	"sort"
	"time"
)

// PriceBookStatus represents the lifecycle status of a price book.
type PriceBookStatus string

const (
	PriceBookDraft    PriceBookStatus = "draft"
	PriceBookActive   PriceBookStatus = "active"
	PriceBookExpired  PriceBookStatus = "expired"
	PriceBookArchived PriceBookStatus = "archived"
)

// PriceSource records where an entry's price came from.
type PriceSource string

const (
	SourceManual          PriceSource = "manual"
	SourcePolicyGenerated PriceSource = "policy_generated"
)

// PriceBookScope is the commercial context a book is authoritative for.
// An empty Channel makes the book channel-agnostic.
type PriceBookScope struct {
	Market   string
	Channel  string
	Currency string
}

// Approval records who activated a book and when.
type Approval struct {
	ApprovedBy string
	ApprovedAt time.Time
}

// PriceBookEntry is the base price of one item within one book.
type PriceBookEntry struct {
	ItemID    string
	BasePrice *Money
	Source    PriceSource
	PolicyID  string
}

// PriceBook is the aggregate root holding authoritative base prices for a scope.
type PriceBook struct {
	id        string
	name      string
	scope     PriceBookScope
	window    ValidityWindow
	status    PriceBookStatus
	approval  *Approval
	entries   map[string]*PriceBookEntry
	version   int64
	createdAt time.Time
	updatedAt time.Time

	// Items whose entry was added, replaced or removed since load.
	touched map[string]bool

	changes *ChangeTracker
	eventLog
}

// NewPriceBook creates a draft book.
func NewPriceBook(id, name string, scope PriceBookScope, window ValidityWindow, now time.Time) (*PriceBook, error) {
	if name == "" {
		return nil, ErrEmptyPriceBookName
	}
	if scope.Market == "" || scope.Currency == "" {
		return nil, ErrInvalidPriceBookScope
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	return &PriceBook{
		id:        id,
		name:      name,
		scope:     scope,
		window:    window,
		status:    PriceBookDraft,
		entries:   make(map[string]*PriceBookEntry),
		createdAt: now,
		updatedAt: now,
		touched:   make(map[string]bool),
		changes:   NewChangeTracker(),
	}, nil
}

// ReconstructPriceBook rebuilds a book from storage.
func ReconstructPriceBook(
	id, name string,
	scope PriceBookScope,
	window ValidityWindow,
	status PriceBookStatus,
	approval *Approval,
	entries []*PriceBookEntry,
	version int64,
	createdAt, updatedAt time.Time,
) *PriceBook {
	b := &PriceBook{
		id:        id,
		name:      name,
		scope:     scope,
		window:    window,
		status:    status,
		approval:  approval,
		entries:   make(map[string]*PriceBookEntry, len(entries)),
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
		touched:   make(map[string]bool),
		changes:   NewChangeTracker(),
	}
	for _, e := range entries {
		b.entries[e.ItemID] = e
	}
	return b
}

func (b *PriceBook) ID() string              { return b.id }
func (b *PriceBook) Name() string            { return b.name }
func (b *PriceBook) Scope() PriceBookScope   { return b.scope }
func (b *PriceBook) Window() ValidityWindow  { return b.window }
func (b *PriceBook) Status() PriceBookStatus { return b.status }
func (b *PriceBook) Approval() *Approval     { return b.approval }
func (b *PriceBook) Version() int64          { return b.version }
func (b *PriceBook) CreatedAt() time.Time    { return b.createdAt }
func (b *PriceBook) UpdatedAt() time.Time    { return b.updatedAt }
func (b *PriceBook) Changes() *ChangeTracker { return b.changes }
func (b *PriceBook) EntryCount() int         { return len(b.entries) }

// Entry returns the entry for itemID.
func (b *PriceBook) Entry(itemID string) (*PriceBookEntry, bool) {
	e, ok := b.entries[itemID]
	return e, ok
}

// BasePrice returns the base price for itemID or ErrEntryNotFound.
func (b *PriceBook) BasePrice(itemID string) (*Money, error) {
	e, ok := b.entries[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, itemID)
	}
	return e.BasePrice.Copy(), nil
}

// Entries returns all entries ordered by item ID.
func (b *PriceBook) Entries() []*PriceBookEntry {
	out := make([]*PriceBookEntry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// TouchedItems returns item IDs whose entries changed since load, sorted.
// Removed items are included; Entry reports them as absent.
func (b *PriceBook) TouchedItems() []string {
	out := make([]string, 0, len(b.touched))
	for id := range b.touched {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsActiveAt reports whether the book is active and its window contains t.
func (b *PriceBook) IsActiveAt(t time.Time) bool {
	return b.status == PriceBookActive && b.window.Contains(t)
}

// ConflictsWith reports whether both books target the same scope with
// overlapping windows.
func (b *PriceBook) ConflictsWith(other *PriceBook) bool {
	return b.id != other.id && b.scope == other.scope && b.window.Overlaps(other.window)
}

// Rename changes the display name. Draft only.
func (b *PriceBook) Rename(name string, now time.Time) error {
	if err := b.requireDraft(); err != nil {
		return err
	}
	if name == "" {
		return ErrEmptyPriceBookName
	}
	b.name = name
	b.touch(now, FieldName)
	return nil
}

// SetWindow replaces the validity window. Draft only.
func (b *PriceBook) SetWindow(window ValidityWindow, now time.Time) error {
	if err := b.requireDraft(); err != nil {
		return err
	}
	b.window = window
	b.touch(now, FieldWindow)
	return nil
}

// SetEntry sets a manual base price for an item. Draft only.
func (b *PriceBook) SetEntry(itemID string, price *Money, now time.Time) error {
	if err := b.requireDraft(); err != nil {
		return err
	}
	return b.putEntry(itemID, price, SourceManual, "", now)
}

// RemoveEntry deletes the entry for an item. Draft only.
func (b *PriceBook) RemoveEntry(itemID string, now time.Time) error {
	if err := b.requireDraft(); err != nil {
		return err
	}
	if _, ok := b.entries[itemID]; !ok {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, itemID)
	}
	delete(b.entries, itemID)
	b.touched[itemID] = true
	b.touch(now, FieldEntries)
	return nil
}

// UpsertGeneratedEntry writes a policy-generated price. Policies may target
// draft or active books; closed books reject the write.
func (b *PriceBook) UpsertGeneratedEntry(itemID string, price *Money, policyID string, now time.Time) error {
	if b.status == PriceBookExpired || b.status == PriceBookArchived {
		return ErrPriceBookClosed
	}
	return b.putEntry(itemID, price, SourcePolicyGenerated, policyID, now)
}

func (b *PriceBook) putEntry(itemID string, price *Money, source PriceSource, policyID string, now time.Time) error {
	if itemID == "" {
		return fmt.Errorf("%w: empty item id", ErrInvalidArgument)
	}
	if price == nil || !price.IsPositive() {
		return ErrInvalidEntryPrice
	}
	b.entries[itemID] = &PriceBookEntry{
		ItemID:    itemID,
		BasePrice: price.Round(),
		Source:    source,
		PolicyID:  policyID,
	}
	b.touched[itemID] = true
	b.touch(now, FieldEntries)
	return nil
}

// Activate moves a draft to active. The caller is responsible for expiring
// overlapping books; see ActivateExclusive.
func (b *PriceBook) Activate(approver string, now time.Time) error {
	if err := b.requireDraft(); err != nil {
		return err
	}
	if len(b.entries) == 0 {
		return ErrPriceBookHasNoEntries
	}
	if approver == "" {
		return ErrApproverRequired
	}

	b.approval = &Approval{ApprovedBy: approver, ApprovedAt: now}
	b.changes.MarkDirty(FieldApproval)
	b.transition(PriceBookActive, approver, "", now)
	return nil
}

// ForceExpire ends an active book because another one superseded it.
func (b *PriceBook) ForceExpire(supersededBy, actor string, now time.Time) error {
	if b.status != PriceBookActive {
		return ErrPriceBookNotActive
	}
	b.transition(PriceBookExpired, actor, "superseded by "+supersededBy, now)
	return nil
}

// Archive retires an active or expired book.
func (b *PriceBook) Archive(actor string, now time.Time) error {
	if b.status != PriceBookActive && b.status != PriceBookExpired {
		return ErrCannotArchivePriceBook
	}
	b.transition(PriceBookArchived, actor, "", now)
	return nil
}

// CloneOverrides customise a clone. Window is required; zero values of the
// other fields keep the source's.
type CloneOverrides struct {
	Name   string
	Scope  *PriceBookScope
	Window ValidityWindow
}

// CloneToNew returns a draft copy of b. Every entry is reset to a manual price.
func (b *PriceBook) CloneToNew(newID string, o CloneOverrides, actor string, now time.Time) (*PriceBook, error) {
	name := o.Name
	if name == "" {
		name = b.name + " (copy)"
	}
	scope := b.scope
	if o.Scope != nil {
		scope = *o.Scope
	}

	clone, err := NewPriceBook(newID, name, scope, o.Window, now)
	if err != nil {
		return nil, err
	}
	for _, e := range b.Entries() {
		clone.entries[e.ItemID] = &PriceBookEntry{
			ItemID:    e.ItemID,
			BasePrice: e.BasePrice.Copy(),
			Source:    SourceManual,
		}
		clone.touched[e.ItemID] = true
	}
	clone.recordEvent(&PriceBookClonedEvent{
		PriceBookID: newID,
		SourceID:    b.id,
		EntryCount:  len(clone.entries),
		Actor:       actor,
		ClonedAt:    now,
	})
	return clone, nil
}

// ActivateExclusive activates book and force-expires every book in active
// that conflicts with it. It returns the expired books; nothing is changed
// when an error is returned.
func ActivateExclusive(book *PriceBook, approver string, active []*PriceBook, now time.Time) ([]*PriceBook, error) {
	if err := book.Activate(approver, now); err != nil {
		return nil, err
	}

	var expired []*PriceBook
	for _, other := range active {
		if other.status != PriceBookActive || !book.ConflictsWith(other) {
			continue
		}
		if err := other.ForceExpire(book.id, approver, now); err != nil {
			return nil, err
		}
		expired = append(expired, other)
	}
	return expired, nil
}

// SelectPriceBook picks the book to price from among candidates at t for a
// channel. A channel-specific book beats a channel-agnostic one, then the
// latest window start, then the lowest ID. market filters when non-empty.
func SelectPriceBook(candidates []*PriceBook, channel, market string, t time.Time) *PriceBook {
	var best *PriceBook
	for _, b := range candidates {
		if !b.IsActiveAt(t) {
			continue
		}
		if b.scope.Channel != "" && b.scope.Channel != channel {
			continue
		}
		if market != "" && b.scope.Market != market {
			continue
		}
		if best == nil || preferBook(b, best, channel) {
			best = b
		}
	}
	return best
}

func preferBook(a, b *PriceBook, channel string) bool {
	aSpecific := a.scope.Channel == channel
	bSpecific := b.scope.Channel == channel
	if aSpecific != bSpecific {
		return aSpecific
	}
	if !a.window.From.Equal(b.window.From) {
		return a.window.From.After(b.window.From)
	}
	return a.id < b.id
}

func (b *PriceBook) requireDraft() error {
	if b.status != PriceBookDraft {
		return ErrPriceBookNotDraft
	}
	return nil
}

func (b *PriceBook) touch(now time.Time, fields ...string) {
	b.updatedAt = now
	b.changes.MarkDirty(fields...)
}

func (b *PriceBook) transition(to PriceBookStatus, actor, reason string, now time.Time) {
	from := b.status
	b.status = to
	b.touch(now, FieldStatus)
	b.recordEvent(&StatusChangedEvent{
		Entity:   EntityPriceBook,
		EntityID: b.id,
		From:     string(from),
		To:       string(to),
		Actor:    actor,
		Reason:   reason,
		At:       now,
	})
}

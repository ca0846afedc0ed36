package domain

import (
	"fmt"
	"sort"
	"time"
)

// OfferStatus represents the lifecycle status of an offer.
type OfferStatus string

const (
	OfferDraft     OfferStatus = "draft"
	OfferActive    OfferStatus = "active"
	OfferPaused    OfferStatus = "paused"
	OfferExpired   OfferStatus = "expired"
	OfferCancelled OfferStatus = "cancelled"
)

// OfferType classifies offers commercially.
type OfferType string

const (
	OfferStandard  OfferType = "standard"
	OfferPromotion OfferType = "promotion"
	OfferBundle    OfferType = "bundle"
)

// Visibility controls whether an offer is advertised.
type Visibility string

const (
	VisibilityPublic     Visibility = "public"
	VisibilityRestricted Visibility = "restricted"
)

// Offer makes one item sellable on one channel through one price book.
// It never stores a price; the price comes from the book entry and the benefit.
type Offer struct {
	id          string
	itemID      string
	channelID   string
	priceBookID string
	offerType   OfferType
	visibility  Visibility
	window      ValidityWindow
	status      OfferStatus
	campaignTag string
	eligibility *Eligibility
	benefit     *Benefit
	version     int64
	createdAt   time.Time
	updatedAt   time.Time

	changes *ChangeTracker
	eventLog
}

// OfferParams groups the descriptive fields of a new offer.
type OfferParams struct {
	ItemID      string
	ChannelID   string
	PriceBookID string
	Type        OfferType
	Visibility  Visibility
	Window      ValidityWindow
	CampaignTag string
	Eligibility *Eligibility
	Benefit     *Benefit
}

// NewOffer creates a draft offer.
func NewOffer(id string, p OfferParams, now time.Time) (*Offer, error) {
	if p.ItemID == "" || p.ChannelID == "" || p.PriceBookID == "" {
		return nil, ErrInvalidOfferReference
	}
	if p.Type == "" {
		p.Type = OfferStandard
	}
	if p.Visibility == "" {
		p.Visibility = VisibilityPublic
	}
	return &Offer{
		id:          id,
		itemID:      p.ItemID,
		channelID:   p.ChannelID,
		priceBookID: p.PriceBookID,
		offerType:   p.Type,
		visibility:  p.Visibility,
		window:      p.Window,
		status:      OfferDraft,
		campaignTag: p.CampaignTag,
		eligibility: p.Eligibility,
		benefit:     p.Benefit,
		createdAt:   now,
		updatedAt:   now,
		changes:     NewChangeTracker(),
	}, nil
}

// ReconstructOffer rebuilds an offer from storage.
func ReconstructOffer(id string, p OfferParams, status OfferStatus, version int64, createdAt, updatedAt time.Time) *Offer {
	return &Offer{
		id:          id,
		itemID:      p.ItemID,
		channelID:   p.ChannelID,
		priceBookID: p.PriceBookID,
		offerType:   p.Type,
		visibility:  p.Visibility,
		window:      p.Window,
		status:      status,
		campaignTag: p.CampaignTag,
		eligibility: p.Eligibility,
		benefit:     p.Benefit,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		changes:     NewChangeTracker(),
	}
}

func (o *Offer) ID() string                { return o.id }
func (o *Offer) ItemID() string            { return o.itemID }
func (o *Offer) ChannelID() string         { return o.channelID }
func (o *Offer) PriceBookID() string       { return o.priceBookID }
func (o *Offer) Type() OfferType           { return o.offerType }
func (o *Offer) Visibility() Visibility    { return o.visibility }
func (o *Offer) Window() ValidityWindow    { return o.window }
func (o *Offer) Status() OfferStatus       { return o.status }
func (o *Offer) CampaignTag() string       { return o.campaignTag }
func (o *Offer) Eligibility() *Eligibility { return o.eligibility }
func (o *Offer) Benefit() *Benefit         { return o.benefit }
func (o *Offer) Version() int64            { return o.version }
func (o *Offer) CreatedAt() time.Time      { return o.createdAt }
func (o *Offer) UpdatedAt() time.Time      { return o.updatedAt }
func (o *Offer) Changes() *ChangeTracker   { return o.changes }

// IsTerminal reports whether the offer can no longer change.
func (o *Offer) IsTerminal() bool {
	return o.status == OfferCancelled || o.status == OfferExpired
}

// SetBenefit replaces the benefit. Draft only.
func (o *Offer) SetBenefit(b *Benefit, now time.Time) error {
	if o.status != OfferDraft {
		return ErrOfferNotDraft
	}
	o.benefit = b
	o.updatedAt = now
	o.changes.MarkDirty(FieldBenefit)
	return nil
}

// SetEligibility replaces the eligibility. Draft only.
func (o *Offer) SetEligibility(e *Eligibility, now time.Time) error {
	if o.status != OfferDraft {
		return ErrOfferNotDraft
	}
	o.eligibility = e
	o.updatedAt = now
	o.changes.MarkDirty(FieldEligibility)
	return nil
}

// Activate moves a draft offer to active. The linked book must be active
// and hold an entry for the offer's item. Eligibility against allocation
// constraints is verified by the caller through AllocationConstraintChecker
// before calling Activate.
func (o *Offer) Activate(book *PriceBook, actor string, now time.Time) error {
	if o.status != OfferDraft {
		return ErrOfferNotDraft
	}
	if err := o.checkBook(book); err != nil {
		return err
	}
	if _, ok := book.Entry(o.itemID); !ok {
		return fmt.Errorf("%w: item %s in book %s", ErrMissingBasePrice, o.itemID, book.ID())
	}
	o.transition(OfferActive, actor, now)
	return nil
}

// Pause suspends an active offer.
func (o *Offer) Pause(actor string, now time.Time) error {
	if o.status != OfferActive {
		return ErrOfferNotActive
	}
	o.transition(OfferPaused, actor, now)
	return nil
}

// Resume reactivates a paused offer if its book is still active.
func (o *Offer) Resume(book *PriceBook, actor string, now time.Time) error {
	if o.status != OfferPaused {
		return ErrOfferNotPaused
	}
	if err := o.checkBook(book); err != nil {
		return err
	}
	o.transition(OfferActive, actor, now)
	return nil
}

// Cancel ends the offer from any non-terminal status.
func (o *Offer) Cancel(actor string, now time.Time) error {
	if o.IsTerminal() {
		return ErrOfferTerminal
	}
	o.transition(OfferCancelled, actor, now)
	return nil
}

// Expire ends an active offer whose window closed before now.
func (o *Offer) Expire(actor string, now time.Time) error {
	if o.status != OfferActive {
		return ErrOfferNotActive
	}
	if !o.window.EndedBefore(now) {
		return ErrOfferStillValid
	}
	o.transition(OfferExpired, actor, now)
	return nil
}

// IsLiveAt reports whether the offer is active and valid at t.
func (o *Offer) IsLiveAt(t time.Time) bool {
	return o.status == OfferActive && o.window.Contains(t)
}

// AcceptsCustomer reports whether the eligibility admits c. Offers without
// eligibility accept everyone.
func (o *Offer) AcceptsCustomer(c CustomerContext) bool {
	return o.eligibility == nil || o.eligibility.Accepts(c)
}

// ResolvePrice prices the offer against its book. A missing entry is an
// error, never a zero price. rule is the benefit's discount rule, if any.
func (o *Offer) ResolvePrice(book *PriceBook, qty int64, rule *DiscountRule) (PriceBreakdown, error) {
	if book == nil || book.ID() != o.priceBookID {
		return PriceBreakdown{}, fmt.Errorf("%w: offer %s is not priced by the given book", ErrInvalidArgument, o.id)
	}
	base, err := book.BasePrice(o.itemID)
	if err != nil {
		return PriceBreakdown{}, fmt.Errorf("%w: %v", ErrMissingBasePrice, err)
	}
	return o.PriceFrom(base, qty, rule), nil
}

// PriceFrom applies the offer's benefit to a known base price.
func (o *Offer) PriceFrom(base *Money, qty int64, rule *DiscountRule) PriceBreakdown {
	if o.benefit == nil {
		return NewPriceBreakdown(base, base)
	}
	return NewPriceBreakdown(base, o.benefit.FinalPriceWith(base, qty, rule))
}

func (o *Offer) checkBook(book *PriceBook) error {
	if book == nil || book.ID() != o.priceBookID {
		return fmt.Errorf("%w: %s", ErrPriceBookNotFound, o.priceBookID)
	}
	if book.Status() != PriceBookActive {
		return fmt.Errorf("%w: %s is %s", ErrPriceBookNotActive, book.ID(), book.Status())
	}
	return nil
}

func (o *Offer) transition(to OfferStatus, actor string, now time.Time) {
	from := o.status
	o.status = to
	o.updatedAt = now
	o.changes.MarkDirty(FieldStatus)
	o.recordEvent(&StatusChangedEvent{
		Entity:   EntityOffer,
		EntityID: o.id,
		From:     string(from),
		To:       string(to),
		Actor:    actor,
		At:       now,
	})
}

// ResolveOffer returns the offer that applies to item on channel at t, or
// nil. Candidates are ordered by creation time, then ID. With a customer
// context the first candidate whose eligibility accepts it wins.
func ResolveOffer(offers []*Offer, itemID, channelID string, t time.Time, customer *CustomerContext) *Offer {
	candidates := make([]*Offer, 0, len(offers))
	for _, o := range offers {
		if o.itemID == itemID && o.channelID == channelID && o.IsLiveAt(t) {
			candidates = append(candidates, o)
		}
	}
	SortOffers(candidates)

	for _, o := range candidates {
		if customer == nil || o.AcceptsCustomer(*customer) {
			return o
		}
	}
	return nil
}

// SortOffers orders offers by creation time, then ID.
func SortOffers(offers []*Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.Before(b.createdAt)
		}
		return a.id < b.id
	})
}

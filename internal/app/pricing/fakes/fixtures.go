package fakes

import (
	"sort"
	"time"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
)

// T0 is the reference instant of the fixtures.
var T0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// Scope is the default fixture scope: market FR, channel web, EUR.
var Scope = domain.PriceBookScope{Market: "FR", Channel: "web", Currency: "EUR"}

// Window returns a window starting at from. A zero to leaves it open.
func Window(from, to time.Time) domain.ValidityWindow {
	if to.IsZero() {
		return domain.ValidityWindow{From: from}
	}
	return domain.ValidityWindow{From: from, To: &to}
}

// StoredBook returns a book as a repository would load it, with no pending
// changes. prices maps item IDs to decimal strings.
func StoredBook(id string, scope domain.PriceBookScope, window domain.ValidityWindow, status domain.PriceBookStatus, prices map[string]string) *domain.PriceBook {
	items := make([]string, 0, len(prices))
	for item := range prices {
		items = append(items, item)
	}
	sort.Strings(items)

	entries := make([]*domain.PriceBookEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, &domain.PriceBookEntry{
			ItemID:    item,
			BasePrice: domain.MustMoney(prices[item]),
			Source:    domain.SourceManual,
		})
	}
	var approval *domain.Approval
	if status != domain.PriceBookDraft {
		approval = &domain.Approval{ApprovedBy: "approver", ApprovedAt: T0}
	}
	return domain.ReconstructPriceBook(id, "Book "+id, scope, window, status, approval, entries, 1, T0, T0)
}

// StoredOffer returns an offer on item/channel priced by bookID.
func StoredOffer(id, itemID, channelID, bookID string, window domain.ValidityWindow, status domain.OfferStatus, createdAt time.Time, benefit *domain.Benefit) *domain.Offer {
	return domain.ReconstructOffer(id, domain.OfferParams{
		ItemID:      itemID,
		ChannelID:   channelID,
		PriceBookID: bookID,
		Type:        domain.OfferStandard,
		Visibility:  domain.VisibilityPublic,
		Window:      window,
		Benefit:     benefit,
	}, status, 1, createdAt, createdAt)
}

package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

// OfferRepository defines persistence for offers.
type OfferRepository interface {
	GetByID(ctx context.Context, offerID string) (*domain.Offer, error)

	// ListLive returns active offers for item on channel whose window contains at.
	ListLive(ctx context.Context, itemID, channelID string, at time.Time) ([]*domain.Offer, error)

	// ListExpirable returns active offers whose window ended before now.
	ListExpirable(ctx context.Context, now time.Time) ([]*domain.Offer, error)

	// CountActiveByDiscountRule counts active offers whose benefit uses ruleID.
	CountActiveByDiscountRule(ctx context.Context, ruleID string) (int, error)

	InsertMut(offer *domain.Offer) (*spanner.Mutation, error)
	UpdateMut(offer *domain.Offer) (*spanner.Mutation, error)
	VersionGuard(offer *domain.Offer) committer.Guard
}

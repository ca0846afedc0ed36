package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/models/m_offer"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
	"github.com/light-bringer/pricing-engine/internal/pkg/query"
)

// OfferRepo implements OfferRepository for Spanner.
type OfferRepo struct {
	client *spanner.Client
	model  *m_offer.Model
}

// NewOfferRepo creates a new OfferRepo.
func NewOfferRepo(client *spanner.Client) contracts.OfferRepository {
	return &OfferRepo{
		client: client,
		model:  m_offer.NewModel(),
	}
}

// InsertMut creates a mutation for inserting a new offer.
func (r *OfferRepo) InsertMut(offer *domain.Offer) (*spanner.Mutation, error) {
	return r.model.InsertMut(offerToData(offer)), nil
}

// UpdateMut creates a mutation for updating an offer (only dirty fields).
func (r *OfferRepo) UpdateMut(offer *domain.Offer) (*spanner.Mutation, error) {
	changes := offer.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldStatus) {
		updates[m_offer.Status] = string(offer.Status())
	}

	if changes.Dirty(domain.FieldWindow) {
		w := offer.Window()
		updates[m_offer.ValidFrom] = w.From
		updates[m_offer.ValidTo] = nullTime(w.To)
	}

	if changes.Dirty(domain.FieldEligibility) {
		updates[m_offer.Eligibility] = encodeEligibility(offer.Eligibility())
	}

	if changes.Dirty(domain.FieldBenefit) {
		bt, bv, rule := benefitColumns(offer.Benefit())
		updates[m_offer.BenefitType] = bt
		updates[m_offer.BenefitValue] = bv
		updates[m_offer.DiscountRuleID] = rule
	}

	if len(updates) == 0 {
		return nil, nil
	}

	updates[m_offer.Version] = offer.Version() + 1

	return r.model.UpdateMut(offer.ID(), updates), nil
}

// VersionGuard rejects the commit if the stored offer changed since load.
func (r *OfferRepo) VersionGuard(offer *domain.Offer) committer.Guard {
	return committer.VersionGuard(m_offer.TableName, spanner.Key{offer.ID()}, offer.Version())
}

// GetByID retrieves an offer by ID.
func (r *OfferRepo) GetByID(ctx context.Context, offerID string) (*domain.Offer, error) {
	row, err := r.client.Single().ReadRow(ctx, m_offer.TableName, spanner.Key{offerID}, m_offer.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to read offer: %w", err)
	}

	var data m_offer.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse offer: %w", err)
	}
	return dataToOffer(&data)
}

// ListLive returns active offers for item on channel whose window contains at.
func (r *OfferRepo) ListLive(ctx context.Context, itemID, channelID string, at time.Time) ([]*domain.Offer, error) {
	stmt := query.From(m_offer.TableName).
		Select(m_offer.Columns...).
		Where(query.Eq(m_offer.ItemID, itemID)).
		Where(query.Eq(m_offer.ChannelID, channelID)).
		Where(query.Eq(m_offer.Status, string(domain.OfferActive))).
		Where(query.Lte(m_offer.ValidFrom, at)).
		Where(query.OpenEndedAfter(m_offer.ValidTo, at)).
		OrderBy(m_offer.CreatedAt, query.Asc).
		OrderBy(m_offer.OfferID, query.Asc).
		Build()
	return r.list(ctx, stmt)
}

// ListExpirable returns active offers whose window ended before now.
func (r *OfferRepo) ListExpirable(ctx context.Context, now time.Time) ([]*domain.Offer, error) {
	stmt := query.From(m_offer.TableName).
		Select(m_offer.Columns...).
		Where(query.Eq(m_offer.Status, string(domain.OfferActive))).
		Where(query.IsNotNull(m_offer.ValidTo)).
		Where(query.Lt(m_offer.ValidTo, now)).
		OrderBy(m_offer.ValidTo, query.Asc).
		OrderBy(m_offer.OfferID, query.Asc).
		Build()
	return r.list(ctx, stmt)
}

// CountActiveByDiscountRule counts active offers whose benefit uses ruleID.
func (r *OfferRepo) CountActiveByDiscountRule(ctx context.Context, ruleID string) (int, error) {
	stmt := query.From(m_offer.TableName).
		Where(query.Eq(m_offer.DiscountRuleID, ruleID)).
		Where(query.Eq(m_offer.Status, string(domain.OfferActive))).
		Select("COUNT(*)").
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count offers: %w", err)
	}
	var n int64
	if err := row.Column(0, &n); err != nil {
		return 0, fmt.Errorf("failed to parse offer count: %w", err)
	}
	return int(n), nil
}

func (r *OfferRepo) list(ctx context.Context, stmt spanner.Statement) ([]*domain.Offer, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var offers []*domain.Offer
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate offers: %w", err)
		}
		var data m_offer.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse offer: %w", err)
		}
		offer, err := dataToOffer(&data)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

func benefitColumns(b *domain.Benefit) (spanner.NullString, spanner.NullNumeric, spanner.NullString) {
	if b == nil {
		return spanner.NullString{}, spanner.NullNumeric{}, spanner.NullString{}
	}
	v := b.Value()
	return nullString(string(b.Type())), nullNumeric(&v), nullString(b.DiscountRuleID())
}

func offerToData(offer *domain.Offer) *m_offer.Data {
	w := offer.Window()
	bt, bv, rule := benefitColumns(offer.Benefit())
	return &m_offer.Data{
		OfferID:        offer.ID(),
		ItemID:         offer.ItemID(),
		ChannelID:      offer.ChannelID(),
		PriceBookID:    offer.PriceBookID(),
		OfferType:      string(offer.Type()),
		Visibility:     string(offer.Visibility()),
		ValidFrom:      w.From,
		ValidTo:        nullTime(w.To),
		Status:         string(offer.Status()),
		CampaignTag:    nullString(offer.CampaignTag()),
		Eligibility:    encodeEligibility(offer.Eligibility()),
		BenefitType:    bt,
		BenefitValue:   bv,
		DiscountRuleID: rule,
		Version:        offer.Version(),
		CreatedAt:      offer.CreatedAt(),
		UpdatedAt:      offer.UpdatedAt(),
	}
}

func dataToOffer(data *m_offer.Data) (*domain.Offer, error) {
	eligibility, err := decodeEligibility(data.Eligibility)
	if err != nil {
		return nil, fmt.Errorf("offer %s: %w", data.OfferID, err)
	}

	var benefit *domain.Benefit
	if data.BenefitType.Valid {
		value, err := decimalFromNull(data.BenefitValue)
		if err != nil {
			return nil, fmt.Errorf("offer %s: invalid benefit value: %w", data.OfferID, err)
		}
		v := decimal.Zero
		if value != nil {
			v = *value
		}
		benefit, err = domain.NewBenefit(domain.BenefitType(data.BenefitType.StringVal), v, data.DiscountRuleID.StringVal)
		if err != nil {
			return nil, fmt.Errorf("offer %s: %w", data.OfferID, err)
		}
	}

	return domain.ReconstructOffer(data.OfferID, domain.OfferParams{
		ItemID:      data.ItemID,
		ChannelID:   data.ChannelID,
		PriceBookID: data.PriceBookID,
		Type:        domain.OfferType(data.OfferType),
		Visibility:  domain.Visibility(data.Visibility),
		Window:      windowFrom(data.ValidFrom, data.ValidTo),
		CampaignTag: data.CampaignTag.StringVal,
		Eligibility: eligibility,
		Benefit:     benefit,
	}, domain.OfferStatus(data.Status), data.Version, data.CreatedAt, data.UpdatedAt), nil
}

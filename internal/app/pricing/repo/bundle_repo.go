package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/models/m_bundle"
	"github.com/light-bringer/pricing-engine/internal/models/m_bundle_component"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

// BundleRepo implements BundleRepository for Spanner.
type BundleRepo struct {
	client     *spanner.Client
	model      *m_bundle.Model
	components *m_bundle_component.Model
}

// NewBundleRepo creates a new BundleRepo.
func NewBundleRepo(client *spanner.Client) contracts.BundleRepository {
	return &BundleRepo{
		client:     client,
		model:      m_bundle.NewModel(),
		components: m_bundle_component.NewModel(),
	}
}

// InsertMuts creates mutations for a new bundle and its components.
func (r *BundleRepo) InsertMuts(bundle *domain.Bundle) ([]*spanner.Mutation, error) {
	muts := []*spanner.Mutation{r.model.InsertMut(&m_bundle.Data{
		BundleID:      bundle.ID(),
		Name:          bundle.Name(),
		SKUCode:       nullString(bundle.SKUCode()),
		Logic:         string(bundle.Logic()),
		FixedPrice:    nullMoney(bundle.FixedPrice()),
		PercentageOff: nullNumeric(bundle.PercentageOff()),
		Status:        string(bundle.Status()),
		Version:       bundle.Version(),
	})}
	return append(muts, r.componentMuts(bundle)...), nil
}

// UpdateMuts writes the dirty columns. Changed components are replaced as a
// whole; the delete is ordered before the inserts in the same commit.
func (r *BundleRepo) UpdateMuts(bundle *domain.Bundle) ([]*spanner.Mutation, error) {
	changes := bundle.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := map[string]interface{}{
		m_bundle.Version: bundle.Version() + 1,
	}
	if changes.Dirty(domain.FieldStatus) {
		updates[m_bundle.Status] = string(bundle.Status())
	}

	muts := []*spanner.Mutation{r.model.UpdateMut(bundle.ID(), updates)}
	if changes.Dirty(domain.FieldComponents) {
		muts = append(muts, r.components.DeleteAllMut(bundle.ID()))
		muts = append(muts, r.componentMuts(bundle)...)
	}
	return muts, nil
}

func (r *BundleRepo) componentMuts(bundle *domain.Bundle) []*spanner.Mutation {
	var muts []*spanner.Mutation
	for i, c := range bundle.Components() {
		muts = append(muts, r.components.InsertMut(&m_bundle_component.Data{
			BundleID: bundle.ID(),
			Position: int64(i),
			ItemID:   c.ItemID,
			Quantity: c.Quantity,
		}))
	}
	return muts
}

// VersionGuard rejects the commit if the stored bundle changed since load.
func (r *BundleRepo) VersionGuard(bundle *domain.Bundle) committer.Guard {
	return committer.VersionGuard(m_bundle.TableName, spanner.Key{bundle.ID()}, bundle.Version())
}

// GetByID loads a bundle with its components in declared order.
func (r *BundleRepo) GetByID(ctx context.Context, bundleID string) (*domain.Bundle, error) {
	txn := r.client.ReadOnlyTransaction()
	defer txn.Close()

	row, err := txn.ReadRow(ctx, m_bundle.TableName, spanner.Key{bundleID}, m_bundle.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrBundleNotFound
		}
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	var data m_bundle.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse bundle: %w", err)
	}

	iter := txn.Read(ctx, m_bundle_component.TableName, spanner.Key{bundleID}.AsPrefix(), m_bundle_component.Columns)
	defer iter.Stop()

	var components []domain.BundleComponent
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bundle components: %w", err)
		}
		var cd m_bundle_component.Data
		if err := row.ToStruct(&cd); err != nil {
			return nil, fmt.Errorf("failed to parse bundle component: %w", err)
		}
		components = append(components, domain.BundleComponent{ItemID: cd.ItemID, Quantity: cd.Quantity})
	}

	return dataToBundle(&data, components)
}

func dataToBundle(data *m_bundle.Data, components []domain.BundleComponent) (*domain.Bundle, error) {
	p := domain.BundleParams{
		Name:       data.Name,
		SKUCode:    data.SKUCode.StringVal,
		Logic:      domain.BundleLogic(data.Logic),
		Components: components,
	}
	fixed, err := decimalFromNull(data.FixedPrice)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: invalid fixed price: %w", data.BundleID, err)
	}
	if fixed != nil {
		p.FixedPrice = domain.NewMoneyFromDecimal(*fixed)
	}
	if p.PercentageOff, err = decimalFromNull(data.PercentageOff); err != nil {
		return nil, fmt.Errorf("bundle %s: invalid percentage: %w", data.BundleID, err)
	}
	return domain.ReconstructBundle(data.BundleID, p, domain.BundleStatus(data.Status), data.Version, data.CreatedAt, data.UpdatedAt), nil
}

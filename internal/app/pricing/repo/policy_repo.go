package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/models/m_pricing_policy"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
	"github.com/light-bringer/pricing-engine/internal/pkg/query"
)

// PolicyRepo implements PolicyRepository for Spanner.
type PolicyRepo struct {
	client *spanner.Client
	model  *m_pricing_policy.Model
}

// NewPolicyRepo creates a new PolicyRepo.
func NewPolicyRepo(client *spanner.Client) contracts.PolicyRepository {
	return &PolicyRepo{
		client: client,
		model:  m_pricing_policy.NewModel(),
	}
}

// InsertMut creates a mutation for inserting a new policy.
func (r *PolicyRepo) InsertMut(policy *domain.PricingPolicy) (*spanner.Mutation, error) {
	policyType, logic, err := EncodePolicyLogic(policy.Logic())
	if err != nil {
		return nil, err
	}
	scope := policy.Scope()
	return r.model.InsertMut(&m_pricing_policy.Data{
		PolicyID:          policy.ID(),
		Name:              policy.Name(),
		PolicyType:        policyType,
		Logic:             logic,
		ScopeType:         string(scope.Type),
		ScopeReference:    nullString(scope.Reference),
		ScopeMarket:       nullString(scope.Market),
		ScopeChannel:      nullString(scope.Channel),
		TargetPriceBookID: policy.TargetPriceBookID(),
		Status:            string(policy.Status()),
		LastExecutedAt:    nullTime(policy.LastExecutedAt()),
		Version:           policy.Version(),
	}), nil
}

// UpdateMut creates a mutation for updating a policy (only dirty fields).
func (r *PolicyRepo) UpdateMut(policy *domain.PricingPolicy) (*spanner.Mutation, error) {
	changes := policy.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldStatus) {
		updates[m_pricing_policy.Status] = string(policy.Status())
	}

	if changes.Dirty(domain.FieldLastExecutedAt) {
		updates[m_pricing_policy.LastExecutedAt] = nullTime(policy.LastExecutedAt())
	}

	if len(updates) == 0 {
		return nil, nil
	}

	updates[m_pricing_policy.Version] = policy.Version() + 1

	return r.model.UpdateMut(policy.ID(), updates), nil
}

// VersionGuard rejects the commit if the stored policy changed since load.
func (r *PolicyRepo) VersionGuard(policy *domain.PricingPolicy) committer.Guard {
	return committer.VersionGuard(m_pricing_policy.TableName, spanner.Key{policy.ID()}, policy.Version())
}

// GetByID retrieves a policy by ID.
func (r *PolicyRepo) GetByID(ctx context.Context, policyID string) (*domain.PricingPolicy, error) {
	row, err := r.client.Single().ReadRow(ctx, m_pricing_policy.TableName, spanner.Key{policyID}, m_pricing_policy.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to read pricing policy: %w", err)
	}

	var data m_pricing_policy.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse pricing policy: %w", err)
	}
	return dataToPolicy(&data)
}

// ListActive returns every active policy ordered by ID.
func (r *PolicyRepo) ListActive(ctx context.Context) ([]*domain.PricingPolicy, error) {
	stmt := query.From(m_pricing_policy.TableName).
		Select(m_pricing_policy.Columns...).
		Where(query.Eq(m_pricing_policy.Status, string(domain.PolicyActive))).
		OrderBy(m_pricing_policy.PolicyID, query.Asc).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var policies []*domain.PricingPolicy
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate pricing policies: %w", err)
		}
		var data m_pricing_policy.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse pricing policy: %w", err)
		}
		policy, err := dataToPolicy(&data)
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	return policies, nil
}

func dataToPolicy(data *m_pricing_policy.Data) (*domain.PricingPolicy, error) {
	logic, err := DecodePolicyLogic(data.PolicyType, data.Logic)
	if err != nil {
		return nil, fmt.Errorf("pricing policy %s: %w", data.PolicyID, err)
	}
	scope := domain.PolicyScope{
		Type:      domain.ScopeType(data.ScopeType),
		Reference: data.ScopeReference.StringVal,
		Market:    data.ScopeMarket.StringVal,
		Channel:   data.ScopeChannel.StringVal,
	}
	return domain.ReconstructPricingPolicy(
		data.PolicyID,
		data.Name,
		logic,
		scope,
		data.TargetPriceBookID,
		domain.PolicyStatus(data.Status),
		timePtr(data.LastExecutedAt),
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
	), nil
}

package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/models/m_discount_rule"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

// DiscountRuleRepo implements DiscountRuleRepository for Spanner.
type DiscountRuleRepo struct {
	client *spanner.Client
	model  *m_discount_rule.Model
}

// NewDiscountRuleRepo creates a new DiscountRuleRepo.
func NewDiscountRuleRepo(client *spanner.Client) contracts.DiscountRuleRepository {
	return &DiscountRuleRepo{
		client: client,
		model:  m_discount_rule.NewModel(),
	}
}

func (r *DiscountRuleRepo) InsertMut(rule *domain.DiscountRule) (*spanner.Mutation, error) {
	ruleType, logic, err := EncodeRuleLogic(rule.Logic())
	if err != nil {
		return nil, err
	}
	return r.model.InsertMut(&m_discount_rule.Data{
		RuleID:   rule.ID(),
		Name:     rule.Name(),
		RuleType: ruleType,
		Logic:    logic,
		Active:   rule.IsActive(),
		Version:  rule.Version(),
	}), nil
}

func (r *DiscountRuleRepo) UpdateMut(rule *domain.DiscountRule) (*spanner.Mutation, error) {
	changes := rule.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := make(map[string]interface{})
	if changes.Dirty(domain.FieldName) {
		updates[m_discount_rule.Name] = rule.Name()
	}
	if changes.Dirty(domain.FieldLogic) {
		ruleType, logic, err := EncodeRuleLogic(rule.Logic())
		if err != nil {
			return nil, err
		}
		updates[m_discount_rule.RuleType] = ruleType
		updates[m_discount_rule.Logic] = logic
	}
	if changes.Dirty(domain.FieldActive) {
		updates[m_discount_rule.Active] = rule.IsActive()
	}
	if len(updates) == 0 {
		return nil, nil
	}
	updates[m_discount_rule.Version] = rule.Version() + 1

	return r.model.UpdateMut(rule.ID(), updates), nil
}

func (r *DiscountRuleRepo) VersionGuard(rule *domain.DiscountRule) committer.Guard {
	return committer.VersionGuard(m_discount_rule.TableName, spanner.Key{rule.ID()}, rule.Version())
}

// GetByID retrieves a discount rule, decoding its typed logic.
func (r *DiscountRuleRepo) GetByID(ctx context.Context, ruleID string) (*domain.DiscountRule, error) {
	row, err := r.client.Single().ReadRow(ctx, m_discount_rule.TableName, spanner.Key{ruleID}, m_discount_rule.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrDiscountRuleNotFound
		}
		return nil, fmt.Errorf("failed to read discount rule: %w", err)
	}

	var data m_discount_rule.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse discount rule: %w", err)
	}

	logic, err := DecodeRuleLogic(data.RuleType, data.Logic)
	if err != nil {
		return nil, fmt.Errorf("discount rule %s: %w", data.RuleID, err)
	}
	return domain.ReconstructDiscountRule(data.RuleID, data.Name, logic, data.Active, data.Version, data.CreatedAt, data.UpdatedAt), nil
}

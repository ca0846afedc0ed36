package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

// DiscountRuleRepository defines persistence for discount rules.
type DiscountRuleRepository interface {
	GetByID(ctx context.Context, ruleID string) (*domain.DiscountRule, error)
	InsertMut(rule *domain.DiscountRule) (*spanner.Mutation, error)
	UpdateMut(rule *domain.DiscountRule) (*spanner.Mutation, error)
	VersionGuard(rule *domain.DiscountRule) committer.Guard
}

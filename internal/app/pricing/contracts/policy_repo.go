package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

// PolicyRepository defines persistence for pricing policies.
type PolicyRepository interface {
	GetByID(ctx context.Context, policyID string) (*domain.PricingPolicy, error)

	// ListActive returns every active policy ordered by ID.
	ListActive(ctx context.Context) ([]*domain.PricingPolicy, error)

	InsertMut(policy *domain.PricingPolicy) (*spanner.Mutation, error)
	UpdateMut(policy *domain.PricingPolicy) (*spanner.Mutation, error)
	VersionGuard(policy *domain.PricingPolicy) committer.Guard
}

// ExecutionRepository persists policy execution records. Records are
// append-only; there is no update.
type ExecutionRepository interface {
	InsertMut(execution *domain.Execution) (*spanner.Mutation, error)

	// ListByPolicy returns the latest executions of a policy, newest first.
	ListByPolicy(ctx context.Context, policyID string, limit int) ([]*domain.Execution, error)
}

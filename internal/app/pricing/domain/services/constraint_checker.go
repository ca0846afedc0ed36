package services

import (
	"context"
	"fmt"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
)

// ConstraintChecker is the default AllocationConstraintChecker. It loads the
// constraint referenced by the eligibility and defers to the domain rules.
type ConstraintChecker struct {
	source contracts.AllocationConstraintSource
}

var _ domain.AllocationConstraintChecker = (*ConstraintChecker)(nil)

// NewConstraintChecker creates a checker backed by source.
func NewConstraintChecker(source contracts.AllocationConstraintSource) *ConstraintChecker {
	return &ConstraintChecker{source: source}
}

// Check passes when there is no eligibility or no referenced constraint. A
// reference to a constraint that does not exist is a violation.
func (c *ConstraintChecker) Check(ctx context.Context, eligibility *domain.Eligibility, channel string) error {
	if eligibility == nil || eligibility.AllocationConstraintID == "" {
		return nil
	}
	constraint, err := c.source.GetConstraint(ctx, eligibility.AllocationConstraintID)
	if err != nil {
		return fmt.Errorf("failed to load allocation constraint: %w", err)
	}
	if constraint == nil {
		return fmt.Errorf("%w: unknown allocation constraint %q", domain.ErrEligibilityViolation, eligibility.AllocationConstraintID)
	}
	return constraint.CheckEligibility(eligibility, channel)
}

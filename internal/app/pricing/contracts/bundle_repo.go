package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

// BundleRepository defines persistence for bundles and their components.
type BundleRepository interface {
	GetByID(ctx context.Context, bundleID string) (*domain.Bundle, error)
	InsertMuts(bundle *domain.Bundle) ([]*spanner.Mutation, error)
	UpdateMuts(bundle *domain.Bundle) ([]*spanner.Mutation, error)
	VersionGuard(bundle *domain.Bundle) committer.Guard
}

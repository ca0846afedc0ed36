package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

// PriceBookRepository defines persistence for price books and their entries.
// Repositories return mutations, they don't apply them (Golden Mutation Pattern).
type PriceBookRepository interface {
	// GetByID loads a book with all of its entries.
	GetByID(ctx context.Context, priceBookID string) (*domain.PriceBook, error)

	// ListActiveByScope returns the active books of one scope.
	ListActiveByScope(ctx context.Context, scope domain.PriceBookScope) ([]*domain.PriceBook, error)

	// ListLiveAt returns active books whose window contains at.
	ListLiveAt(ctx context.Context, at time.Time) ([]*domain.PriceBook, error)

	// InsertMuts creates mutations for a new book and its entries.
	InsertMuts(book *domain.PriceBook) ([]*spanner.Mutation, error)

	// UpdateMuts creates mutations for dirty book fields and touched entries.
	UpdateMuts(book *domain.PriceBook) ([]*spanner.Mutation, error)

	// VersionGuard rejects the commit if the stored book changed since load.
	VersionGuard(book *domain.PriceBook) committer.Guard

	// ActiveScopeGuard rejects the commit if the set of active books in scope
	// is no longer exactly expectedIDs.
	ActiveScopeGuard(scope domain.PriceBookScope, expectedIDs []string) committer.Guard
}

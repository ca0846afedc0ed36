// Package committer implements the Golden Mutation Pattern for Spanner transactions.
//
// # Usage Pattern (Golden Mutation Pattern)
//
// The typical flow in a usecase is:
//
//	// 1. Load aggregates from repositories
//	book, err := books.GetByID(ctx, bookID)
//
//	// 2. Call domain methods (pure business logic)
//	if err := book.Activate(approver, now); err != nil {
//	    return err
//	}
//
//	// 3. Repositories return mutations (they never apply them)
//	plan := committer.NewPlan()
//	plan.Add(books.UpdateMut(book))
//
//	// 4. Outbox events join the same plan
//	for _, event := range book.DomainEvents() {
//	    plan.Add(outbox.InsertMut(enrich(event)))
//	}
//
//	// 5. Guards re-check preconditions inside the transaction
//	plan.Guard(committer.VersionGuard("price_books", spanner.Key{bookID}, book.Version()))
//
//	// 6. Apply everything atomically
//	return applier.Apply(ctx, plan)
//
// A plan without guards is written with a single blind Apply. A plan with
// guards runs inside a read-write transaction: every guard reads what it
// needs, and the mutations are buffered only when all guards pass.
package committer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
)

var (
	// ErrVersionConflict reports that a row changed since it was loaded.
	ErrVersionConflict = errors.New("optimistic lock conflict")
	// ErrGuardRejected reports that a guard found a violated precondition.
	ErrGuardRejected = errors.New("commit guard rejected plan")
)

// Guard checks a precondition inside the read-write transaction that applies
// a plan. Returning an error aborts the commit.
type Guard func(ctx context.Context, txn *spanner.ReadWriteTransaction) error

// CommitPlan is a typed wrapper around Spanner mutations for the Golden Mutation Pattern.
// It collects mutations from multiple sources and applies them atomically.
type CommitPlan struct {
	mutations []*spanner.Mutation
	guards    []Guard
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Guard registers a precondition checked at commit time.
func (cp *CommitPlan) Guard(g Guard) {
	if g != nil {
		cp.guards = append(cp.guards, g)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// Guards returns the registered guards.
func (cp *CommitPlan) Guards() []Guard {
	return cp.guards
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Applier applies commit plans. Usecases depend on this rather than on
// *Committer so they can be exercised without Spanner.
type Applier interface {
	Apply(ctx context.Context, plan *CommitPlan) error
}

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil // Nothing to commit
	}

	if len(plan.guards) == 0 {
		if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
			return fmt.Errorf("failed to apply commit plan: %w", err)
		}
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		for _, guard := range plan.guards {
			if err := guard(ctx, txn); err != nil {
				return err
			}
		}
		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		return fmt.Errorf("failed to apply guarded commit plan: %w", err)
	}
	return nil
}

// VersionGuard fails with ErrVersionConflict when the row's version column
// no longer equals expected.
func VersionGuard(table string, key spanner.Key, expected int64) Guard {
	return func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, table, key, []string{"version"})
		if err != nil {
			return fmt.Errorf("failed to read %s version: %w", table, err)
		}

		var current int64
		if err := row.Column(0, &current); err != nil {
			return fmt.Errorf("failed to parse version: %w", err)
		}
		if current != expected {
			return fmt.Errorf("%w: %s %v expected version %d, got %d", ErrVersionConflict, table, key, expected, current)
		}
		return nil
	}
}

package activate_price_book

import (
	"context"
	"fmt"
	"strings"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/audit"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/outbox"
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
)

// Request identifies the book to activate and who approves it.
type Request struct {
	PriceBookID string
	Approver    string
}

// Response lists the books the activation expired.
type Response struct {
	ExpiredIDs []string
}

// Interactor handles the activate price book use case.
type Interactor struct {
	repo       contracts.PriceBookRepository
	outboxRepo contracts.OutboxRepository
	approvers  contracts.ApproverAuthority
	committer  committer.Applier
	auditSink  contracts.AuditSink
	clock      clock.Clock
}

// NewInteractor creates a new activate price book interactor.
func NewInteractor(
	repo contracts.PriceBookRepository,
	outboxRepo contracts.OutboxRepository,
	approvers contracts.ApproverAuthority,
	committer committer.Applier,
	auditSink contracts.AuditSink,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		repo:       repo,
		outboxRepo: outboxRepo,
		approvers:  approvers,
		committer:  committer,
		auditSink:  auditSink,
		clock:      clock,
	}
}

// Execute activates a draft book and expires every active book of the same
// scope whose window overlaps it. Both sides commit in one transaction that
// re-checks the active set of the scope.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	approver := strings.TrimSpace(req.Approver)
	if req.PriceBookID == "" {
		return nil, fmt.Errorf("%w: price book id required", domain.ErrInvalidArgument)
	}
	if approver == "" {
		return nil, domain.ErrApproverRequired
	}

	// 1. Check the approver
	ok, err := i.approvers.CanApprove(ctx, approver)
	if err != nil {
		return nil, fmt.Errorf("failed to check approver: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrApproverNotAuthorized, approver)
	}

	// 2. Load aggregate and the active books of its scope
	book, err := i.repo.GetByID(ctx, req.PriceBookID)
	if err != nil {
		return nil, err
	}
	active, err := i.repo.ListActiveByScope(ctx, book.Scope())
	if err != nil {
		return nil, fmt.Errorf("failed to list active price books: %w", err)
	}

	// 3. Call domain method
	now := i.clock.Now()
	expired, err := domain.ActivateExclusive(book, approver, active, now)
	if err != nil {
		return nil, err
	}

	// 4. Create commit plan
	plan := committer.NewPlan()
	touched := append([]*domain.PriceBook{book}, expired...)
	for _, b := range touched {
		muts, err := i.repo.UpdateMuts(b)
		if err != nil {
			return nil, err
		}
		plan.AddMultiple(muts)
		plan.Guard(i.repo.VersionGuard(b))
	}
	plan.Guard(i.repo.ActiveScopeGuard(book.Scope(), bookIDs(active)))

	// 5. Add outbox events
	for _, b := range touched {
		muts, err := outbox.Mutations(i.outboxRepo, b.DomainEvents())
		if err != nil {
			return nil, err
		}
		plan.AddMultiple(muts)
	}

	// 6. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Audit and clear only after the commit went through
	resp := &Response{}
	for _, b := range touched {
		audit.Forward(ctx, i.auditSink, b.StatusChanges())
		b.ClearEvents()
		if b != book {
			resp.ExpiredIDs = append(resp.ExpiredIDs, b.ID())
		}
	}
	return resp, nil
}

func bookIDs(books []*domain.PriceBook) []string {
	ids := make([]string, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID())
	}
	return ids
}

package services

import (
	"context"
	"strings"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
)

// AnyApprover accepts every non-empty actor. Who may approve is decided
// upstream by the caller's authentication.
type AnyApprover struct{}

var _ contracts.ApproverAuthority = AnyApprover{}

func (AnyApprover) CanApprove(_ context.Context, actor string) (bool, error) {
	return strings.TrimSpace(actor) != "", nil
}

// ListApprover accepts only the configured actors.
type ListApprover struct {
	allowed map[string]bool
}

// NewListApprover builds an approver from a list of actor ids.
func NewListApprover(actors []string) *ListApprover {
	allowed := make(map[string]bool, len(actors))
	for _, a := range actors {
		if a = strings.TrimSpace(a); a != "" {
			allowed[a] = true
		}
	}
	return &ListApprover{allowed: allowed}
}

func (l *ListApprover) CanApprove(_ context.Context, actor string) (bool, error) {
	return l.allowed[strings.TrimSpace(actor)], nil
}

package domain

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// CustomerContext describes the buyer a price is resolved for.
type CustomerContext struct {
	Market         string
	CustomerType   string
	MembershipTier string
}

// Eligibility restricts an offer's audience. Empty allow-lists are unrestricted.
type Eligibility struct {
	Markets                []string
	CustomerTypes          []string
	MembershipTiers        []string
	AllocationConstraintID string
}

// Accepts reports whether every allow-list admits the context.
func (e *Eligibility) Accepts(c CustomerContext) bool {
	return allowed(e.Markets, c.Market) &&
		allowed(e.CustomerTypes, c.CustomerType) &&
		allowed(e.MembershipTiers, c.MembershipTier)
}

func allowed(list []string, v string) bool {
	if len(list) == 0 {
		return true
	}
	return contains(list, v)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// AllocationConstraint is the upstream restriction on where an item may be
// sold. Empty lists are unrestricted.
type AllocationConstraint struct {
	ID                   string
	AllowedMarkets       []string
	AllowedCustomerTypes []string
	AllowedChannels      []string
}

// CheckEligibility reports every market, customer type or channel that the
// eligibility requests but the constraint disallows.
func (c *AllocationConstraint) CheckEligibility(e *Eligibility, channel string) error {
	var errs error
	for _, m := range e.Markets {
		if !allowed(c.AllowedMarkets, m) {
			errs = multierr.Append(errs, fmt.Errorf("%w: market %q", ErrEligibilityViolation, m))
		}
	}
	for _, ct := range e.CustomerTypes {
		if !allowed(c.AllowedCustomerTypes, ct) {
			errs = multierr.Append(errs, fmt.Errorf("%w: customer type %q", ErrEligibilityViolation, ct))
		}
	}
	if !allowed(c.AllowedChannels, channel) {
		errs = multierr.Append(errs, fmt.Errorf("%w: channel %q", ErrEligibilityViolation, channel))
	}
	return errs
}

// AllocationConstraintChecker validates offer eligibility against the
// allocation authority without exposing its representation.
type AllocationConstraintChecker interface {
	Check(ctx context.Context, eligibility *Eligibility, channel string) error
}

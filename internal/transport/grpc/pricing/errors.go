package pricing

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/engine"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
	"github.com/light-bringer/pricing-engine/internal/pkg/validation"
)

var notFoundErrors = []error{
	domain.ErrPriceBookNotFound,
	domain.ErrOfferNotFound,
	domain.ErrPolicyNotFound,
	domain.ErrBundleNotFound,
	domain.ErrDiscountRuleNotFound,
	domain.ErrEntryNotFound,
}

var invalidArgumentErrors = []error{
	domain.ErrInvalidArgument,
	domain.ErrNegativeAmount,
	domain.ErrInvalidPercentage,
	domain.ErrInvalidWindow,
	domain.ErrWindowStartRequired,
	domain.ErrEmptyPriceBookName,
	domain.ErrInvalidPriceBookScope,
	domain.ErrInvalidEntryPrice,
	domain.ErrApproverRequired,
	domain.ErrEmptyRuleName,
	domain.ErrInvalidRuleLogic,
	domain.ErrInvalidOfferReference,
	domain.ErrInvalidBenefit,
	domain.ErrEmptyPolicyName,
	domain.ErrInvalidPolicyLogic,
	domain.ErrInvalidPolicyScope,
	domain.ErrInvalidRoundingRule,
	domain.ErrEmptyBundleName,
	domain.ErrInvalidBundleLogic,
}

// Lifecycle guards. Their messages are returned to the caller unchanged.
var failedPreconditionErrors = []error{
	domain.ErrPriceBookNotDraft,
	domain.ErrPriceBookHasNoEntries,
	domain.ErrPriceBookNotActive,
	domain.ErrCannotArchivePriceBook,
	domain.ErrPriceBookClosed,
	domain.ErrDiscountRuleInUse,
	domain.ErrDiscountRuleInactive,
	domain.ErrOfferNotDraft,
	domain.ErrOfferNotActive,
	domain.ErrOfferNotPaused,
	domain.ErrOfferTerminal,
	domain.ErrOfferStillValid,
	domain.ErrMissingBasePrice,
	domain.ErrEligibilityViolation,
	domain.ErrPolicyNotActive,
	domain.ErrPolicyArchived,
	domain.ErrInvalidPolicyTransition,
	domain.ErrBundleNotDraft,
	domain.ErrBundleNotActive,
	domain.ErrBundleNotInactive,
	domain.ErrBundleHasNoComponents,
	domain.ErrInvalidComponentQuantity,
	domain.ErrComponentItemInactive,
	domain.ErrComponentNotAllocated,
	domain.ErrBundleComponentUnpriced,
	engine.ErrTargetMismatch,
}

// mapDomainErrorToGRPC converts application errors to gRPC status errors.
func mapDomainErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())

	case errors.Is(err, committer.ErrVersionConflict), errors.Is(err, committer.ErrGuardRejected):
		return status.Error(codes.Aborted, err.Error())

	case errors.Is(err, domain.ErrApproverNotAuthorized):
		return status.Error(codes.PermissionDenied, err.Error())

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())

	case isAny(err, notFoundErrors):
		return status.Error(codes.NotFound, err.Error())

	case isAny(err, invalidArgumentErrors):
		return status.Error(codes.InvalidArgument, err.Error())

	case isAny(err, failedPreconditionErrors):
		return status.Error(codes.FailedPrecondition, err.Error())

	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

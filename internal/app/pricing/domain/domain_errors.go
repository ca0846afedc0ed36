package domain

import "errors"

// Domain errors as sentinel values
var (
	// Value errors
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNegativeAmount      = errors.New("amount cannot be negative")
	ErrInvalidPercentage   = errors.New("percentage must be between 0 and 100")
	ErrInvalidWindow       = errors.New("validity window end must be after its start")
	ErrWindowStartRequired = errors.New("validity window start is required")

	// Price book errors
	ErrPriceBookNotFound      = errors.New("price book not found")
	ErrEmptyPriceBookName     = errors.New("price book name cannot be empty")
	ErrInvalidPriceBookScope  = errors.New("price book scope requires market and currency")
	ErrPriceBookNotDraft      = errors.New("price book can only be edited while draft")
	ErrPriceBookHasNoEntries  = errors.New("price book needs at least one entry to be activated")
	ErrApproverRequired       = errors.New("price book activation requires an approver")
	ErrApproverNotAuthorized  = errors.New("approver is not authorized to activate price books")
	ErrPriceBookNotActive     = errors.New("price book is not active")
	ErrCannotArchivePriceBook = errors.New("price book can only be archived from active or expired")
	ErrPriceBookClosed        = errors.New("price book is expired or archived")
	ErrInvalidEntryPrice      = errors.New("price book entry price must be positive")
	ErrEntryNotFound          = errors.New("price book has no entry for item")

	// Discount rule errors
	ErrDiscountRuleNotFound = errors.New("discount rule not found")
	ErrEmptyRuleName        = errors.New("discount rule name cannot be empty")
	ErrInvalidRuleLogic     = errors.New("invalid discount rule logic")
	ErrDiscountRuleInUse    = errors.New("discount rule is referenced by active offers")
	ErrDiscountRuleInactive = errors.New("discount rule is already inactive")

	// Offer errors
	ErrOfferNotFound         = errors.New("offer not found")
	ErrInvalidOfferReference = errors.New("offer requires an item, a channel and a price book")
	ErrOfferNotDraft         = errors.New("offer is not draft")
	ErrOfferNotActive        = errors.New("offer is not active")
	ErrOfferNotPaused        = errors.New("offer is not paused")
	ErrOfferTerminal         = errors.New("offer is already cancelled or expired")
	ErrOfferStillValid       = errors.New("offer validity window has not ended")
	ErrInvalidBenefit        = errors.New("invalid offer benefit")
	ErrMissingBasePrice      = errors.New("no base price for offer item")
	ErrEligibilityViolation  = errors.New("eligibility conflicts with allocation constraint")

	// Pricing policy errors
	ErrPolicyNotFound           = errors.New("pricing policy not found")
	ErrEmptyPolicyName          = errors.New("pricing policy name cannot be empty")
	ErrInvalidPolicyLogic       = errors.New("invalid pricing policy logic")
	ErrInvalidPolicyScope       = errors.New("invalid pricing policy scope")
	ErrInvalidRoundingRule      = errors.New("invalid rounding rule")
	ErrPolicyNotActive          = errors.New("pricing policy must be active to execute")
	ErrPolicyArchived           = errors.New("pricing policy is archived")
	ErrInvalidPolicyTransition  = errors.New("invalid pricing policy status transition")
	ErrNonPositiveComputedPrice = errors.New("computed price is not positive")

	// Bundle errors
	ErrBundleNotFound           = errors.New("bundle not found")
	ErrEmptyBundleName          = errors.New("bundle name cannot be empty")
	ErrInvalidBundleLogic       = errors.New("invalid bundle pricing logic")
	ErrBundleNotDraft           = errors.New("bundle is not draft")
	ErrBundleNotActive          = errors.New("bundle is not active")
	ErrBundleNotInactive        = errors.New("bundle is not inactive")
	ErrBundleHasNoComponents    = errors.New("bundle needs at least one component")
	ErrInvalidComponentQuantity = errors.New("bundle component quantity must be positive")
	ErrComponentItemInactive    = errors.New("bundle component item is not active")
	ErrComponentNotAllocated    = errors.New("bundle component item has no active allocation")
	ErrBundleComponentUnpriced  = errors.New("bundle component has no price book entry")
)

package pricing

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/queries/calculate_bundle_price"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/queries/resolve_offer"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/queries/resolve_price"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/queries/simulate_price"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/simulation"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/usecases/activate_offer"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/usecases/activate_price_book"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/usecases/archive_price_book"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/usecases/change_bundle_status"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/usecases/change_offer_status"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/usecases/clone_price_book"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/usecases/execute_policy"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/usecases/expire_offers"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/usecases/update_discount_rule"
)

const (
	actorKey     = "x-actor"
	defaultActor = "api"
)

var _ PricingServiceServer = (*Handler)(nil)

// Handler implements PricingService.
// It's a thin coordinator that delegates to use cases and queries.
type Handler struct {
	// Commands
	activatePriceBook  *activate_price_book.Interactor
	archivePriceBook   *archive_price_book.Interactor
	clonePriceBook     *clone_price_book.Interactor
	activateOffer      *activate_offer.Interactor
	changeOfferStatus  *change_offer_status.Interactor
	expireOffers       *expire_offers.Interactor
	executePolicy      *execute_policy.Interactor
	changeBundleStatus *change_bundle_status.Interactor
	updateDiscountRule *update_discount_rule.Interactor

	// Queries
	resolveOffer         *resolve_offer.Query
	resolvePrice         *resolve_price.Query
	calculateBundlePrice *calculate_bundle_price.Query
	simulatePrice        *simulate_price.Query
}

// NewHandler creates a new gRPC pricing handler.
func NewHandler(
	activatePriceBook *activate_price_book.Interactor,
	archivePriceBook *archive_price_book.Interactor,
	clonePriceBook *clone_price_book.Interactor,
	activateOffer *activate_offer.Interactor,
	changeOfferStatus *change_offer_status.Interactor,
	expireOffers *expire_offers.Interactor,
	executePolicy *execute_policy.Interactor,
	changeBundleStatus *change_bundle_status.Interactor,
	updateDiscountRule *update_discount_rule.Interactor,
	resolveOffer *resolve_offer.Query,
	resolvePrice *resolve_price.Query,
	calculateBundlePrice *calculate_bundle_price.Query,
	simulatePrice *simulate_price.Query,
) *Handler {
	return &Handler{
		activatePriceBook:    activatePriceBook,
		archivePriceBook:     archivePriceBook,
		clonePriceBook:       clonePriceBook,
		activateOffer:        activateOffer,
		changeOfferStatus:    changeOfferStatus,
		expireOffers:         expireOffers,
		executePolicy:        executePolicy,
		changeBundleStatus:   changeBundleStatus,
		updateDiscountRule:   updateDiscountRule,
		resolveOffer:         resolveOffer,
		resolvePrice:         resolvePrice,
		calculateBundlePrice: calculateBundlePrice,
		simulatePrice:        simulatePrice,
	}
}

// ActivatePriceBook activates a draft book and expires the books it overlaps.
func (h *Handler) ActivatePriceBook(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	// 1. Decode and validate request
	var req activatePriceBookRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}

	// 2. Call usecase
	resp, err := h.activatePriceBook.Execute(ctx, &activate_price_book.Request{
		PriceBookID: req.PriceBookID,
		Approver:    req.Approver,
	})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	// 3. Return response
	expired := resp.ExpiredIDs
	if expired == nil {
		expired = []string{}
	}
	return encodeResponse(activatePriceBookResponse{
		PriceBookID:         req.PriceBookID,
		ExpiredPriceBookIDs: expired,
	})
}

// ArchivePriceBook archives an active or expired book.
func (h *Handler) ArchivePriceBook(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req archivePriceBookRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}

	err := h.archivePriceBook.Execute(ctx, &archive_price_book.Request{
		PriceBookID: req.PriceBookID,
		Actor:       actorFrom(ctx, req.Actor),
	})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}
	return &structpb.Struct{}, nil
}

// ClonePriceBook copies a book into a new draft.
func (h *Handler) ClonePriceBook(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	// 1. Decode and validate request
	var req clonePriceBookRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}

	// 2. Map to application request
	validFrom, err := parseTimestamp("valid_from", req.ValidFrom)
	if err != nil {
		return nil, err
	}
	overrides := clone_price_book.Overrides{
		Name:      req.Name,
		Scope:     scopeToDomain(req.Scope),
		ValidFrom: validFrom,
	}
	if req.ValidTo != "" {
		validTo, err := parseTimestamp("valid_to", req.ValidTo)
		if err != nil {
			return nil, err
		}
		overrides.ValidTo = &validTo
	}

	// 3. Call usecase
	id, err := h.clonePriceBook.Execute(ctx, &clone_price_book.Request{
		SourceID:  req.SourceID,
		Overrides: overrides,
		Actor:     actorFrom(ctx, req.Actor),
	})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	// 4. Return response
	return encodeResponse(clonePriceBookResponse{PriceBookID: id})
}

// ActivateOffer activates a draft offer.
func (h *Handler) ActivateOffer(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req activateOfferRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}

	err := h.activateOffer.Execute(ctx, &activate_offer.Request{
		OfferID: req.OfferID,
		Actor:   actorFrom(ctx, req.Actor),
	})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}
	return &structpb.Struct{}, nil
}

// ChangeOfferStatus pauses, resumes, cancels or expires an offer.
func (h *Handler) ChangeOfferStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req changeOfferStatusRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}

	err := h.changeOfferStatus.Execute(ctx, &change_offer_status.Request{
		OfferID: req.OfferID,
		Action:  change_offer_status.Action(req.Action),
		Actor:   actorFrom(ctx, req.Actor),
	})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}
	return &structpb.Struct{}, nil
}

// ExpireOffers runs the offer expiry sweep on demand.
func (h *Handler) ExpireOffers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	n, err := h.expireOffers.Execute(ctx)
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}
	return encodeResponse(expireOffersResponse{Expired: n})
}

// ExecutePolicy runs a pricing policy, or previews it when dry_run is set.
func (h *Handler) ExecutePolicy(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	// 1. Decode and validate request
	var req executePolicyRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}

	// 2. Call usecase
	result, err := h.executePolicy.Execute(ctx, &execute_policy.Request{
		PolicyID: req.PolicyID,
		DryRun:   req.DryRun,
		Actor:    actorFrom(ctx, req.Actor),
	})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	// 3. Return response
	return encodeResponse(executionToDTO(result))
}

// ChangeBundleStatus activates, deactivates or reactivates a bundle.
func (h *Handler) ChangeBundleStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req changeBundleStatusRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}

	err := h.changeBundleStatus.Execute(ctx, &change_bundle_status.Request{
		BundleID: req.BundleID,
		Action:   change_bundle_status.Action(req.Action),
		Actor:    actorFrom(ctx, req.Actor),
	})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}
	return &structpb.Struct{}, nil
}

// UpdateDiscountRule edits or deactivates a discount rule.
func (h *Handler) UpdateDiscountRule(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	// 1. Decode and validate request
	var req updateDiscountRuleRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	if req.Name == "" && req.Logic == nil && !req.Deactivate {
		return nil, status.Error(codes.InvalidArgument, "at least one of name, logic or deactivate must be provided")
	}

	// 2. Map to application request
	logic, err := ruleLogicToDomain(req.Logic)
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	// 3. Call usecase
	err = h.updateDiscountRule.Execute(ctx, &update_discount_rule.Request{
		RuleID:     req.RuleID,
		Name:       req.Name,
		Logic:      logic,
		Deactivate: req.Deactivate,
		Actor:      actorFrom(ctx, req.Actor),
	})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	// 4. Return response
	return &structpb.Struct{}, nil
}

// ResolveOffer finds the offer that applies to an item on a channel.
func (h *Handler) ResolveOffer(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req resolveOfferRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	at, err := parseTimestamp("at", req.At)
	if err != nil {
		return nil, err
	}

	offer, err := h.resolveOffer.Execute(ctx, &resolve_offer.Request{
		ItemID:    req.ItemID,
		ChannelID: req.ChannelID,
		Customer:  customerToDomain(req.Customer),
		At:        at,
	})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}
	if offer == nil {
		return encodeResponse(resolveOfferResponse{Found: false})
	}
	return encodeResponse(resolveOfferResponse{Found: true, Offer: offerToDTO(offer)})
}

// ResolvePrice prices an offer for a quantity.
func (h *Handler) ResolvePrice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req resolvePriceRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}

	breakdown, err := h.resolvePrice.Execute(ctx, &resolve_price.Request{
		OfferID:  req.OfferID,
		Quantity: req.Quantity,
	})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}
	return encodeResponse(breakdownToDTO(breakdown))
}

// CalculateBundlePrice prices a bundle against a price book.
func (h *Handler) CalculateBundlePrice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req calculateBundlePriceRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}

	price, err := h.calculateBundlePrice.Execute(ctx, &calculate_bundle_price.Request{
		BundleID:    req.BundleID,
		PriceBookID: req.PriceBookID,
	})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}
	return encodeResponse(bundlePriceToDTO(price))
}

// SimulatePrice traces price resolution step by step. A failed step is part
// of the result, not an RPC error.
func (h *Handler) SimulatePrice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	// 1. Decode and validate request
	var req simulatePriceRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	at, err := parseTimestamp("at", req.At)
	if err != nil {
		return nil, err
	}

	// 2. Call query
	result, err := h.simulatePrice.Execute(ctx, simulation.Request{
		ItemID:    req.ItemID,
		ChannelID: req.ChannelID,
		Customer:  customerToDomain(req.Customer),
		At:        at,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	// 3. Return response
	return encodeResponse(simulationToDTO(result))
}

// actorFrom prefers the actor in the body, then the x-actor header.
func actorFrom(ctx context.Context, fromBody string) string {
	if a := strings.TrimSpace(fromBody); a != "" {
		return a
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(actorKey); len(vals) > 0 && strings.TrimSpace(vals[0]) != "" {
			return strings.TrimSpace(vals[0])
		}
	}
	return defaultActor
}

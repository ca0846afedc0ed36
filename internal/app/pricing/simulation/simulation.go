// Package simulation explains how a price would be resolved for an item on
// a channel at an instant, step by step, without changing anything.
package simulation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
)

// Verdict grades one step.
type Verdict string

const (
	VerdictSuccess Verdict = "success"
	VerdictWarning Verdict = "warning"
	VerdictError   Verdict = "error"
)

// Step names, in pipeline order.
const (
	StepAllocation  = "allocation"
	StepMarketPrice = "market_price"
	StepPriceBook   = "price_book"
	StepOffer       = "offer"
	StepFinalPrice  = "final_price"
)

// Request asks for a simulation. A zero At means now.
type Request struct {
	ItemID    string
	ChannelID string
	Customer  *domain.CustomerContext
	At        time.Time
	Quantity  int64
}

// StepResult is the outcome of one step.
type StepResult struct {
	Number    int
	Name      string
	Verdict   Verdict
	Rationale string
}

// Result collects every step plus whatever each step found.
type Result struct {
	Request Request
	Steps   []StepResult

	Allocation  *domain.Allocation
	MarketPrice *domain.MarketPrice
	PriceBook   *domain.PriceBook
	BasePrice   *domain.Money
	Offer       *domain.Offer
	Breakdown   *domain.PriceBreakdown
	FinalPrice  *domain.Money
	Total       *domain.Money

	Errors   []string
	Warnings []string
}

// Actionable reports whether the price can be used as is.
func (r *Result) Actionable() bool {
	return len(r.Errors) == 0
}

// Step returns the result of the named step.
func (r *Result) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

func (r *Result) add(name string, v Verdict, format string, args ...any) StepResult {
	s := StepResult{
		Number:    len(r.Steps) + 1,
		Name:      name,
		Verdict:   v,
		Rationale: fmt.Sprintf(format, args...),
	}
	r.Steps = append(r.Steps, s)
	switch v {
	case VerdictError:
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %s", name, s.Rationale))
	case VerdictWarning:
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %s", name, s.Rationale))
	}
	return s
}

// Sources groups the readers the pipeline consults.
type Sources struct {
	Allocations  contracts.AllocationSource
	MarketPrices contracts.MarketPriceSource
	Books        interface {
		ListLiveAt(ctx context.Context, at time.Time) ([]*domain.PriceBook, error)
	}
	Offers interface {
		ListLive(ctx context.Context, itemID, channelID string, at time.Time) ([]*domain.Offer, error)
	}
	Rules interface {
		GetByID(ctx context.Context, ruleID string) (*domain.DiscountRule, error)
	}
}

// Pipeline runs simulations.
type Pipeline struct {
	src    Sources
	maxAge time.Duration
	now    func() time.Time
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithMarketPriceMaxAge overrides the market price staleness threshold.
func WithMarketPriceMaxAge(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.maxAge = d
		}
	}
}

// WithNow sets the time source used when a request has no instant.
func WithNow(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a Pipeline.
func NewPipeline(src Sources, opts ...Option) *Pipeline {
	p := &Pipeline{
		src:    src,
		maxAge: domain.DefaultMarketPriceMaxAge,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the five steps in order. Source failures become the failing
// step's error verdict; only an invalid request returns an error.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if req.ItemID == "" || req.ChannelID == "" {
		return nil, fmt.Errorf("%w: item and channel are required", domain.ErrInvalidArgument)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidArgument)
	}
	if req.At.IsZero() {
		req.At = p.now()
	}
	req.At = req.At.UTC()

	res := &Result{Request: req}
	p.checkAllocation(ctx, res)
	p.checkMarketPrice(ctx, res)
	p.selectPriceBook(ctx, res)
	offerStep := p.resolveOffer(ctx, res)
	p.finalPrice(res, offerStep)
	return res, nil
}

func (p *Pipeline) checkAllocation(ctx context.Context, res *Result) {
	req := res.Request
	alloc, err := p.src.Allocations.ActiveAllocation(ctx, req.ItemID)
	switch {
	case err != nil:
		res.add(StepAllocation, VerdictError, "allocation lookup failed: %v", err)
	case alloc == nil:
		res.add(StepAllocation, VerdictError, "item %s has no active allocation", req.ItemID)
	default:
		res.Allocation = alloc
		var problems []string
		if !alloc.Covers(req.Quantity) {
			problems = append(problems, fmt.Sprintf("allocation %s has %d remaining, %d requested", alloc.ID, alloc.RemainingQuantity, req.Quantity))
		}
		if !alloc.AllowsChannel(req.ChannelID) {
			problems = append(problems, fmt.Sprintf("channel %s is not allowed by allocation %s", req.ChannelID, alloc.ID))
		}
		if len(problems) > 0 {
			res.add(StepAllocation, VerdictWarning, "%s", strings.Join(problems, "; "))
			return
		}
		res.add(StepAllocation, VerdictSuccess, "allocation %s covers %d units", alloc.ID, req.Quantity)
	}
}

func (p *Pipeline) checkMarketPrice(ctx context.Context, res *Result) {
	req := res.Request
	market := ""
	if req.Customer != nil {
		market = req.Customer.Market
	}
	ref, err := p.src.MarketPrices.Latest(ctx, req.ItemID, market)
	switch {
	case err != nil:
		res.add(StepMarketPrice, VerdictError, "market price lookup failed: %v", err)
	case ref == nil:
		res.add(StepMarketPrice, VerdictWarning, "no market price reference for %s", req.ItemID)
	case ref.IsStale(req.At, p.maxAge):
		res.MarketPrice = ref
		res.add(StepMarketPrice, VerdictWarning, "market price %s observed %s is stale", ref.Price, ref.ObservedAt.Format(time.RFC3339))
	default:
		res.MarketPrice = ref
		res.add(StepMarketPrice, VerdictSuccess, "market price %s observed %s", ref.Price, ref.ObservedAt.Format(time.RFC3339))
	}
}

func (p *Pipeline) selectPriceBook(ctx context.Context, res *Result) {
	req := res.Request
	books, err := p.src.Books.ListLiveAt(ctx, req.At)
	if err != nil {
		res.add(StepPriceBook, VerdictError, "price book lookup failed: %v", err)
		return
	}

	market := ""
	if req.Customer != nil {
		market = req.Customer.Market
	}
	book := domain.SelectPriceBook(books, req.ChannelID, market, req.At)
	if book == nil {
		res.add(StepPriceBook, VerdictError, "no active price book for channel %s at %s", req.ChannelID, req.At.Format(time.RFC3339))
		return
	}
	res.PriceBook = book

	base, err := book.BasePrice(req.ItemID)
	if err != nil {
		res.add(StepPriceBook, VerdictWarning, "price book %s has no entry for %s", book.ID(), req.ItemID)
		return
	}
	res.BasePrice = base
	res.add(StepPriceBook, VerdictSuccess, "price book %s gives base price %s", book.ID(), base)
}

func (p *Pipeline) resolveOffer(ctx context.Context, res *Result) StepResult {
	req := res.Request
	if res.BasePrice == nil {
		return res.add(StepOffer, VerdictError, "no base price to apply an offer to")
	}

	offers, err := p.src.Offers.ListLive(ctx, req.ItemID, req.ChannelID, req.At)
	if err != nil {
		return res.add(StepOffer, VerdictError, "offer lookup failed: %v", err)
	}
	offer := domain.ResolveOffer(offers, req.ItemID, req.ChannelID, req.At, req.Customer)
	if offer == nil {
		return res.add(StepOffer, VerdictWarning, "no active offer for %s on %s", req.ItemID, req.ChannelID)
	}
	res.Offer = offer

	var rule *domain.DiscountRule
	if b := offer.Benefit(); b != nil && b.HasDiscountRule() {
		rule, err = p.src.Rules.GetByID(ctx, b.DiscountRuleID())
		if err != nil {
			return res.add(StepOffer, VerdictError, "discount rule %s lookup failed: %v", b.DiscountRuleID(), err)
		}
	}
	breakdown := offer.PriceFrom(res.BasePrice, req.Quantity, rule)
	res.Breakdown = &breakdown

	benefitType, value := domain.BenefitNone, "0"
	if b := offer.Benefit(); b != nil {
		benefitType, value = b.Type(), b.Value().String()
	}
	return res.add(StepOffer, VerdictSuccess, "offer %s applies %s %s, discount %s", offer.ID(), benefitType, value, breakdown.Discount)
}

// finalPrice refuses to price an item without supply: a failed allocation
// step fails this step too, whatever the later steps found.
func (p *Pipeline) finalPrice(res *Result, offerStep StepResult) {
	alloc, _ := res.Step(StepAllocation)
	switch {
	case alloc.Verdict == VerdictError:
		res.add(StepFinalPrice, VerdictError, "item has no sellable allocation")
	case res.BasePrice == nil:
		res.add(StepFinalPrice, VerdictError, "no base price")
	case offerStep.Verdict == VerdictError:
		res.add(StepFinalPrice, VerdictError, "offer step failed")
	case res.Offer == nil:
		res.add(StepFinalPrice, VerdictError, "item is not sellable without an active offer")
	default:
		final := res.BasePrice.Subtract(res.Breakdown.Discount).Round()
		res.FinalPrice = final
		res.Total = final.MultiplyByQuantity(res.Request.Quantity).Round()
		res.add(StepFinalPrice, VerdictSuccess, "final price %s, total %s for %d units", final, res.Total, res.Request.Quantity)
	}
}

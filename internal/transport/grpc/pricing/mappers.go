package pricing

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/engine"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/simulation"
	"github.com/light-bringer/pricing-engine/internal/pkg/validation"
)

// decodeRequest unpacks a Struct body into dst and validates it.
func decodeRequest(in *structpb.Struct, dst any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	if err := validation.Struct(dst); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

// encodeResponse packs a response DTO into a Struct.
func encodeResponse(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return out, nil
}

// parseTimestamp reads an RFC3339 timestamp. An empty value is the zero time.
func parseTimestamp(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s must be an RFC3339 timestamp", field)
	}
	return t.UTC(), nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func moneyString(m *domain.Money) string {
	if m == nil {
		return ""
	}
	return m.String()
}

func optionalMoney(m *domain.Money) *string {
	if m == nil {
		return nil
	}
	s := m.String()
	return &s
}

func customerToDomain(c *customerDTO) *domain.CustomerContext {
	if c == nil {
		return nil
	}
	return &domain.CustomerContext{
		Market:         c.Market,
		CustomerType:   c.CustomerType,
		MembershipTier: c.MembershipTier,
	}
}

func scopeToDomain(s *scopeDTO) *domain.PriceBookScope {
	if s == nil {
		return nil
	}
	return &domain.PriceBookScope{
		Market:   s.Market,
		Channel:  s.Channel,
		Currency: s.Currency,
	}
}

func ruleLogicToDomain(l *ruleLogicDTO) (domain.RuleLogic, error) {
	if l == nil {
		return nil, nil
	}
	logic, err := domain.ParseRuleLogic(domain.RuleType(l.Type), l.Params)
	if err != nil {
		return nil, fmt.Errorf("logic: %w", err)
	}
	return logic, nil
}

func offerToDTO(o *domain.Offer) *offerDTO {
	dto := &offerDTO{
		OfferID:     o.ID(),
		ItemID:      o.ItemID(),
		ChannelID:   o.ChannelID(),
		PriceBookID: o.PriceBookID(),
		Type:        string(o.Type()),
		Visibility:  string(o.Visibility()),
		Status:      string(o.Status()),
		CampaignTag: o.CampaignTag(),
		ValidFrom:   formatTimestamp(o.Window().From),
		Version:     o.Version(),
	}
	if to := o.Window().To; to != nil {
		dto.ValidTo = formatTimestamp(*to)
	}
	if b := o.Benefit(); b != nil {
		dto.Benefit = &benefitDTO{
			Type:           string(b.Type()),
			Value:          b.Value().String(),
			DiscountRuleID: b.DiscountRuleID(),
		}
	}
	return dto
}

func breakdownToDTO(b domain.PriceBreakdown) *priceBreakdownDTO {
	return &priceBreakdownDTO{
		BasePrice:       moneyString(b.Base),
		FinalPrice:      moneyString(b.Final),
		Discount:        moneyString(b.Discount),
		DiscountPercent: b.DiscountPercent.String(),
	}
}

func executionToDTO(r *engine.ExecutionResult) *executionDTO {
	dto := &executionDTO{
		ExecutionID:     r.ExecutionID,
		Status:          string(r.Status),
		SkusProcessed:   r.SkusProcessed,
		PricesGenerated: r.PricesGenerated,
		ErrorsCount:     r.ErrorsCount,
		Changes:         make([]itemChangeDTO, 0, len(r.Changes)),
	}
	for _, c := range r.Changes {
		dto.Changes = append(dto.Changes, itemChangeDTO{
			ItemID:   c.ItemID,
			OldPrice: optionalMoney(c.OldPrice),
			NewPrice: optionalMoney(c.NewPrice),
			Outcome:  string(c.Outcome),
			Reason:   c.Reason,
		})
	}
	return dto
}

func bundlePriceToDTO(p domain.BundlePrice) *bundlePriceDTO {
	dto := &bundlePriceDTO{
		Lines:           make([]bundleLineDTO, 0, len(p.Lines)),
		ComponentsTotal: moneyString(p.ComponentsTotal),
		FinalPrice:      moneyString(p.FinalPrice),
		Discount:        moneyString(p.Discount),
	}
	for _, l := range p.Lines {
		dto.Lines = append(dto.Lines, bundleLineDTO{
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: moneyString(l.UnitPrice),
			LineTotal: moneyString(l.LineTotal),
		})
	}
	return dto
}

func simulationToDTO(r *simulation.Result) *simulationDTO {
	dto := &simulationDTO{
		Actionable: r.Actionable(),
		Steps:      make([]stepDTO, 0, len(r.Steps)),
		BasePrice:  moneyString(r.BasePrice),
		FinalPrice: moneyString(r.FinalPrice),
		Total:      moneyString(r.Total),
		Errors:     append([]string{}, r.Errors...),
		Warnings:   append([]string{}, r.Warnings...),
	}
	for _, s := range r.Steps {
		dto.Steps = append(dto.Steps, stepDTO{
			Number:    s.Number,
			Name:      s.Name,
			Verdict:   string(s.Verdict),
			Rationale: s.Rationale,
		})
	}
	if r.PriceBook != nil {
		dto.PriceBookID = r.PriceBook.ID()
	}
	if r.Offer != nil {
		dto.OfferID = r.Offer.ID()
	}
	if r.Breakdown != nil {
		dto.Breakdown = breakdownToDTO(*r.Breakdown)
	}
	return dto
}

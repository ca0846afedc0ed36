package repo

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
)

// numericScale is the fractional precision of Spanner NUMERIC.
const numericScale = 9

func decimalToRat(d decimal.Decimal) *big.Rat {
	return d.Round(numericScale).Rat()
}

func ratToDecimal(r *big.Rat) (decimal.Decimal, error) {
	return decimal.NewFromString(r.FloatString(numericScale))
}

func moneyToNumeric(m *domain.Money) big.Rat {
	return *decimalToRat(m.Decimal())
}

func numericToMoney(r *big.Rat) (*domain.Money, error) {
	d, err := ratToDecimal(r)
	if err != nil {
		return nil, fmt.Errorf("invalid numeric value: %w", err)
	}
	return domain.NewMoneyFromDecimal(d), nil
}

func nullNumeric(d *decimal.Decimal) spanner.NullNumeric {
	if d == nil {
		return spanner.NullNumeric{}
	}
	return spanner.NullNumeric{Numeric: *decimalToRat(*d), Valid: true}
}

func nullMoney(m *domain.Money) spanner.NullNumeric {
	if m == nil {
		return spanner.NullNumeric{}
	}
	d := m.Decimal()
	return nullNumeric(&d)
}

func decimalFromNull(n spanner.NullNumeric) (*decimal.Decimal, error) {
	if !n.Valid {
		return nil, nil
	}
	d, err := ratToDecimal(&n.Numeric)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nullString(s string) spanner.NullString {
	return spanner.NullString{StringVal: s, Valid: s != ""}
}

func nullTime(t *time.Time) spanner.NullTime {
	if t == nil {
		return spanner.NullTime{}
	}
	return spanner.NullTime{Time: *t, Valid: true}
}

func timePtr(t spanner.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func windowFrom(from time.Time, to spanner.NullTime) domain.ValidityWindow {
	return domain.ValidityWindow{From: from, To: timePtr(to)}
}

// jsonBytes re-encodes a JSON column. Decimal parameters are stored as JSON
// strings so the round trip through interface{} is lossless.
func jsonBytes(col spanner.NullJSON) ([]byte, error) {
	if !col.Valid {
		return nil, nil
	}
	return json.Marshal(col.Value)
}

func toJSON(v interface{}) spanner.NullJSON {
	return spanner.NullJSON{Value: v, Valid: true}
}

// EncodeRuleLogic returns the discriminator and JSON parameters of a rule.
func EncodeRuleLogic(logic domain.RuleLogic) (string, spanner.NullJSON, error) {
	if logic == nil {
		return "", spanner.NullJSON{}, domain.ErrInvalidRuleLogic
	}
	return string(logic.Type()), toJSON(logic), nil
}

// DecodeRuleLogic rebuilds a typed rule from its discriminator and parameters.
func DecodeRuleLogic(ruleType string, col spanner.NullJSON) (domain.RuleLogic, error) {
	raw, err := jsonBytes(col)
	if err != nil {
		return nil, err
	}
	return domain.ParseRuleLogic(domain.RuleType(ruleType), raw)
}

// EncodePolicyLogic returns the discriminator and JSON parameters of a policy.
func EncodePolicyLogic(logic domain.PolicyLogic) (string, spanner.NullJSON, error) {
	if logic == nil {
		return "", spanner.NullJSON{}, domain.ErrInvalidPolicyLogic
	}
	return string(logic.Type()), toJSON(logic), nil
}

// DecodePolicyLogic rebuilds typed policy parameters.
func DecodePolicyLogic(policyType string, col spanner.NullJSON) (domain.PolicyLogic, error) {
	raw, err := jsonBytes(col)
	if err != nil {
		return nil, err
	}
	return domain.ParsePolicyLogic(domain.PolicyType(policyType), raw)
}

// eligibilityJSON is the stored form of an offer's eligibility.
type eligibilityJSON struct {
	Markets                []string `json:"markets,omitempty"`
	CustomerTypes          []string `json:"customer_types,omitempty"`
	MembershipTiers        []string `json:"membership_tiers,omitempty"`
	AllocationConstraintID string   `json:"allocation_constraint_id,omitempty"`
}

func encodeEligibility(e *domain.Eligibility) spanner.NullJSON {
	if e == nil {
		return spanner.NullJSON{}
	}
	return toJSON(eligibilityJSON{
		Markets:                e.Markets,
		CustomerTypes:          e.CustomerTypes,
		MembershipTiers:        e.MembershipTiers,
		AllocationConstraintID: e.AllocationConstraintID,
	})
}

func decodeEligibility(col spanner.NullJSON) (*domain.Eligibility, error) {
	raw, err := jsonBytes(col)
	if err != nil || raw == nil || string(raw) == "null" {
		return nil, err
	}
	var e eligibilityJSON
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("invalid eligibility: %w", err)
	}
	return &domain.Eligibility{
		Markets:                e.Markets,
		CustomerTypes:          e.CustomerTypes,
		MembershipTiers:        e.MembershipTiers,
		AllocationConstraintID: e.AllocationConstraintID,
	}, nil
}

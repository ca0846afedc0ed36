package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errMissingParams = errors.New("missing parameters")

// ParseRuleLogic decodes the JSON parameters of a rule of the given type.
func ParseRuleLogic(ruleType RuleType, raw []byte) (RuleLogic, error) {
	var (
		logic RuleLogic
		err   error
	)
	switch ruleType {
	case RuleTypePercentage:
		var l PercentageRule
		err = unmarshalParams(raw, &l)
		logic = l
	case RuleTypeFixedAmount:
		var l FixedAmountRule
		err = unmarshalParams(raw, &l)
		logic = l
	case RuleTypeTiered:
		var l TieredRule
		err = unmarshalParams(raw, &l)
		logic = l
	case RuleTypeVolumeBased:
		var l VolumeRule
		err = unmarshalParams(raw, &l)
		logic = l
	default:
		return nil, fmt.Errorf("%w: unknown rule type %q", ErrInvalidRuleLogic, ruleType)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRuleLogic, err)
	}
	return logic, nil
}

// ParsePolicyLogic decodes the JSON parameters of a policy of the given type.
func ParsePolicyLogic(policyType PolicyType, raw []byte) (PolicyLogic, error) {
	var (
		logic PolicyLogic
		err   error
	)
	switch policyType {
	case PolicyCostPlusMargin:
		var l CostPlusMarginLogic
		err = unmarshalParams(raw, &l)
		logic = l
	case PolicyReferencePriceBook:
		var l ReferencePriceBookLogic
		err = unmarshalParams(raw, &l)
		logic = l
	case PolicyIndexBased:
		var l IndexBasedLogic
		err = unmarshalParams(raw, &l)
		logic = l
	case PolicyFixedAdjustment:
		var l FixedAdjustmentLogic
		err = unmarshalParams(raw, &l)
		logic = l
	case PolicyRounding:
		var l RoundingLogic
		err = unmarshalParams(raw, &l)
		logic = l
	default:
		return nil, fmt.Errorf("%w: unknown policy type %q", ErrInvalidPolicyLogic, policyType)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolicyLogic, err)
	}
	return logic, nil
}

func unmarshalParams(raw []byte, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return errMissingParams
	}
	return json.Unmarshal(raw, v)
}

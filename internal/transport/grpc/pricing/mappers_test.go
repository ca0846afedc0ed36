package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
)

func TestDecodeRequest(t *testing.T) {
	t.Run("numbers and nested objects", func(t *testing.T) {
		in, err := structpb.NewStruct(map[string]any{
			"item_id":    "S",
			"channel_id": "web",
			"quantity":   3,
			"customer":   map[string]any{"market": "FR", "membership_tier": "gold"},
		})
		require.NoError(t, err)

		var req simulatePriceRequest
		require.NoError(t, decodeRequest(in, &req))
		assert.Equal(t, int64(3), req.Quantity)
		require.NotNil(t, req.Customer)
		assert.Equal(t, "gold", req.Customer.MembershipTier)
	})

	t.Run("validation names json fields", func(t *testing.T) {
		in, err := structpb.NewStruct(map[string]any{"offer_id": "o-1", "action": "archive"})
		require.NoError(t, err)

		var req changeOfferStatusRequest
		err = decodeRequest(in, &req)
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		assert.Contains(t, status.Convert(err).Message(), "action must be one of [pause resume cancel expire]")
	})

	t.Run("fractional quantity is malformed", func(t *testing.T) {
		in, err := structpb.NewStruct(map[string]any{"offer_id": "o-1", "quantity": 1.5})
		require.NoError(t, err)

		var req resolvePriceRequest
		assert.Equal(t, codes.InvalidArgument, status.Code(decodeRequest(in, &req)))
	})

	t.Run("nil body fails required fields", func(t *testing.T) {
		var req calculateBundlePriceRequest
		assert.Equal(t, codes.InvalidArgument, status.Code(decodeRequest(nil, &req)))
	})
}

func TestParseTimestamp(t *testing.T) {
	got, err := parseTimestamp("at", "2025-03-01T10:00:00+01:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), got)

	zero, err := parseTimestamp("at", "")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = parseTimestamp("valid_from", "01/03/2025")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRuleLogicToDomain(t *testing.T) {
	logic, err := ruleLogicToDomain(&ruleLogicDTO{Type: "percentage", Params: []byte(`{"value":"15"}`)})
	require.NoError(t, err)
	assert.Equal(t, domain.RuleTypePercentage, logic.Type())

	_, err = ruleLogicToDomain(&ruleLogicDTO{Type: "tiered", Params: []byte(`{"tiers":"nope"}`)})
	assert.ErrorIs(t, err, domain.ErrInvalidRuleLogic)

	none, err := ruleLogicToDomain(nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

package pricing

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain/services"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/engine"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/fakes"
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
	"github.com/light-bringer/pricing-engine/internal/pkg/clock"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
)

const bufSize = 1024 * 1024

// setupGRPCTest serves a handler backed by in-memory repositories.
func setupGRPCTest(t *testing.T) *Client {
	t.Helper()

	// Fixtures
	open := fakes.Window(fakes.T0, time.Time{})
	live := fakes.StoredBook("pb-1", fakes.Scope, open, domain.PriceBookActive,
		map[string]string{"S": "100", "A": "30", "B": "50"})
	draft := fakes.StoredBook("pb-2", fakes.Scope, open, domain.PriceBookDraft,
		map[string]string{"S": "120"})
	tenOff, err := domain.NewBenefit(domain.BenefitPercentageDiscount, decimal.RequireFromString("10"), "")
	require.NoError(t, err)
	offer := fakes.StoredOffer("o-1", "S", "web", "pb-1", open, domain.OfferActive, fakes.T0, tenOff)

	policy, err := domain.NewPricingPolicy("pol-1", "Cost plus",
		domain.CostPlusMarginLogic{MarginPercent: decimal.RequireFromString("40")},
		domain.PolicyScope{Type: domain.ScopeAll}, "pb-1", fakes.T0)
	require.NoError(t, err)
	require.NoError(t, policy.Activate("ops", fakes.T0))
	policy.ClearEvents()

	pct := decimal.RequireFromString("20")
	bundle := domain.ReconstructBundle("bd-1", domain.BundleParams{
		Name:          "Duo",
		Logic:         domain.BundlePercentageOffSum,
		PercentageOff: &pct,
		Components:    []domain.BundleComponent{{ItemID: "A", Quantity: 2}, {ItemID: "B", Quantity: 1}},
	}, domain.BundleDraft, 1, fakes.T0, fakes.T0)

	// Infrastructure
	clk := clock.NewMockClock(fakes.T0.Add(time.Hour))
	comm := committer.NewRecorder()
	auditLog := &fakes.AuditLog{}
	outbox := &fakes.Outbox{}
	books := fakes.NewPriceBooks(live, draft)
	offers := fakes.NewOffers(offer)
	rules := fakes.NewDiscountRules()
	bundles := fakes.NewBundles(bundle)
	catalog := &fakes.Catalog{Items: []domain.SellableItem{{ID: "A", ProductName: "Widget", Active: true}}}
	costs := &fakes.Costs{Costs: map[string]*domain.Money{"A": domain.MustMoney("50")}}
	allocations := &fakes.Allocations{}

	// Use cases and queries
	handler := NewHandler(
		activate_price_book.NewInteractor(books, outbox, &fakes.Approvers{}, comm, auditLog, clk),
		archive_price_book.NewInteractor(books, outbox, comm, auditLog, clk),
		clone_price_book.NewInteractor(books, outbox, comm, clk),
		activate_offer.NewInteractor(offers, books, outbox, services.NewConstraintChecker(allocations), comm, auditLog, clk),
		change_offer_status.NewInteractor(offers, books, outbox, comm, auditLog, clk),
		expire_offers.NewInteractor(offers, outbox, comm, auditLog, clk, logger.Nop(), nil),
		execute_policy.NewInteractor(execute_policy.Deps{
			Policies:   fakes.NewPolicies(policy),
			Books:      books,
			Executions: &fakes.Executions{},
			Outbox:     outbox,
			Engine:     engine.New(engine.Sources{Catalog: catalog, Costs: costs, MarketPrices: &fakes.MarketPrices{}, Books: books}),
			Committer:  comm,
			Clock:      clk,
			Log:        logger.Nop(),
		}),
		change_bundle_status.NewInteractor(bundles, outbox, catalog, allocations, comm, auditLog, clk),
		update_discount_rule.NewInteractor(rules, offers, outbox, comm, auditLog, clk),
		resolve_offer.NewQuery(offers, clk, nil),
		resolve_price.NewQuery(offers, books, rules, nil),
		calculate_bundle_price.NewQuery(bundles, books),
		simulate_price.NewQuery(simulation.NewPipeline(simulation.Sources{
			Allocations:  allocations,
			MarketPrices: &fakes.MarketPrices{},
			Books:        books,
			Offers:       offers,
			Rules:        rules,
		}), nil),
	)

	// In-memory gRPC server
	lis := bufconn.Listen(bufSize)
	server := grpc.NewServer(ServerOptions(logger.Nop())...)
	RegisterPricingServiceServer(server, handler)
	go func() {
		if err := server.Serve(lis); err != nil {
			t.Logf("Server error: %v", err)
		}
	}()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		server.Stop()
	})
	return NewClient(conn)
}

func body(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func requireCode(t *testing.T, err error, want codes.Code) *status.Status {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, want, st.Code(), st.Message())
	return st
}

func TestGRPC_ResolvePrice(t *testing.T) {
	client := setupGRPCTest(t)
	ctx := context.Background()

	t.Run("percentage offer", func(t *testing.T) {
		out, err := client.Call(ctx, "ResolvePrice", body(t, map[string]any{"offer_id": "o-1"}))
		require.NoError(t, err)
		got := out.AsMap()
		assert.Equal(t, "100.00", got["base_price"])
		assert.Equal(t, "90.00", got["final_price"])
		assert.Equal(t, "10.00", got["discount"])
		assert.Equal(t, "10", got["discount_percent"])
	})

	t.Run("unknown offer", func(t *testing.T) {
		_, err := client.Call(ctx, "ResolvePrice", body(t, map[string]any{"offer_id": "nope"}))
		requireCode(t, err, codes.NotFound)
	})

	t.Run("missing offer id", func(t *testing.T) {
		_, err := client.Call(ctx, "ResolvePrice", body(t, map[string]any{}))
		st := requireCode(t, err, codes.InvalidArgument)
		assert.Contains(t, st.Message(), "offer_id is required")
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := client.Call(ctx, "ResolvePrice", body(t, map[string]any{"offer_id": "o-1", "quantity": -2}))
		requireCode(t, err, codes.InvalidArgument)
	})
}

func TestGRPC_ResolveOffer(t *testing.T) {
	client := setupGRPCTest(t)
	ctx := context.Background()

	t.Run("offer found", func(t *testing.T) {
		out, err := client.Call(ctx, "ResolveOffer", body(t, map[string]any{
			"item_id":    "S",
			"channel_id": "web",
			"at":         "2025-03-01T12:00:00Z",
		}))
		require.NoError(t, err)
		got := out.AsMap()
		assert.Equal(t, true, got["found"])
		offer := got["offer"].(map[string]any)
		assert.Equal(t, "o-1", offer["offer_id"])
		assert.Equal(t, "2025-03-01T09:00:00Z", offer["valid_from"])
	})

	t.Run("no offer", func(t *testing.T) {
		out, err := client.Call(ctx, "ResolveOffer", body(t, map[string]any{"item_id": "X", "channel_id": "web"}))
		require.NoError(t, err)
		got := out.AsMap()
		assert.Equal(t, false, got["found"])
		assert.NotContains(t, got, "offer")
	})

	t.Run("malformed instant", func(t *testing.T) {
		_, err := client.Call(ctx, "ResolveOffer", body(t, map[string]any{"item_id": "S", "channel_id": "web", "at": "yesterday"}))
		st := requireCode(t, err, codes.InvalidArgument)
		assert.Contains(t, st.Message(), "at must be an RFC3339 timestamp")
	})
}

func TestGRPC_ActivatePriceBook(t *testing.T) {
	client := setupGRPCTest(t)
	ctx := context.Background()

	t.Run("missing approver", func(t *testing.T) {
		_, err := client.Call(ctx, "ActivatePriceBook", body(t, map[string]any{"price_book_id": "pb-2"}))
		requireCode(t, err, codes.InvalidArgument)
	})

	t.Run("expires the overlapping book", func(t *testing.T) {
		out, err := client.Call(ctx, "ActivatePriceBook", body(t, map[string]any{
			"price_book_id": "pb-2",
			"approver":      "alice",
		}))
		require.NoError(t, err)
		got := out.AsMap()
		assert.Equal(t, "pb-2", got["price_book_id"])
		assert.Equal(t, []any{"pb-1"}, got["expired_price_book_ids"])
	})

	t.Run("second activation is a failed precondition", func(t *testing.T) {
		_, err := client.Call(ctx, "ActivatePriceBook", body(t, map[string]any{
			"price_book_id": "pb-2",
			"approver":      "alice",
		}))
		requireCode(t, err, codes.FailedPrecondition)
	})
}

func TestGRPC_ExecutePolicyDryRun(t *testing.T) {
	client := setupGRPCTest(t)

	out, err := client.Call(context.Background(), "ExecutePolicy", body(t, map[string]any{
		"policy_id": "pol-1",
		"dry_run":   true,
	}))
	require.NoError(t, err)
	got := out.AsMap()
	assert.Equal(t, "success", got["status"])
	assert.Equal(t, float64(1), got["prices_generated"])

	changes := got["changes"].([]any)
	require.Len(t, changes, 1)
	change := changes[0].(map[string]any)
	assert.Equal(t, "A", change["item_id"])
	assert.Equal(t, "30.00", change["old_price"])
	assert.Equal(t, "70.00", change["new_price"])
}

func TestGRPC_Bundles(t *testing.T) {
	client := setupGRPCTest(t)
	ctx := context.Background()

	t.Run("price against a book", func(t *testing.T) {
		out, err := client.Call(ctx, "CalculateBundlePrice", body(t, map[string]any{"bundle_id": "bd-1", "price_book_id": "pb-1"}))
		require.NoError(t, err)
		got := out.AsMap()
		assert.Equal(t, "110.00", got["components_total"])
		assert.Equal(t, "88.00", got["final_price"])
		assert.Len(t, got["lines"], 2)
	})

	t.Run("activation guards are reported verbatim", func(t *testing.T) {
		_, err := client.Call(ctx, "ChangeBundleStatus", body(t, map[string]any{"bundle_id": "bd-1", "action": "activate"}))
		st := requireCode(t, err, codes.FailedPrecondition)
		assert.Contains(t, st.Message(), "bundle component item has no active allocation: A")
		assert.Contains(t, st.Message(), "bundle component item is not active: B")
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := client.Call(ctx, "ChangeBundleStatus", body(t, map[string]any{"bundle_id": "bd-1", "action": "explode"}))
		requireCode(t, err, codes.InvalidArgument)
	})
}

func TestGRPC_UpdateDiscountRuleNeedsAChange(t *testing.T) {
	client := setupGRPCTest(t)

	_, err := client.Call(context.Background(), "UpdateDiscountRule", body(t, map[string]any{"rule_id": "r-1"}))
	requireCode(t, err, codes.InvalidArgument)
}

func TestGRPC_SimulatePriceWithoutAllocation(t *testing.T) {
	client := setupGRPCTest(t)

	out, err := client.Call(context.Background(), "SimulatePrice", body(t, map[string]any{
		"item_id":    "S",
		"channel_id": "web",
		"quantity":   1,
	}))
	require.NoError(t, err)
	got := out.AsMap()
	assert.Equal(t, false, got["actionable"])
	steps := got["steps"].([]any)
	require.NotEmpty(t, steps)
	first := steps[0].(map[string]any)
	assert.Equal(t, "allocation", first["name"])
	assert.Equal(t, "error", first["verdict"])
	assert.NotEmpty(t, got["errors"])
}

func TestGRPC_RequestIDIsEchoed(t *testing.T) {
	client := setupGRPCTest(t)

	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-request-id", "req-42")
	var header metadata.MD
	_, err := client.Call(ctx, "ResolvePrice", body(t, map[string]any{"offer_id": "o-1"}), grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{"req-42"}, header.Get("x-request-id"))
}

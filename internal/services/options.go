package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/audit"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	domainservices "github.com/light-bringer/pricing-engine/internal/app/pricing/domain/services"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/engine"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/jobs"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/queries/calculate_bundle_price"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/queries/resolve_offer"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/queries/resolve_price"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/queries/simulate_price"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/repo"
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
	"github.com/light-bringer/pricing-engine/internal/pkg/config"
	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
	"github.com/light-bringer/pricing-engine/internal/pkg/metrics"
	"github.com/light-bringer/pricing-engine/internal/pkg/scheduler"
	"github.com/light-bringer/pricing-engine/internal/transport/grpc/pricing"
	httptransport "github.com/light-bringer/pricing-engine/internal/transport/http"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient  *spanner.Client
	PricingHandler *pricing.Handler
	EventsHandler  *httptransport.EventsHandler
	Metrics        *metrics.PricingMetrics

	cfg           *config.Config
	log           *logger.Logger
	clock         clock.Clock
	committer     committer.Applier
	policyRepo    contracts.PolicyRepository
	outboxRepo    contracts.OutboxRepository
	expireOffers  *expire_offers.Interactor
	executePolicy *execute_policy.Interactor
}

// NewServiceOptions creates and wires up all application dependencies.
// Metrics are registered with reg; a nil reg disables them.
func NewServiceOptions(ctx context.Context, cfg *config.Config, log *logger.Logger, reg prometheus.Registerer) (*ServiceOptions, error) {
	// 1. Initialize Spanner client
	spannerClient, err := spanner.NewClient(ctx, cfg.Spanner.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	// 2. Create infrastructure components
	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)
	var pricingMetrics *metrics.PricingMetrics
	if reg != nil {
		pricingMetrics = metrics.NewPricingMetrics(reg)
	}

	// 3. Create repositories and external readers
	bookRepo := repo.NewPriceBookRepo(spannerClient)
	offerRepo := repo.NewOfferRepo(spannerClient)
	ruleRepo := repo.NewDiscountRuleRepo(spannerClient)
	policyRepo := repo.NewPolicyRepo(spannerClient)
	executionRepo := repo.NewExecutionRepo(spannerClient)
	bundleRepo := repo.NewBundleRepo(spannerClient)
	outboxRepo := repo.NewOutboxRepo(spannerClient)
	external := repo.NewExternalReader(spannerClient, clk)

	// 4. Create domain capabilities
	auditSink := newAuditSink(cfg, outboxRepo, comm, log)
	approvers := newApproverAuthority(cfg)
	checker := domainservices.NewConstraintChecker(external)
	pricingEngine := engine.New(engine.Sources{
		Catalog:      external,
		Costs:        external,
		MarketPrices: external,
		Books:        bookRepo,
	})
	pipeline := simulation.NewPipeline(simulation.Sources{
		Allocations:  external,
		MarketPrices: external,
		Books:        bookRepo,
		Offers:       offerRepo,
		Rules:        ruleRepo,
	}, simulation.WithMarketPriceMaxAge(cfg.Simulation.MarketPriceMaxAge))

	// 5. Create command use cases (write operations)
	activatePriceBookUseCase := activate_price_book.NewInteractor(bookRepo, outboxRepo, approvers, comm, auditSink, clk)
	archivePriceBookUseCase := archive_price_book.NewInteractor(bookRepo, outboxRepo, comm, auditSink, clk)
	clonePriceBookUseCase := clone_price_book.NewInteractor(bookRepo, outboxRepo, comm, clk)
	activateOfferUseCase := activate_offer.NewInteractor(offerRepo, bookRepo, outboxRepo, checker, comm, auditSink, clk)
	changeOfferStatusUseCase := change_offer_status.NewInteractor(offerRepo, bookRepo, outboxRepo, comm, auditSink, clk)
	expireOffersUseCase := expire_offers.NewInteractor(offerRepo, outboxRepo, comm, auditSink, clk, log, pricingMetrics)
	executePolicyUseCase := execute_policy.NewInteractor(execute_policy.Deps{
		Policies:   policyRepo,
		Books:      bookRepo,
		Executions: executionRepo,
		Outbox:     outboxRepo,
		Engine:     pricingEngine,
		Committer:  comm,
		Clock:      clk,
		Log:        log,
		Metrics:    pricingMetrics,
	})
	changeBundleStatusUseCase := change_bundle_status.NewInteractor(bundleRepo, outboxRepo, external, external, comm, auditSink, clk)
	updateDiscountRuleUseCase := update_discount_rule.NewInteractor(ruleRepo, offerRepo, outboxRepo, comm, auditSink, clk)

	// 6. Create query use cases (read operations)
	resolveOfferQuery := resolve_offer.NewQuery(offerRepo, clk, pricingMetrics)
	resolvePriceQuery := resolve_price.NewQuery(offerRepo, bookRepo, ruleRepo, pricingMetrics)
	calculateBundlePriceQuery := calculate_bundle_price.NewQuery(bundleRepo, bookRepo)
	simulatePriceQuery := simulate_price.NewQuery(pipeline, pricingMetrics)
	listEventsQuery := list_events.NewQuery(repo.NewEventsReadModel(spannerClient))

	// 7. Create transport handlers
	pricingHandler := pricing.NewHandler(
		activatePriceBookUseCase,
		archivePriceBookUseCase,
		clonePriceBookUseCase,
		activateOfferUseCase,
		changeOfferStatusUseCase,
		expireOffersUseCase,
		executePolicyUseCase,
		changeBundleStatusUseCase,
		updateDiscountRuleUseCase,
		resolveOfferQuery,
		resolvePriceQuery,
		calculateBundlePriceQuery,
		simulatePriceQuery,
	)
	eventsHandler := httptransport.NewEventsHandler(listEventsQuery, log)

	return &ServiceOptions{
		SpannerClient:  spannerClient,
		PricingHandler: pricingHandler,
		EventsHandler:  eventsHandler,
		Metrics:        pricingMetrics,
		cfg:            cfg,
		log:            log,
		clock:          clk,
		committer:      comm,
		policyRepo:     policyRepo,
		outboxRepo:     outboxRepo,
		expireOffers:   expireOffersUseCase,
		executePolicy:  executePolicyUseCase,
	}, nil
}

// SchedulerJobs returns the periodic jobs run by cmd/scheduler.
func (s *ServiceOptions) SchedulerJobs() []scheduler.Job {
	return []scheduler.Job{
		jobs.NewExpireOffersJob(s.expireOffers, s.log),
		jobs.NewScheduledPoliciesJob(s.policyRepo, s.executePolicy, s.clock, s.cfg.Scheduler.PolicyInterval, s.log),
		jobs.NewOutboxRetentionJob(s.outboxRepo, s.committer, s.clock, s.cfg.Outbox.Retention, s.cfg.Outbox.BatchSize),
	}
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}

func newAuditSink(cfg *config.Config, outboxRepo contracts.OutboxRepository, comm committer.Applier, log *logger.Logger) contracts.AuditSink {
	if cfg.Pricing.AuditSink == config.AuditSinkOutbox {
		return audit.Multi{audit.NewLogSink(log), audit.NewOutboxSink(outboxRepo, comm, log)}
	}
	return audit.NewLogSink(log)
}

func newApproverAuthority(cfg *config.Config) contracts.ApproverAuthority {
	if len(cfg.Pricing.Approvers) == 0 {
		return domainservices.AnyApprover{}
	}
	return domainservices.NewListApprover(cfg.Pricing.Approvers)
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/light-bringer/pricing-engine/internal/pkg/config"
	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
	"github.com/light-bringer/pricing-engine/internal/pkg/metrics"
	"github.com/light-bringer/pricing-engine/internal/pkg/scheduler"
	"github.com/light-bringer/pricing-engine/internal/services"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "pricing-scheduler"})

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: cfg.App.ServiceName + "-scheduler",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serviceOpts, err := services.NewServiceOptions(ctx, cfg, logg, prometheus.DefaultRegisterer)
	if err != nil {
		logg.Error(ctx, "failed to initialize services", err)
		os.Exit(1)
	}
	defer serviceOpts.Close()

	lock, closeLock, err := newLock(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to create scheduler lock", err)
		os.Exit(1)
	}
	defer closeLock()

	service, err := scheduler.NewService(scheduler.ServiceParams{
		Logger:   logg,
		Registry: scheduler.NewRegistry(serviceOpts.SchedulerJobs()...),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Scheduler.Interval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create scheduler service", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Scheduler.Interval.String(),
		"locking":  cfg.Redis.Enabled(),
	})
	logg.Info(ctx, "starting pricing scheduler")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "scheduler stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "pricing scheduler stopped")
}

// newLock returns a Redis lock when an address is configured so only one
// replica runs each cycle; otherwise every replica runs unguarded.
func newLock(ctx context.Context, cfg *config.Config, logg *logger.Logger) (scheduler.Lock, func(), error) {
	if !cfg.Redis.Enabled() {
		logg.Warn(ctx, "redis not configured, scheduler runs without a distributed lock")
		return scheduler.NoopLock{}, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Address,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	lock, err := scheduler.NewRedisLock(scheduler.NewRedisStore(client), cfg.Scheduler.LockKey, cfg.Scheduler.LockTTL)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return lock, func() { _ = client.Close() }, nil
}

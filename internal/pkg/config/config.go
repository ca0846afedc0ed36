// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every variable read by Load.
const EnvPrefix = "PRICING"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	AuditSinkLog    = "log"
	AuditSinkOutbox = "outbox"
)

type Config struct {
	App        AppConfig
	Spanner    SpannerConfig
	Server     ServerConfig
	Redis      RedisConfig
	Scheduler  SchedulerConfig
	Simulation SimulationConfig
	Outbox     OutboxConfig
	Pricing    PricingConfig
}

// Load reads a local .env file when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values envconfig cannot check on its own.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Spanner.Database, "projects/") {
		return fmt.Errorf("config: PRICING_SPANNER_DATABASE must be a full database path, got %q", c.Spanner.Database)
	}
	if c.Server.GRPCPort == "" || c.Server.HTTPPort == "" {
		return fmt.Errorf("config: PRICING_GRPC_PORT and PRICING_HTTP_PORT are required")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("config: PRICING_SCHEDULER_INTERVAL must be positive")
	}
	switch c.Pricing.AuditSink {
	case AuditSinkLog, AuditSinkOutbox:
	default:
		return fmt.Errorf("config: PRICING_AUDIT_SINK must be %q or %q, got %q", AuditSinkLog, AuditSinkOutbox, c.Pricing.AuditSink)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"PRICING_APP_ENV" default:"dev"`
	ServiceName  string `envconfig:"PRICING_SERVICE_NAME" default:"pricing-engine"`
	LogLevel     string `envconfig:"PRICING_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"PRICING_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"PRICING_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type SpannerConfig struct {
	Database string `envconfig:"PRICING_SPANNER_DATABASE" default:"projects/test-project/instances/dev-instance/databases/pricing-db"`
}

type ServerConfig struct {
	GRPCPort   string `envconfig:"PRICING_GRPC_PORT" default:"9090"`
	HTTPPort   string `envconfig:"PRICING_HTTP_PORT" default:"8080"`
	Reflection bool   `envconfig:"PRICING_GRPC_REFLECTION" default:"true"`
}

type RedisConfig struct {
	// Address empty disables the distributed scheduler lock.
	Address     string        `envconfig:"PRICING_REDIS_ADDR"`
	Password    string        `envconfig:"PRICING_REDIS_PASSWORD"`
	DB          int           `envconfig:"PRICING_REDIS_DB" default:"0"`
	DialTimeout time.Duration `envconfig:"PRICING_REDIS_DIAL_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type SchedulerConfig struct {
	Interval time.Duration `envconfig:"PRICING_SCHEDULER_INTERVAL" default:"1m"`
	LockKey  string        `envconfig:"PRICING_SCHEDULER_LOCK_KEY" default:"pricing:scheduler:lock"`
	LockTTL  time.Duration `envconfig:"PRICING_SCHEDULER_LOCK_TTL" default:"2m"`
	// PolicyInterval is the minimum time between scheduled runs of one policy.
	PolicyInterval time.Duration `envconfig:"PRICING_SCHEDULER_POLICY_INTERVAL" default:"24h"`
}

type SimulationConfig struct {
	// MarketPriceMaxAge marks market-price references older than this as stale.
	MarketPriceMaxAge time.Duration `envconfig:"PRICING_MARKET_PRICE_MAX_AGE" default:"168h"`
}

type OutboxConfig struct {
	Retention time.Duration `envconfig:"PRICING_OUTBOX_RETENTION" default:"720h"`
	BatchSize int           `envconfig:"PRICING_OUTBOX_DELETE_BATCH_SIZE" default:"500"`
}

type PricingConfig struct {
	// Approvers empty lets any non-empty actor approve price books.
	Approvers []string `envconfig:"PRICING_APPROVERS"`
	AuditSink string   `envconfig:"PRICING_AUDIT_SINK" default:"log"`
}

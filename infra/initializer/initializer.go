package initializer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/payauth/infra"
	infra_cache "github.com/amirasaad/payauth/infra/cache"
	"github.com/amirasaad/payauth/infra/compliance"
	infra_eventbus "github.com/amirasaad/payauth/infra/eventbus"
	infra_provider "github.com/amirasaad/payauth/infra/provider"
	infra_repository "github.com/amirasaad/payauth/infra/repository"
	"github.com/amirasaad/payauth/infra/repository/memory"
	"github.com/amirasaad/payauth/infra/settlement"
	"github.com/amirasaad/payauth/pkg/app"
	"github.com/amirasaad/payauth/pkg/cache"
	"github.com/amirasaad/payauth/pkg/config"
	"github.com/amirasaad/payauth/pkg/domain/events"
	"github.com/amirasaad/payauth/pkg/eventbus"
	"github.com/amirasaad/payauth/pkg/fees"
	"github.com/amirasaad/payauth/pkg/provider"
	"github.com/amirasaad/payauth/pkg/repository"
	"github.com/amirasaad/payauth/pkg/retry"
	paymentsvc "github.com/amirasaad/payauth/pkg/service/payment"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Event bus drivers accepted in EVENT_BUS_DRIVER.
const (
	DriverMemory      = "memory"
	DriverMemoryAsync = "memory-async"
	DriverRedis       = "redis"
	DriverKafka       = "kafka"
)

const auditGroup = "payauth-audit"

// InitializeDependencies initializes all the application dependencies. The
// returned Deps must be closed by the caller.
func InitializeDependencies(cfg *config.App) (deps *app.Deps, err error) {
	logger := setupLogger(cfg.Log)
	return build(context.Background(), cfg, logger)
}

func build(ctx context.Context, cfg *config.App, logger *slog.Logger) (deps *app.Deps, err error) {
	deps = &app.Deps{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			_ = deps.Close()
			deps = nil
		}
	}()

	var rdb *redis.Client
	if cfg.Redis != nil && cfg.Redis.URL != "" {
		rdb, err = newRedisClient(cfg.Redis)
		if err != nil {
			return deps, fmt.Errorf("failed to create Redis client: %w", err)
		}
		deps.OnClose(rdb.Close)
	}

	uow, err := newUnitOfWork(cfg, deps, logger)
	if err != nil {
		return deps, err
	}
	store := settlement.New(uow, logger)
	deps.Accounts = store
	if cfg.DB != nil {
		if err = seedAccounts(ctx, store, cfg.DB.Seed, logger); err != nil {
			return deps, err
		}
	}

	rates, err := newRateProvider(cfg, rdb, deps, logger)
	if err != nil {
		return deps, err
	}

	deps.Fees, err = newFeeRegistry(cfg.Fee)
	if err != nil {
		return deps, err
	}
	defaultFee, err := deps.Fees.Resolve("")
	if err != nil {
		return deps, err
	}

	deps.EventBus, err = newEventBus(cfg, rdb, deps, logger)
	if err != nil {
		return deps, err
	}
	registerAuditHandlers(deps.EventBus, logger)

	var blocked []string
	approve, threshold := true, paymentsvc.DefaultComplianceThreshold
	if cfg.Compliance != nil {
		blocked, approve = cfg.Compliance.BlockedAccounts, cfg.Compliance.Approve
		threshold = decimal.NewFromFloat(cfg.Compliance.Threshold)
	}

	deps.Authorizer, err = paymentsvc.New(
		paymentsvc.Deps{
			Rates:      rates,
			Settlement: store,
			Compliance: compliance.NewRules(blocked, approve, logger),
			Accounts:   store,
			Bus:        deps.EventBus,
			DefaultFee: defaultFee,
			Logger:     logger,
		},
		paymentsvc.Config{
			ComplianceThreshold: threshold,
			Retry:               retryPolicy(cfg.Retry),
		},
	)
	if err != nil {
		return deps, err
	}

	logger.Info("Dependencies initialized",
		"rates", rates.Name(),
		"event_bus", eventBusDriver(cfg),
		"fee_strategies", deps.Fees.Names(),
	)
	return deps, nil
}

func newRedisClient(cfg *config.Redis) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return redis.NewClient(opts), nil
}

// newUnitOfWork uses PostgreSQL when a database URL is configured and the
// in-memory store otherwise.
func newUnitOfWork(cfg *config.App, deps *app.Deps, logger *slog.Logger) (repository.UnitOfWork, error) {
	if cfg.DB == nil || cfg.DB.Url == "" {
		logger.Info("No database configured; using in-memory account store")
		return memory.NewUoW(), nil
	}
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	deps.OnClose(sqlDB.Close)
	return infra_repository.NewUoW(db), nil
}

func newRateProvider(cfg *config.App, rdb *redis.Client, deps *app.Deps, logger *slog.Logger) (provider.ExchangeRate, error) {
	rc := cfg.ExchangeRate
	if rc == nil {
		rc = &config.ExchangeRate{}
	}

	var upstream provider.ExchangeRate
	if rc.ApiUrl != "" {
		upstream = infra_provider.NewExchangeRateAPI(rc.ApiUrl, rc.ApiKey, rc.HTTPTimeout, logger)
	} else {
		fixed, err := infra_provider.NewFixedRates(rc.Fixed)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixed exchange rates: %w", err)
		}
		upstream = fixed
	}
	if rc.CacheTTL <= 0 {
		return upstream, nil
	}

	var rateCache cache.RateCache
	if rdb != nil {
		prefix := rc.CachePrefix
		if cfg.Redis.KeyPrefix != "" {
			prefix = cfg.Redis.KeyPrefix + prefix
		}
		rateCache = infra_cache.NewRedisCache(rdb, prefix, logger)
	} else {
		mc := infra_cache.NewMemoryCache(time.Minute)
		deps.OnClose(mc.Close)
		rateCache = mc
	}
	return infra_provider.NewCachedRates(upstream, rateCache, rc.CacheTTL, logger), nil
}

// newFeeRegistry registers the configurable strategies and selects the
// default one.
func newFeeRegistry(cfg *config.Fee) (*fees.Registry, error) {
	reg := fees.NewRegistry()
	if cfg == nil {
		return reg, nil
	}
	flat, err := fees.NewFlat(decimal.NewFromFloat(cfg.FlatAmount))
	if err != nil {
		return nil, fmt.Errorf("flat fee: %w", err)
	}
	reg.Register(fees.StrategyFlat, flat)

	pct, err := fees.NewPercentage(
		decimal.NewFromFloat(cfg.Percentage),
		decimal.NewFromFloat(cfg.Min),
		decimal.NewFromFloat(cfg.Max),
	)
	if err != nil {
		return nil, fmt.Errorf("percentage fee: %w", err)
	}
	reg.Register(fees.StrategyPercentage, pct)

	if cfg.Default != "" {
		if err := reg.SetDefault(cfg.Default); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func retryPolicy(cfg *config.Retry) retry.Policy {
	p := retry.DefaultPolicy()
	if cfg == nil {
		return p
	}
	p.MaxRetries = cfg.MaxRetries
	if cfg.Backoff > 0 {
		p.Backoff = retry.Exponential(cfg.Backoff, cfg.MaxBackoff)
	}
	return p
}

func eventBusDriver(cfg *config.App) string {
	if cfg.EventBus == nil || cfg.EventBus.Driver == "" {
		return DriverMemory
	}
	return strings.ToLower(cfg.EventBus.Driver)
}

func newEventBus(cfg *config.App, rdb *redis.Client, deps *app.Deps, logger *slog.Logger) (eventbus.Bus, error) {
	switch driver := eventBusDriver(cfg); driver {
	case DriverMemory:
		return infra_eventbus.NewWithMemory(logger), nil
	case DriverMemoryAsync:
		bus := infra_eventbus.NewWithMemoryAsync(0, logger)
		deps.OnClose(bus.Close)
		return bus, nil
	case DriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("event bus driver %q requires REDIS_URL", driver)
		}
		bus, err := infra_eventbus.NewWithRedis(rdb, cfg.EventBus.Stream, auditGroup, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis event bus: %w", err)
		}
		deps.OnClose(bus.Close)
		return bus, nil
	case DriverKafka:
		if cfg.Kafka == nil {
			return nil, fmt.Errorf("event bus driver %q requires KAFKA_BROKERS", driver)
		}
		bus, err := infra_eventbus.NewWithKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, auditGroup, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
		}
		deps.OnClose(bus.Close)
		return bus, nil
	default:
		return nil, fmt.Errorf("unknown event bus driver %q", driver)
	}
}

// registerAuditHandlers logs every payment decision that crosses the bus.
func registerAuditHandlers(bus eventbus.Bus, logger *slog.Logger) {
	audit := logger.With("component", "audit")
	bus.Register(events.PaymentSucceededType, func(_ context.Context, e events.Event) error {
		if ev, ok := e.(events.PaymentSucceeded); ok {
			audit.Info("payment succeeded",
				"sender", ev.SenderID,
				"receiver", ev.ReceiverID,
				"amount", ev.Amount,
				"transferred", ev.TransferredAmount,
				"fee", ev.Fee,
			)
		}
		return nil
	})
	bus.Register(events.PaymentDeclinedType, func(_ context.Context, e events.Event) error {
		if ev, ok := e.(events.PaymentDeclined); ok {
			audit.Info("payment declined",
				"sender", ev.SenderID,
				"receiver", ev.ReceiverID,
				"amount", ev.Amount,
				"reason", ev.Reason,
			)
		}
		return nil
	})
}

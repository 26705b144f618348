package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/payauth/pkg/cache"
	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/amirasaad/payauth/pkg/provider"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// CachedRates decorates a provider with a rate cache. Concurrent misses for
// the same pair share one upstream call.
type CachedRates struct {
	next   provider.ExchangeRate
	cache  cache.RateCache
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewCachedRates creates a caching decorator around next.
func NewCachedRates(next provider.ExchangeRate, c cache.RateCache, ttl time.Duration, logger *slog.Logger) *CachedRates {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRates{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger.With("provider", "cached", "upstream", next.Name()),
	}
}

func (c *CachedRates) Rate(ctx context.Context, from, to currency.Code) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	key := fmt.Sprintf("%s:%s", from, to)

	if rate, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("Error getting from cache", "key", key, "error", err)
	} else if ok {
		return rate, nil
	}

	// The flight runs detached from every caller; each caller waits on its own
	// ctx. ExchangeRateAPI bounds the upstream call with its HTTP timeout.
	flight := c.group.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		rate, err := c.next.Rate(fctx, from, to)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(fctx, key, rate, c.ttl); err != nil {
			c.logger.Warn("Error setting cache", "key", key, "error", err)
		}
		return rate, nil
	})
	select {
	case <-ctx.Done():
		return decimal.Decimal{}, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return decimal.Decimal{}, res.Err
		}
		c.logger.Debug("Cache miss resolved", "key", key, "shared", res.Shared)
		return res.Val.(decimal.Decimal), nil
	}
}

func (c *CachedRates) Name() string {
	return c.next.Name()
}

var _ provider.ExchangeRate = (*CachedRates)(nil)

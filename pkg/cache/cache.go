package cache

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateCache stores exchange rates by key for a limited time. A miss is
// reported with ok=false and a nil error.
type RateCache interface {
	Get(ctx context.Context, key string) (rate decimal.Decimal, ok bool, err error)
	Set(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

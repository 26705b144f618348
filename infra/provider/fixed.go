package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/amirasaad/payauth/pkg/provider"
	"github.com/shopspring/decimal"
)

type pair struct {
	from, to currency.Code
}

// FixedRates serves a static rate table. A missing pair is derived from its
// inverse when that is present.
type FixedRates struct {
	rates map[pair]decimal.Decimal
}

// NewFixedRates parses "FROM_TO" keys with decimal values, e.g. "EUR_USD": "1.08".
func NewFixedRates(table map[string]string) (*FixedRates, error) {
	rates := make(map[pair]decimal.Decimal, len(table))
	for key, value := range table {
		from, to, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(key)), "_")
		if !ok {
			return nil, fmt.Errorf("fixed rates: key %q is not FROM_TO", key)
		}
		p := pair{currency.Code(from), currency.Code(to)}
		if err := currency.Validate(p.from); err != nil {
			return nil, fmt.Errorf("fixed rates: %q: %w", key, err)
		}
		if err := currency.Validate(p.to); err != nil {
			return nil, fmt.Errorf("fixed rates: %q: %w", key, err)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("fixed rates: %q: %w", key, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("fixed rates: %q: %w", key, provider.ErrInvalidRate)
		}
		rates[p] = rate
	}
	return &FixedRates{rates: rates}, nil
}

func (f *FixedRates) Rate(_ context.Context, from, to currency.Code) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := f.rates[pair{from, to}]; ok {
		return rate, nil
	}
	if inverse, ok := f.rates[pair{to, from}]; ok {
		return decimal.NewFromInt(1).DivRound(inverse, 8), nil
	}
	return decimal.Decimal{}, fmt.Errorf("%w: %s->%s", provider.ErrExchangeRateUnavailable, from, to)
}

func (f *FixedRates) Name() string {
	return "fixed"
}

var _ provider.ExchangeRate = (*FixedRates)(nil)

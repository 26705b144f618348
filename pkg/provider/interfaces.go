// Package provider declares the ports the payment authorizer reaches its
// collaborators through: exchange rates, settlement, compliance and account
// lookup. Implementations live under infra/.
package provider

import (
	"context"
	"errors"

	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/shopspring/decimal"
)

var (
	// ErrExchangeRateUnavailable is returned when no rate can be obtained for a pair.
	ErrExchangeRateUnavailable = errors.New("exchange rate unavailable")
	// ErrInvalidRate is returned when a provider yields a non-positive rate.
	ErrInvalidRate = errors.New("exchange rate must be positive")
)

// ExchangeRate returns the rate converting one unit of from into to.
// Implementations must return exactly 1 when from == to.
type ExchangeRate interface {
	Rate(ctx context.Context, from, to currency.Code) (decimal.Decimal, error)
	// Name returns the provider's name for logging and identification.
	Name() string
}

// Transfer is a settlement request. Amount and Fee are in the sender's
// currency; Rate converts Amount into the receiver's currency.
type Transfer struct {
	SenderID   string
	ReceiverID string
	Amount     decimal.Decimal
	Fee        decimal.Decimal
	Rate       decimal.Decimal
	Notes      string
}

// Debit is the total taken from the sender.
func (t Transfer) Debit() decimal.Decimal {
	return t.Amount.Add(t.Fee)
}

// Credit is the amount added to the receiver, in the receiver's currency.
func (t Transfer) Credit() decimal.Decimal {
	return t.Amount.Mul(t.Rate)
}

// Settlement moves funds between two accounts atomically. Commit either applies
// the whole transfer or nothing; a returned error means no balance changed.
type Settlement interface {
	Commit(ctx context.Context, t Transfer) error
}

// Compliance performs out-of-band checks on the sender. true lets the
// transaction proceed.
type Compliance interface {
	Verify(ctx context.Context, acc *account.Account) (bool, error)
}

// AccountSource loads a fresh account snapshot. The authorizer uses it to
// re-read balances before retrying a failed settlement.
type AccountSource interface {
	Get(ctx context.Context, id string) (*account.Account, error)
}

package account

import (
	"errors"
	"time"

	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds is returned when a debit would leave a negative balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNegativeBalance is returned when an account is built with a negative balance.
	ErrNegativeBalance = errors.New("balance must not be negative")

	// ErrNilAccount is returned when a nil account is provided to an operation.
	ErrNilAccount = errors.New("nil account")

	// ErrCannotTransferToSameAccount is returned when sender and receiver are the same account.
	ErrCannotTransferToSameAccount = errors.New("cannot transfer to same account")

	// ErrIDRequired is returned when an account is built without an identifier.
	ErrIDRequired = errors.New("account id is required")

	// ErrAccountExists is returned when creating an account whose id is taken.
	ErrAccountExists = errors.New("account already exists")
)

// Account is a snapshot of a funds-holding account.
//
// Invariants:
//   - ID is non-empty and unique within the account store.
//   - Balance is never negative after a committed transfer.
//   - Balance is only changed by settlement; the authorizer reads snapshots.
type Account struct {
	ID               string
	Balance          decimal.Decimal
	Currency         currency.Code
	InstantTransfers bool
	UpdatedAt        time.Time
	CreatedAt        time.Time
}

// SupportsInstant reports whether the account accepts instant transfers.
func (a *Account) SupportsInstant() bool {
	return a != nil && a.InstantTransfers
}

// SameCurrency reports whether both accounts hold the same currency.
func (a *Account) SameCurrency(other *Account) bool {
	return a.Currency == other.Currency
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id        string
	balance   decimal.Decimal
	currency  currency.Code
	instant   bool
	updatedAt time.Time
	createdAt time.Time
}

// New creates a new Builder with the default currency and a zero balance.
func New() *Builder {
	return &Builder{
		currency:  currency.DefaultCurrency,
		balance:   decimal.Zero,
		createdAt: time.Now(),
	}
}

// WithID sets the ID for the account being built. This is a mandatory field.
func (b *Builder) WithID(id string) *Builder {
	b.id = id
	return b
}

// WithCurrency sets the currency for the account being built.
func (b *Builder) WithCurrency(code currency.Code) *Builder {
	b.currency = code
	return b
}

// WithBalance sets the balance. Used when hydrating from a store or in tests.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithInstantTransfers marks the account as able to receive instant transfers.
func (b *Builder) WithInstantTransfers(enabled bool) *Builder {
	b.instant = enabled
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates the invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if b.id == "" {
		return nil, ErrIDRequired
	}
	if err := currency.Validate(b.currency); err != nil {
		return nil, err
	}
	if b.balance.IsNegative() {
		return nil, ErrNegativeBalance
	}
	return &Account{
		ID:               b.id,
		Balance:          b.balance,
		Currency:         b.currency,
		InstantTransfers: b.instant,
		CreatedAt:        b.createdAt,
		UpdatedAt:        b.updatedAt,
	}, nil
}

// ValidatePair checks the structural preconditions of a transfer between two accounts.
func ValidatePair(sender, receiver *Account) error {
	if sender == nil || receiver == nil {
		return ErrNilAccount
	}
	if sender.ID == receiver.ID {
		return ErrCannotTransferToSameAccount
	}
	return nil
}

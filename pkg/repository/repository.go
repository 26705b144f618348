package repository

import (
	"context"

	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/amirasaad/payauth/pkg/dto"
	"github.com/shopspring/decimal"
)

// AccountRepository defines data access for accounts. Lookups of unknown ids
// return account.ErrAccountNotFound.
type AccountRepository interface {
	Get(ctx context.Context, id string) (*account.Account, error)
	// GetForUpdate loads the account and locks it until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id string) (*account.Account, error)
	Create(ctx context.Context, acc *account.Account) error
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error
}

// TransactionRepository records settled transfers.
type TransactionRepository interface {
	Create(ctx context.Context, create dto.TransactionCreate) error
	// ListByAccount returns transactions where the account is sender or
	// receiver, newest first.
	ListByAccount(ctx context.Context, accountID string) ([]*dto.TransactionRead, error)
}

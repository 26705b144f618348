// Package memory implements the repository contracts on in-process maps. Do
// serializes transactions behind one lock and works on a copy of the data,
// which replaces the committed state only when fn succeeds.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/amirasaad/payauth/pkg/dto"
	"github.com/amirasaad/payauth/pkg/repository"
	"github.com/shopspring/decimal"
)

type state struct {
	accounts     map[string]account.Account
	transactions []dto.TransactionRead
}

func (s *state) clone() *state {
	c := &state{
		accounts:     make(map[string]account.Account, len(s.accounts)),
		transactions: make([]dto.TransactionRead, len(s.transactions)),
	}
	for id, acc := range s.accounts {
		c.accounts[id] = acc
	}
	copy(c.transactions, s.transactions)
	return c
}

type store struct {
	mu   sync.RWMutex
	data *state
}

// UoW is an in-memory repository.UnitOfWork.
type UoW struct {
	store *store
	tx    *state
}

// NewUoW creates an empty in-memory unit of work.
func NewUoW() *UoW {
	return &UoW{store: &store{data: &state{accounts: map[string]account.Account{}}}}
}

// Do runs fn against a private copy of the data and publishes the copy if fn
// returns nil. Nested calls join the open transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	working := u.store.data.clone()
	if err := fn(&UoW{store: u.store, tx: working}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.data = working
	return nil
}

func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case repository.AccountRepositoryType:
		return &accountRepository{uow: u}, nil
	case repository.TransactionRepositoryType:
		return &transactionRepository{uow: u}, nil
	default:
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
}

func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepository{uow: u}, nil
}

func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepository{uow: u}, nil
}

// view runs fn on the transaction copy, or on the committed state under the
// store lock outside a transaction.
func (u *UoW) view(write bool, fn func(*state) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}
	if write {
		u.store.mu.Lock()
		defer u.store.mu.Unlock()
	} else {
		u.store.mu.RLock()
		defer u.store.mu.RUnlock()
	}
	return fn(u.store.data)
}

type accountRepository struct {
	uow *UoW
}

func (r *accountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	var out *account.Account
	err := r.uow.view(false, func(s *state) error {
		acc, ok := s.accounts[id]
		if !ok {
			return account.ErrAccountNotFound
		}
		out = &acc
		return nil
	})
	return out, err
}

// GetForUpdate is Get: inside Do the whole store is already held.
func (r *accountRepository) GetForUpdate(ctx context.Context, id string) (*account.Account, error) {
	return r.Get(ctx, id)
}

func (r *accountRepository) Create(ctx context.Context, acc *account.Account) error {
	if acc == nil {
		return account.ErrNilAccount
	}
	return r.uow.view(true, func(s *state) error {
		if _, ok := s.accounts[acc.ID]; ok {
			return account.ErrAccountExists
		}
		s.accounts[acc.ID] = *acc
		return nil
	})
}

func (r *accountRepository) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	if balance.IsNegative() {
		return account.ErrNegativeBalance
	}
	return r.uow.view(true, func(s *state) error {
		acc, ok := s.accounts[id]
		if !ok {
			return account.ErrAccountNotFound
		}
		acc.Balance = balance
		acc.UpdatedAt = time.Now().UTC()
		s.accounts[id] = acc
		return nil
	})
}

type transactionRepository struct {
	uow *UoW
}

func (r *transactionRepository) Create(ctx context.Context, create dto.TransactionCreate) error {
	return r.uow.view(true, func(s *state) error {
		s.transactions = append(s.transactions, dto.TransactionRead{
			ID:               create.ID,
			SenderID:         create.SenderID,
			ReceiverID:       create.ReceiverID,
			Amount:           create.Amount,
			Fee:              create.Fee,
			Credited:         create.Credited,
			Rate:             create.Rate,
			SenderCurrency:   create.SenderCurrency,
			ReceiverCurrency: create.ReceiverCurrency,
			Notes:            create.Notes,
			CreatedAt:        time.Now().UTC(),
		})
		return nil
	})
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID string) ([]*dto.TransactionRead, error) {
	var out []*dto.TransactionRead
	err := r.uow.view(false, func(s *state) error {
		// Stored in commit order.
		for i := len(s.transactions) - 1; i >= 0; i-- {
			tx := s.transactions[i]
			if tx.SenderID == accountID || tx.ReceiverID == accountID {
				out = append(out, &tx)
			}
		}
		return nil
	})
	return out, err
}

var _ repository.UnitOfWork = (*UoW)(nil)

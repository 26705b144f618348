package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/amirasaad/payauth/pkg/dto"
	"github.com/amirasaad/payauth/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, uow *UoW, id string, balance int64) {
	t.Helper()
	acc, err := account.New().WithID(id).WithCurrency(currency.USD).WithBalance(decimal.NewFromInt(balance)).Build()
	require.NoError(t, err)
	repo, err := uow.AccountRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), acc))
}

func TestAccountRepository(t *testing.T) {
	uow := NewUoW()
	seed(t, uow, "a", 10)
	repo, err := uow.AccountRepository()
	require.NoError(t, err)
	ctx := context.Background()

	acc, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(10)))

	acc.Balance = decimal.NewFromInt(999)
	again, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(10)), "callers get copies")

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
	assert.ErrorIs(t, repo.Create(ctx, again), account.ErrAccountExists)
	assert.ErrorIs(t, repo.Create(ctx, nil), account.ErrNilAccount)
	assert.ErrorIs(t, repo.UpdateBalance(ctx, "missing", decimal.Zero), account.ErrAccountNotFound)
	assert.ErrorIs(t, repo.UpdateBalance(ctx, "a", decimal.NewFromInt(-1)), account.ErrNegativeBalance)
}

func TestUoW_DoCommitsOnSuccess(t *testing.T) {
	uow := NewUoW()
	seed(t, uow, "a", 10)
	ctx := context.Background()

	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		repo, err := tx.AccountRepository()
		if err != nil {
			return err
		}
		return repo.UpdateBalance(ctx, "a", decimal.NewFromInt(3))
	})
	require.NoError(t, err)

	repo, _ := uow.AccountRepository()
	acc, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(3)))
}

func TestUoW_DoRollsBackOnError(t *testing.T) {
	uow := NewUoW()
	seed(t, uow, "a", 10)
	ctx := context.Background()
	boom := errors.New("boom")

	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		accounts, _ := tx.AccountRepository()
		txs, _ := tx.TransactionRepository()
		require.NoError(t, accounts.UpdateBalance(ctx, "a", decimal.Zero))
		require.NoError(t, txs.Create(ctx, dto.TransactionCreate{ID: uuid.New(), SenderID: "a", ReceiverID: "b"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	repo, _ := uow.AccountRepository()
	acc, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(10)))

	txs, _ := uow.TransactionRepository()
	list, err := txs.ListByAccount(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUoW_NestedDoJoinsTransaction(t *testing.T) {
	uow := NewUoW()
	seed(t, uow, "a", 10)
	ctx := context.Background()

	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		return tx.Do(ctx, func(inner repository.UnitOfWork) error {
			repo, _ := inner.AccountRepository()
			return repo.UpdateBalance(ctx, "a", decimal.NewFromInt(1))
		})
	})
	require.NoError(t, err)

	repo, _ := uow.AccountRepository()
	acc, _ := repo.Get(ctx, "a")
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(1)))
}

func TestUoW_DoCancelledContext(t *testing.T) {
	uow := NewUoW()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.Do(ctx, func(repository.UnitOfWork) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTransactionRepository_ListNewestFirst(t *testing.T) {
	uow := NewUoW()
	txs, _ := uow.TransactionRepository()
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	require.NoError(t, txs.Create(ctx, dto.TransactionCreate{ID: first, SenderID: "a", ReceiverID: "b"}))
	require.NoError(t, txs.Create(ctx, dto.TransactionCreate{ID: uuid.New(), SenderID: "c", ReceiverID: "d"}))
	require.NoError(t, txs.Create(ctx, dto.TransactionCreate{ID: second, SenderID: "b", ReceiverID: "a"}))

	list, err := txs.ListByAccount(ctx, "a")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)
}

func TestUoW_GetRepository(t *testing.T) {
	uow := NewUoW()
	repoAny, err := uow.GetRepository(repository.TransactionRepositoryType)
	require.NoError(t, err)
	_, ok := repoAny.(repository.TransactionRepository)
	assert.True(t, ok)

	_, err = uow.GetRepository(nil)
	assert.Error(t, err)
}

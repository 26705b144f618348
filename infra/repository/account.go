package repository

import (
	"context"
	"time"

	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/amirasaad/payauth/pkg/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository on db, which may be a
// transaction handle.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *accountRepository) GetForUpdate(ctx context.Context, id string) (*account.Account, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *accountRepository) first(db *gorm.DB, id string) (*account.Account, error) {
	var m Account
	if err := WrapError(func() error { return db.First(&m, "id = ?", id).Error }); err != nil {
		return nil, err
	}
	return accountToDomain(&m)
}

func (r *accountRepository) Create(ctx context.Context, acc *account.Account) error {
	if acc == nil {
		return account.ErrNilAccount
	}
	m := accountFromDomain(acc)
	return WrapError(func() error { return r.db.WithContext(ctx).Create(&m).Error })
}

func (r *accountRepository) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	if balance.IsNegative() {
		return account.ErrNegativeBalance
	}
	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", id).
		Updates(map[string]any{"balance": balance, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

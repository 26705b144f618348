package repository

import (
	"time"

	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/amirasaad/payauth/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Account represents an account record in the database.
type Account struct {
	ID               string          `gorm:"type:varchar(64);primaryKey"`
	Balance          decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Currency         string          `gorm:"type:varchar(3);not null"`
	InstantTransfers bool            `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction is the record written for every settled transfer.
type Transaction struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SenderID         string          `gorm:"type:varchar(64);not null;index"`
	ReceiverID       string          `gorm:"type:varchar(64);not null;index"`
	Amount           decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Fee              decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Credited         decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Rate             decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	SenderCurrency   string          `gorm:"type:varchar(3);not null"`
	ReceiverCurrency string          `gorm:"type:varchar(3);not null"`
	Notes            string          `gorm:"type:text"`
	CreatedAt        time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// GormConfig is the gorm configuration every connection to the store uses.
// TranslateError turns dialect errors such as unique violations into gorm
// sentinels, which MapGormErrorToDomain relies on.
func GormConfig(l logger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:                 l,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
}

// Migrate creates or updates the tables backing the repositories.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Account{}, &Transaction{})
}

func accountFromDomain(acc *account.Account) Account {
	return Account{
		ID:               acc.ID,
		Balance:          acc.Balance,
		Currency:         string(acc.Currency),
		InstantTransfers: acc.InstantTransfers,
		CreatedAt:        acc.CreatedAt,
		UpdatedAt:        acc.UpdatedAt,
	}
}

func accountToDomain(m *Account) (*account.Account, error) {
	return account.New().
		WithID(m.ID).
		WithBalance(m.Balance).
		WithCurrency(currency.Code(m.Currency)).
		WithInstantTransfers(m.InstantTransfers).
		WithCreatedAt(m.CreatedAt).
		WithUpdatedAt(m.UpdatedAt).
		Build()
}

func transactionFromDTO(create dto.TransactionCreate) Transaction {
	return Transaction{
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
	}
}

func transactionToDTO(m *Transaction) *dto.TransactionRead {
	return &dto.TransactionRead{
		ID:               m.ID,
		SenderID:         m.SenderID,
		ReceiverID:       m.ReceiverID,
		Amount:           m.Amount,
		Fee:              m.Fee,
		Credited:         m.Credited,
		Rate:             m.Rate,
		SenderCurrency:   m.SenderCurrency,
		ReceiverCurrency: m.ReceiverCurrency,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
	}
}

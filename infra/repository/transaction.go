package repository

import (
	"context"

	"github.com/amirasaad/payauth/pkg/dto"
	"github.com/amirasaad/payauth/pkg/repository"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction repository on db.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, create dto.TransactionCreate) error {
	m := transactionFromDTO(create)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID string) ([]*dto.TransactionRead, error) {
	var rows []Transaction
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", accountID, accountID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]*dto.TransactionRead, 0, len(rows))
	for i := range rows {
		result = append(result, transactionToDTO(&rows[i]))
	}
	return result, nil
}

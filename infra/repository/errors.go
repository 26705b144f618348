package repository

import (
	"errors"

	"github.com/amirasaad/payauth/pkg/domain/account"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to domain errors so callers never
// match on gorm sentinels.
func MapGormErrorToDomain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return account.ErrAccountNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return account.ErrAccountExists
	default:
		return err
	}
}

// WrapError runs a GORM operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(&m).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

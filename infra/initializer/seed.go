package initializer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/shopspring/decimal"
)

var errInvalidSeed = errors.New("invalid seed entry")

// parseSeed parses "id:currency:balance[:instant]".
func parseSeed(entry string) (*account.Account, error) {
	parts := strings.Split(strings.TrimSpace(entry), ":")
	if len(parts) < 3 || len(parts) > 4 {
		return nil, fmt.Errorf("%w %q: want id:currency:balance[:instant]", errInvalidSeed, entry)
	}
	balance, err := decimal.NewFromString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w %q: balance: %v", errInvalidSeed, entry, err)
	}
	instant := false
	if len(parts) == 4 {
		instant, err = strconv.ParseBool(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w %q: instant: %v", errInvalidSeed, entry, err)
		}
	}
	acc, err := account.New().
		WithID(parts[0]).
		WithCurrency(currency.Code(strings.ToUpper(parts[1]))).
		WithBalance(balance).
		WithInstantTransfers(instant).
		Build()
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", errInvalidSeed, entry, err)
	}
	return acc, nil
}

type accountOpener interface {
	Open(ctx context.Context, acc *account.Account) error
}

// seedAccounts opens every configured account. Accounts that already exist
// are left untouched so restarts against a database are harmless.
func seedAccounts(ctx context.Context, store accountOpener, entries []string, logger *slog.Logger) error {
	opened := 0
	for _, entry := range entries {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		acc, err := parseSeed(entry)
		if err != nil {
			return err
		}
		if err := store.Open(ctx, acc); err != nil {
			if errors.Is(err, account.ErrAccountExists) {
				logger.Debug("Seed account already exists", "id", acc.ID)
				continue
			}
			return fmt.Errorf("seed account %s: %w", acc.ID, err)
		}
		opened++
	}
	if opened > 0 {
		logger.Info("Seeded accounts", "count", opened)
	}
	return nil
}

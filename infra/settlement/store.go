// Package settlement commits authorized transfers against the account store.
package settlement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/amirasaad/payauth/pkg/dto"
	"github.com/amirasaad/payauth/pkg/provider"
	"github.com/amirasaad/payauth/pkg/repository"
	"github.com/google/uuid"
)

// Store applies transfers through a repository.UnitOfWork. Each Commit is one
// transaction: both accounts are locked in id order, the sender is debited,
// the receiver credited and a transaction record written, or nothing is.
type Store struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a Store on uow.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{uow: uow, logger: logger.With("component", "settlement")}
}

// Commit implements provider.Settlement.
func (s *Store) Commit(ctx context.Context, tr provider.Transfer) error {
	if tr.SenderID == tr.ReceiverID {
		return account.ErrCannotTransferToSameAccount
	}
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		sender, receiver, err := lockPair(ctx, accounts, tr.SenderID, tr.ReceiverID)
		if err != nil {
			return err
		}

		debit := tr.Debit()
		if sender.Balance.LessThan(debit) {
			return fmt.Errorf("%w: account %s holds %s, needs %s",
				account.ErrInsufficientFunds, sender.ID, sender.Balance, debit)
		}
		credit := tr.Credit()

		if err := accounts.UpdateBalance(ctx, sender.ID, sender.Balance.Sub(debit)); err != nil {
			return err
		}
		if err := accounts.UpdateBalance(ctx, receiver.ID, receiver.Balance.Add(credit)); err != nil {
			return err
		}

		id := uuid.New()
		if err := txs.Create(ctx, dto.TransactionCreate{
			ID:               id,
			SenderID:         sender.ID,
			ReceiverID:       receiver.ID,
			Amount:           tr.Amount,
			Fee:              tr.Fee,
			Credited:         credit,
			Rate:             tr.Rate,
			SenderCurrency:   string(sender.Currency),
			ReceiverCurrency: string(receiver.Currency),
			Notes:            tr.Notes,
		}); err != nil {
			return err
		}
		s.logger.Debug("transfer settled",
			"transaction_id", id,
			"sender", sender.ID,
			"receiver", receiver.ID,
			"debit", debit,
			"credit", credit,
		)
		return nil
	})
}

// lockPair locks both accounts in ascending id order so concurrent transfers
// between the same pair cannot deadlock.
func lockPair(ctx context.Context, accounts repository.AccountRepository, senderID, receiverID string) (*account.Account, *account.Account, error) {
	firstID, secondID := senderID, receiverID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := accounts.GetForUpdate(ctx, firstID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock account %s: %w", firstID, err)
	}
	second, err := accounts.GetForUpdate(ctx, secondID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock account %s: %w", secondID, err)
	}
	if first.ID == senderID {
		return first, second, nil
	}
	return second, first, nil
}

// Get implements provider.AccountSource.
func (s *Store) Get(ctx context.Context, id string) (*account.Account, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return accounts.Get(ctx, id)
}

// History lists the settled transactions of an account, newest first.
func (s *Store) History(ctx context.Context, id string) ([]*dto.TransactionRead, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	txs, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return txs.ListByAccount(ctx, id)
}

// Open creates an account. Used to seed the store at startup.
func (s *Store) Open(ctx context.Context, acc *account.Account) error {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return err
	}
	return accounts.Create(ctx, acc)
}

var (
	_ provider.Settlement    = (*Store)(nil)
	_ provider.AccountSource = (*Store)(nil)
)

package account

import (
	"time"

	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/amirasaad/payauth/pkg/dto"
	"github.com/shopspring/decimal"
)

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID               string          `json:"id"`
	Currency         string          `json:"currency"`
	Balance          decimal.Decimal `json:"balance"`
	InstantTransfers bool            `json:"instant_transfers"`
}

// TransactionResponse is one settled transfer.
type TransactionResponse struct {
	ID               string          `json:"id"`
	SenderID         string          `json:"sender_id"`
	ReceiverID       string          `json:"receiver_id"`
	Amount           decimal.Decimal `json:"amount"`
	Fee              decimal.Decimal `json:"fee"`
	Credited         decimal.Decimal `json:"credited"`
	Rate             decimal.Decimal `json:"rate"`
	SenderCurrency   string          `json:"sender_currency"`
	ReceiverCurrency string          `json:"receiver_currency"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func ToAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:               a.ID,
		Currency:         a.Currency.String(),
		Balance:          a.Balance,
		InstantTransfers: a.InstantTransfers,
	}
}

func ToTransactionResponses(txs []*dto.TransactionRead) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, TransactionResponse{
			ID:               tx.ID.String(),
			SenderID:         tx.SenderID,
			ReceiverID:       tx.ReceiverID,
			Amount:           tx.Amount,
			Fee:              tx.Fee,
			Credited:         tx.Credited,
			Rate:             tx.Rate,
			SenderCurrency:   tx.SenderCurrency,
			ReceiverCurrency: tx.ReceiverCurrency,
			Notes:            tx.Notes,
			CreatedAt:        tx.CreatedAt,
		})
	}
	return out
}

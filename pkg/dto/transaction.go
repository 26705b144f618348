package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionCreate is a DTO for recording a settled transfer.
type TransactionCreate struct {
	ID               uuid.UUID
	SenderID         string
	ReceiverID       string
	Amount           decimal.Decimal // Debited from the sender, excluding fee
	Fee              decimal.Decimal
	Credited         decimal.Decimal // Credited to the receiver in its currency
	Rate             decimal.Decimal
	SenderCurrency   string
	ReceiverCurrency string
	Notes            string
}

// TransactionRead is a read-optimized DTO for transaction queries and API responses.
type TransactionRead struct {
	ID               uuid.UUID
	SenderID         string
	ReceiverID       string
	Amount           decimal.Decimal
	Fee              decimal.Decimal
	Credited         decimal.Decimal
	Rate             decimal.Decimal
	SenderCurrency   string
	ReceiverCurrency string
	Notes            string
	CreatedAt        time.Time
}

// Package payment defines the value types produced and consumed by payment
// authorization: the transaction mode, the decision result and the decline
// reasons.
package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when the payment amount is not positive.
	// It signals caller misuse and is never reported as a Failure result.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidMode is returned when a transaction mode cannot be parsed.
	ErrInvalidMode = errors.New("invalid transaction mode")
)

// Decline reasons reported in Failure results.
const (
	ReasonInsufficientFunds      = "Insufficient Funds"
	ReasonInstantNotSupported    = "Receiver doesn't support instant transactions"
	ReasonVerificationFailed     = "Additional verification failed."
	ReasonSettlementRetriesSpent = "Transaction failed after multiple attempts"
)

// Mode governs whether the receiver's instant-transfer capability is checked.
type Mode string

const (
	ModeRegular Mode = "REGULAR"
	ModeInstant Mode = "INSTANT"
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// ParseMode parses a mode case-insensitively. An empty string means ModeRegular.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(ModeRegular):
		return ModeRegular, nil
	case string(ModeInstant):
		return ModeInstant, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Status tags which variant a Result holds.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result is the outcome of a payment decision: either Success with the
// transferred amount and fee, or Failure with a reason. The zero value is not
// a valid result; use Succeeded or Failed.
type Result struct {
	Status            Status
	TransferredAmount decimal.Decimal
	Fee               decimal.Decimal
	Reason            string
	// Attempts is the number of settlement commits tried before this result.
	Attempts int
}

// Succeeded builds a Success result.
func Succeeded(transferred, fee decimal.Decimal) Result {
	return Result{Status: StatusSuccess, TransferredAmount: transferred, Fee: fee}
}

// Failed builds a Failure result.
func Failed(reason string) Result {
	return Result{Status: StatusFailure, Reason: reason}
}

// IsSuccess reports whether r is the Success variant.
func (r Result) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// String renders the result for logs.
func (r Result) String() string {
	if r.IsSuccess() {
		return fmt.Sprintf("Success(transferred=%s, fee=%s)", r.TransferredAmount, r.Fee)
	}
	return fmt.Sprintf("Failure(%s)", r.Reason)
}

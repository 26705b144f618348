// Package events holds the domain events emitted after payment decisions.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is implemented by every domain event.
type Event interface {
	Type() string
}

// Event type names.
const (
	PaymentSucceededType = "PaymentSucceeded"
	PaymentDeclinedType  = "PaymentDeclined"
)

// PaymentEvent carries the fields shared by payment events.
type PaymentEvent struct {
	ID         uuid.UUID       `json:"id"`
	SenderID   string          `json:"sender_id"`
	ReceiverID string          `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   currency.Code   `json:"currency"`
	Mode       string          `json:"mode"`
	Attempts   int             `json:"attempts"`
	Timestamp  time.Time       `json:"timestamp"`
}

// PaymentSucceeded is emitted after settlement committed.
type PaymentSucceeded struct {
	PaymentEvent
	TransferredAmount decimal.Decimal `json:"transferred_amount"`
	Fee               decimal.Decimal `json:"fee"`
}

// Type implements Event.
func (PaymentSucceeded) Type() string { return PaymentSucceededType }

// PaymentDeclined is emitted when the decision ends in a Failure result.
type PaymentDeclined struct {
	PaymentEvent
	Reason string `json:"reason"`
}

// Type implements Event.
func (PaymentDeclined) Type() string { return PaymentDeclinedType }

// NewPaymentEvent fills the shared fields with a fresh id and timestamp.
func NewPaymentEvent(senderID, receiverID string, amount decimal.Decimal, code currency.Code, mode string, attempts int) PaymentEvent {
	return PaymentEvent{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
		Currency:   code,
		Mode:       mode,
		Attempts:   attempts,
		Timestamp:  time.Now().UTC(),
	}
}

// ErrUnknownEventType is returned by Decode for an unregistered type name.
var ErrUnknownEventType = errors.New("unknown event type")

// Decode rebuilds an event of the named type from its JSON payload, as read
// back from a broker.
func Decode(eventType string, payload []byte) (Event, error) {
	switch eventType {
	case PaymentSucceededType:
		var e PaymentSucceeded
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		return e, nil
	case PaymentDeclinedType:
		var e PaymentDeclined
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}
}

// PartitionKey orders events per sender on partitioned brokers.
func (e PaymentEvent) PartitionKey() string {
	return e.SenderID
}

package events

import (
	"encoding/json"
	"testing"

	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentEvents_Type(t *testing.T) {
	assert.Equal(t, PaymentSucceededType, PaymentSucceeded{}.Type())
	assert.Equal(t, PaymentDeclinedType, PaymentDeclined{}.Type())
}

func TestNewPaymentEvent(t *testing.T) {
	e := NewPaymentEvent("a", "b", decimal.NewFromInt(10), currency.EUR, "INSTANT", 2)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "a", e.SenderID)
	assert.Equal(t, "b", e.ReceiverID)
	assert.Equal(t, 2, e.Attempts)
	assert.False(t, e.Timestamp.IsZero())
}

func TestDecode(t *testing.T) {
	in := PaymentDeclined{
		PaymentEvent: NewPaymentEvent("a", "b", decimal.NewFromInt(10), currency.USD, "REGULAR", 0),
		Reason:       "Insufficient Funds",
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := Decode(in.Type(), data)
	require.NoError(t, err)
	declined, ok := out.(PaymentDeclined)
	require.True(t, ok)
	assert.Equal(t, "Insufficient Funds", declined.Reason)
	assert.Equal(t, in.ID, declined.ID)
	assert.True(t, declined.Amount.Equal(decimal.NewFromInt(10)))

	_, err = Decode("Unknown", data)
	assert.ErrorIs(t, err, ErrUnknownEventType)

	_, err = Decode(PaymentSucceededType, []byte("{"))
	assert.Error(t, err)
}

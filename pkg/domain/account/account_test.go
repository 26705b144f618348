package account

import (
	"testing"

	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	acc, err := New().
		WithID("acc-1").
		WithCurrency(currency.EUR).
		WithBalance(decimal.NewFromInt(100)).
		WithInstantTransfers(true).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "acc-1", acc.ID)
	assert.Equal(t, currency.EUR, acc.Currency)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(100)))
	assert.True(t, acc.SupportsInstant())
	assert.False(t, acc.CreatedAt.IsZero())
}

func TestBuilder_Defaults(t *testing.T) {
	acc, err := New().WithID("acc-1").Build()
	require.NoError(t, err)
	assert.Equal(t, currency.DefaultCurrency, acc.Currency)
	assert.True(t, acc.Balance.IsZero())
	assert.False(t, acc.SupportsInstant())
}

func TestBuilder_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
		wantErr error
	}{
		{"missing id", New(), ErrIDRequired},
		{"bad currency", New().WithID("a").WithCurrency("usd"), currency.ErrInvalidCurrencyCode},
		{"unsupported currency", New().WithID("a").WithCurrency("ZZZ"), currency.ErrUnsupportedCurrency},
		{"negative balance", New().WithID("a").WithBalance(decimal.NewFromInt(-1)), ErrNegativeBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := tt.builder.Build()
			assert.Nil(t, acc)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSupportsInstant_NilAccount(t *testing.T) {
	var acc *Account
	assert.False(t, acc.SupportsInstant())
}

func TestValidatePair(t *testing.T) {
	a := &Account{ID: "a"}
	b := &Account{ID: "b"}

	assert.NoError(t, ValidatePair(a, b))
	assert.ErrorIs(t, ValidatePair(nil, b), ErrNilAccount)
	assert.ErrorIs(t, ValidatePair(a, nil), ErrNilAccount)
	assert.ErrorIs(t, ValidatePair(a, &Account{ID: "a"}), ErrCannotTransferToSameAccount)
}

package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeRegular},
		{"regular", ModeRegular},
		{"REGULAR", ModeRegular},
		{" instant ", ModeInstant},
		{"INSTANT", ModeInstant},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMode("express")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestResult(t *testing.T) {
	ok := Succeeded(decimal.NewFromInt(50), decimal.Zero)
	assert.True(t, ok.IsSuccess())
	assert.Empty(t, ok.Reason)
	assert.Equal(t, "Success(transferred=50, fee=0)", ok.String())

	fail := Failed(ReasonInsufficientFunds)
	assert.False(t, fail.IsSuccess())
	assert.Equal(t, StatusFailure, fail.Status)
	assert.Equal(t, "Failure(Insufficient Funds)", fail.String())
}

// Package fees provides pluggable fee strategies. A strategy computes the fee
// charged on top of a transfer amount, in the sender's currency.
package fees

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeFee is returned when a strategy is configured to produce a negative fee.
	ErrNegativeFee = errors.New("fee must not be negative")
	// ErrUnknownStrategy is returned when a strategy name is not registered.
	ErrUnknownStrategy = errors.New("unknown fee strategy")
)

// Strategy computes a fee (>= 0) from the transfer amount.
type Strategy interface {
	CalculateFee(amount decimal.Decimal) decimal.Decimal
}

// NoFee is the default strategy: it never charges.
type NoFee struct{}

// CalculateFee implements Strategy.
func (NoFee) CalculateFee(decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// Flat charges the same fee regardless of amount.
type Flat struct {
	amount decimal.Decimal
}

// NewFlat creates a Flat strategy.
func NewFlat(amount decimal.Decimal) (*Flat, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("flat fee %s: %w", amount, ErrNegativeFee)
	}
	return &Flat{amount: amount}, nil
}

// CalculateFee implements Strategy.
func (f *Flat) CalculateFee(decimal.Decimal) decimal.Decimal {
	return f.amount
}

// Percentage charges a fraction of the amount, bounded below by min and above
// by max when max is positive.
type Percentage struct {
	rate decimal.Decimal
	min  decimal.Decimal
	max  decimal.Decimal
}

// NewPercentage creates a Percentage strategy. rate is a fraction (0.01 = 1%).
func NewPercentage(rate, min, max decimal.Decimal) (*Percentage, error) {
	if rate.IsNegative() || min.IsNegative() || max.IsNegative() {
		return nil, fmt.Errorf("percentage fee: %w", ErrNegativeFee)
	}
	if max.IsPositive() && min.GreaterThan(max) {
		return nil, fmt.Errorf("percentage fee: min %s exceeds max %s", min, max)
	}
	return &Percentage{rate: rate, min: min, max: max}, nil
}

// CalculateFee implements Strategy.
func (p *Percentage) CalculateFee(amount decimal.Decimal) decimal.Decimal {
	fee := amount.Mul(p.rate)
	if fee.LessThan(p.min) {
		fee = p.min
	}
	if p.max.IsPositive() && fee.GreaterThan(p.max) {
		fee = p.max
	}
	return fee
}

// Func adapts a plain function to Strategy.
type Func func(amount decimal.Decimal) decimal.Decimal

// CalculateFee implements Strategy.
func (f Func) CalculateFee(amount decimal.Decimal) decimal.Decimal {
	return f(amount)
}

var (
	_ Strategy = NoFee{}
	_ Strategy = (*Flat)(nil)
	_ Strategy = (*Percentage)(nil)
	_ Strategy = Func(nil)
)

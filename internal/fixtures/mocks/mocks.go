// Package mocks provides testify mocks for the provider ports and the event bus.
package mocks

import (
	"context"

	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/amirasaad/payauth/pkg/domain/events"
	"github.com/amirasaad/payauth/pkg/eventbus"
	"github.com/amirasaad/payauth/pkg/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// TestingT is satisfied by *testing.T.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

// ExchangeRate is a mock provider.ExchangeRate.
type ExchangeRate struct {
	mock.Mock
}

// NewExchangeRate creates a mock and asserts its expectations on cleanup.
func NewExchangeRate(t TestingT) *ExchangeRate {
	m := &ExchangeRate{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ExchangeRate) Rate(ctx context.Context, from, to currency.Code) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *ExchangeRate) Name() string {
	return "mock"
}

// Settlement is a mock provider.Settlement.
type Settlement struct {
	mock.Mock
}

// NewSettlement creates a mock and asserts its expectations on cleanup.
func NewSettlement(t TestingT) *Settlement {
	m := &Settlement{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Settlement) Commit(ctx context.Context, tr provider.Transfer) error {
	args := m.Called(ctx, tr)
	return args.Error(0)
}

// Compliance is a mock provider.Compliance.
type Compliance struct {
	mock.Mock
}

// NewCompliance creates a mock and asserts its expectations on cleanup.
func NewCompliance(t TestingT) *Compliance {
	m := &Compliance{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Compliance) Verify(ctx context.Context, acc *account.Account) (bool, error) {
	args := m.Called(ctx, acc)
	return args.Bool(0), args.Error(1)
}

// AccountSource is a mock provider.AccountSource.
type AccountSource struct {
	mock.Mock
}

// NewAccountSource creates a mock and asserts its expectations on cleanup.
func NewAccountSource(t TestingT) *AccountSource {
	m := &AccountSource{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AccountSource) Get(ctx context.Context, id string) (*account.Account, error) {
	args := m.Called(ctx, id)
	acc, _ := args.Get(0).(*account.Account)
	return acc, args.Error(1)
}

// Bus is a mock eventbus.Bus.
type Bus struct {
	mock.Mock
}

// NewBus creates a mock and asserts its expectations on cleanup.
func NewBus(t TestingT) *Bus {
	m := &Bus{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Bus) Emit(ctx context.Context, e events.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *Bus) Register(eventType string, handler eventbus.HandlerFunc) {
	m.Called(eventType, handler)
}

var (
	_ provider.ExchangeRate  = (*ExchangeRate)(nil)
	_ provider.Settlement    = (*Settlement)(nil)
	_ provider.Compliance    = (*Compliance)(nil)
	_ provider.AccountSource = (*AccountSource)(nil)
	_ eventbus.Bus           = (*Bus)(nil)
)

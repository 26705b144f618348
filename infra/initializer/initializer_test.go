package initializer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/payauth/pkg/config"
	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/amirasaad/payauth/pkg/domain/payment"
	"github.com/amirasaad/payauth/pkg/fees"
	paymentsvc "github.com/amirasaad/payauth/pkg/service/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.App {
	return &config.App{
		Env: "test",
		Log: &config.Log{Format: "text"},
		DB: &config.DB{
			Seed: []string{"alice:USD:1000:true", "bob:USD:0:true", "carol:EUR:50"},
		},
		EventBus:     &config.EventBus{Driver: DriverMemory},
		ExchangeRate: &config.ExchangeRate{Fixed: map[string]string{"USD_EUR": "0.5"}, CacheTTL: time.Minute},
		Fee:          &config.Fee{Default: fees.StrategyNone, Percentage: 0.01},
		Compliance:   &config.Compliance{Threshold: 500, Approve: true},
		Retry:        &config.Retry{MaxRetries: 3},
	}
}

func TestParseSeed(t *testing.T) {
	acc, err := parseSeed("alice:usd:10.50:true")
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.ID)
	assert.Equal(t, currency.USD, acc.Currency)
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("10.50")))
	assert.True(t, acc.InstantTransfers)

	acc, err = parseSeed("bob:EUR:0")
	require.NoError(t, err)
	assert.False(t, acc.InstantTransfers)

	for _, bad := range []string{"alice", "alice:USD", "a:USD:x", "a:USD:1:maybe", "a:USD:-1", ":USD:1", "a:ZZZ:1", "a:USD:1:true:extra"} {
		_, err := parseSeed(bad)
		assert.ErrorIs(t, err, errInvalidSeed, bad)
	}
}

type openerFunc func(ctx context.Context, acc *account.Account) error

func (f openerFunc) Open(ctx context.Context, acc *account.Account) error { return f(ctx, acc) }

func TestSeedAccounts_SkipsExisting(t *testing.T) {
	var opened []string
	store := openerFunc(func(_ context.Context, acc *account.Account) error {
		if acc.ID == "dup" {
			return account.ErrAccountExists
		}
		opened = append(opened, acc.ID)
		return nil
	})
	err := seedAccounts(context.Background(), store, []string{"a:USD:1", "", "dup:USD:1", "b:EUR:2"}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, opened)

	boom := errors.New("boom")
	failing := openerFunc(func(context.Context, *account.Account) error { return boom })
	require.ErrorIs(t, seedAccounts(context.Background(), failing, []string{"a:USD:1"}, discardLogger()), boom)
}

func TestBuild_InMemoryProcessesPayment(t *testing.T) {
	defer goleak.VerifyNone(t)

	deps, err := build(context.Background(), testConfig(), discardLogger())
	require.NoError(t, err)
	defer func() { require.NoError(t, deps.Close()) }()

	ctx := context.Background()
	alice, err := deps.Accounts.Get(ctx, "alice")
	require.NoError(t, err)
	carol, err := deps.Accounts.Get(ctx, "carol")
	require.NoError(t, err)

	res, err := deps.Authorizer.ProcessPayment(ctx, paymentsvc.Request{
		Sender:   alice,
		Receiver: carol,
		Amount:   decimal.NewFromInt(100),
		Mode:     payment.ModeRegular,
	})
	require.NoError(t, err)
	require.True(t, res.IsSuccess(), res.String())
	assert.True(t, res.TransferredAmount.Equal(decimal.NewFromInt(50)))

	carol, err = deps.Accounts.Get(ctx, "carol")
	require.NoError(t, err)
	assert.True(t, carol.Balance.Equal(decimal.NewFromInt(100)))

	history, err := deps.Accounts.History(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.App)
	}{
		{"unknown driver", func(c *config.App) { c.EventBus.Driver = "carrier-pigeon" }},
		{"redis driver without url", func(c *config.App) { c.EventBus.Driver = DriverRedis }},
		{"kafka driver without brokers", func(c *config.App) { c.EventBus.Driver = DriverKafka }},
		{"unknown default fee", func(c *config.App) { c.Fee.Default = "tithe" }},
		{"negative flat fee", func(c *config.App) { c.Fee.FlatAmount = -1 }},
		{"bad fixed rate", func(c *config.App) { c.ExchangeRate.Fixed = map[string]string{"USD_EUR": "x"} }},
		{"bad seed", func(c *config.App) { c.DB.Seed = []string{"nope"} }},
		{"bad redis url", func(c *config.App) { c.Redis = &config.Redis{URL: "://nope"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			deps, err := build(context.Background(), cfg, discardLogger())
			require.Error(t, err)
			assert.Nil(t, deps)
		})
	}
}

func TestBuild_MemoryAsyncBusClosed(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.EventBus.Driver = DriverMemoryAsync
	deps, err := build(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	require.NoError(t, deps.Close())
}

func TestNewFeeRegistry(t *testing.T) {
	reg, err := newFeeRegistry(&config.Fee{Default: fees.StrategyPercentage, Percentage: 0.02, FlatAmount: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{fees.StrategyFlat, fees.StrategyNone, fees.StrategyPercentage}, reg.Names())

	def, err := reg.Resolve("")
	require.NoError(t, err)
	assert.True(t, def.CalculateFee(decimal.NewFromInt(100)).Equal(decimal.NewFromInt(2)))

	flat, err := reg.Resolve(fees.StrategyFlat)
	require.NoError(t, err)
	assert.True(t, flat.CalculateFee(decimal.NewFromInt(100)).Equal(decimal.NewFromInt(3)))
}

func TestRetryPolicy(t *testing.T) {
	p := retryPolicy(&config.Retry{MaxRetries: 5, Backoff: 10 * time.Millisecond, MaxBackoff: 40 * time.Millisecond})
	assert.Equal(t, 5, p.MaxRetries)
	assert.Equal(t, 40*time.Millisecond, p.Backoff(10))

	p = retryPolicy(nil)
	assert.Equal(t, 3, p.MaxRetries)
	assert.Zero(t, p.Backoff(1))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Log{Format: "json", Prefix: "[test]"}, &buf)
	logger.Info("hello", "sender", "alice")
	assert.Contains(t, buf.String(), `"sender":"alice"`)
	assert.Contains(t, buf.String(), "hello")
}

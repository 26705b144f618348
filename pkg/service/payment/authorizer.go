// Package payment implements the payment authorizer: it decides whether a
// single transfer between two accounts may proceed, computes the fee and the
// settled amount, and drives settlement with a bounded retry policy.
//
// Every decision runs the same sequence: fee, exchange rate, funds check,
// instant-capability check, compliance check below the balance threshold,
// final amount, settlement. Only settlement mutates state. A failed commit
// re-runs the whole sequence so that funds and compliance are evaluated
// against fresh account state.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/amirasaad/payauth/pkg/domain/events"
	"github.com/amirasaad/payauth/pkg/domain/payment"
	"github.com/amirasaad/payauth/pkg/eventbus"
	"github.com/amirasaad/payauth/pkg/fees"
	"github.com/amirasaad/payauth/pkg/provider"
	"github.com/amirasaad/payauth/pkg/retry"
	"github.com/shopspring/decimal"
)

// DefaultComplianceThreshold is the remaining balance, in sender currency
// units, below which the sender must pass additional verification.
var DefaultComplianceThreshold = decimal.NewFromInt(500)

// Deps holds the collaborators of the Authorizer. Rates, Settlement and
// Compliance are required.
type Deps struct {
	Rates      provider.ExchangeRate
	Settlement provider.Settlement
	Compliance provider.Compliance
	// Accounts, when set, is used to reload both accounts before each retry.
	Accounts provider.AccountSource
	// Bus, when set, receives a PaymentSucceeded or PaymentDeclined event per decision.
	Bus eventbus.Bus
	// DefaultFee is applied when a request carries no strategy. Defaults to fees.NoFee.
	DefaultFee fees.Strategy
	Logger     *slog.Logger
}

// Config tunes the decision procedure.
type Config struct {
	ComplianceThreshold decimal.Decimal
	Retry               retry.Policy
}

// DefaultConfig uses the 500 unit threshold and three immediate retries.
func DefaultConfig() Config {
	return Config{
		ComplianceThreshold: DefaultComplianceThreshold,
		Retry:               retry.DefaultPolicy(),
	}
}

// Request is a single transfer to authorize.
type Request struct {
	Sender   *account.Account
	Receiver *account.Account
	// Amount is in the sender's currency and must be positive.
	Amount decimal.Decimal
	Mode   payment.Mode
	// Notes are carried through to the settlement record untouched.
	Notes string
	// FeeStrategy overrides the default strategy when set.
	FeeStrategy fees.Strategy
	// RetryCount is the number of settlement retries already spent.
	RetryCount int
}

// Authorizer decides and settles payments. It holds no mutable state and is
// safe for concurrent use.
type Authorizer struct {
	rates      provider.ExchangeRate
	settlement provider.Settlement
	compliance provider.Compliance
	accounts   provider.AccountSource
	bus        eventbus.Bus
	defaultFee fees.Strategy
	threshold  decimal.Decimal
	policy     retry.Policy
	logger     *slog.Logger
}

// New creates an Authorizer.
func New(deps Deps, cfg Config) (*Authorizer, error) {
	if deps.Rates == nil || deps.Settlement == nil || deps.Compliance == nil {
		return nil, errors.New("payment authorizer: rates, settlement and compliance are required")
	}
	if deps.DefaultFee == nil {
		deps.DefaultFee = fees.NoFee{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.Retry.MaxRetries < 0 {
		return nil, fmt.Errorf("payment authorizer: negative max retries %d", cfg.Retry.MaxRetries)
	}
	return &Authorizer{
		rates:      deps.Rates,
		settlement: deps.Settlement,
		compliance: deps.Compliance,
		accounts:   deps.Accounts,
		bus:        deps.Bus,
		defaultFee: deps.DefaultFee,
		threshold:  cfg.ComplianceThreshold,
		policy:     cfg.Retry,
		logger:     deps.Logger.With("component", "payment-authorizer"),
	}, nil
}

// decision is the outcome of one pass over the decision sequence.
type decision struct {
	approved bool
	reason   string
	fee      decimal.Decimal
	final    decimal.Decimal
	transfer provider.Transfer
}

// ProcessPayment authorizes and settles req.
//
// A non-positive amount returns payment.ErrInvalidAmount. Collaborator
// outages and context cancellation are returned as errors as well. Business
// declines, including exhausted settlement retries, are returned as a
// Failure result with a nil error.
func (a *Authorizer) ProcessPayment(ctx context.Context, req Request) (payment.Result, error) {
	if !req.Amount.IsPositive() {
		return payment.Result{}, fmt.Errorf("%w: %s", payment.ErrInvalidAmount, req.Amount)
	}
	if err := account.ValidatePair(req.Sender, req.Receiver); err != nil {
		return payment.Result{}, err
	}
	mode, err := payment.ParseMode(string(req.Mode))
	if err != nil {
		return payment.Result{}, err
	}
	strategy := req.FeeStrategy
	if strategy == nil {
		strategy = a.defaultFee
	}

	logger := a.logger.With(
		"sender", req.Sender.ID,
		"receiver", req.Receiver.ID,
		"amount", req.Amount,
		"mode", mode,
	)

	sender, receiver := req.Sender, req.Receiver
	var (
		result   payment.Result
		attempts int
	)
	_, err = a.policy.Do(ctx, req.RetryCount, func(ctx context.Context, retryCount int) (bool, error) {
		if retryCount > req.RetryCount && a.accounts != nil {
			s, r, err := a.reload(ctx, sender.ID, receiver.ID)
			if err != nil {
				return false, err
			}
			sender, receiver = s, r
		}

		d, err := a.decide(ctx, sender, receiver, req.Amount, mode, strategy)
		if err != nil {
			return false, err
		}
		if !d.approved {
			logger.Info("payment declined", "reason", d.reason, "retry", retryCount)
			result = payment.Failed(d.reason)
			return true, nil
		}

		d.transfer.Notes = req.Notes
		attempts++
		if err := a.settlement.Commit(ctx, d.transfer); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false, ctxErr
			}
			if errors.Is(err, account.ErrInsufficientFunds) {
				// The store re-checks funds against the locked balance.
				logger.Warn("settlement refused by balance guard",
					"retry", retryCount,
					"cause", account.ErrInsufficientFunds,
					"error", err,
				)
				return false, nil
			}
			logger.Warn("settlement attempt failed", "retry", retryCount, "error", err)
			return false, nil
		}
		result = payment.Succeeded(d.final, d.fee)
		return true, nil
	})
	switch {
	case errors.Is(err, retry.ErrExhausted):
		logger.Error("settlement retries exhausted", "attempts", attempts)
		result = payment.Failed(payment.ReasonSettlementRetriesSpent)
	case err != nil:
		logger.Error("payment processing failed", "error", err)
		return payment.Result{}, err
	}
	result.Attempts = attempts

	if result.IsSuccess() {
		logger.Info("payment settled",
			"transferred", result.TransferredAmount,
			"fee", result.Fee,
			"attempts", attempts,
		)
	}
	a.emit(ctx, req, mode, result)
	return result, nil
}

// decide runs steps 1-6 of the decision sequence against the given snapshots.
func (a *Authorizer) decide(
	ctx context.Context,
	sender, receiver *account.Account,
	amount decimal.Decimal,
	mode payment.Mode,
	strategy fees.Strategy,
) (decision, error) {
	fee := strategy.CalculateFee(amount)
	if fee.IsNegative() {
		return decision{}, fmt.Errorf("%w: strategy returned %s", fees.ErrNegativeFee, fee)
	}

	rate, err := a.rate(ctx, sender, receiver)
	if err != nil {
		return decision{}, err
	}

	total := amount.Add(fee)
	if total.Mul(rate).GreaterThan(sender.Balance) {
		return decision{reason: payment.ReasonInsufficientFunds}, nil
	}

	if mode == payment.ModeInstant && !receiver.SupportsInstant() {
		return decision{reason: payment.ReasonInstantNotSupported}, nil
	}

	if sender.Balance.Sub(total).LessThan(a.threshold) {
		ok, err := a.compliance.Verify(ctx, sender)
		if err != nil {
			return decision{}, fmt.Errorf("compliance verification: %w", err)
		}
		if !ok {
			return decision{reason: payment.ReasonVerificationFailed}, nil
		}
	}

	final := amount
	if !sender.SameCurrency(receiver) {
		final = amount.Mul(rate)
	}

	return decision{
		approved: true,
		fee:      fee,
		final:    final,
		transfer: provider.Transfer{
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			Amount:     amount,
			Fee:        fee,
			Rate:       rate,
		},
	}, nil
}

func (a *Authorizer) rate(ctx context.Context, sender, receiver *account.Account) (decimal.Decimal, error) {
	if sender.SameCurrency(receiver) {
		return decimal.NewFromInt(1), nil
	}
	rate, err := a.rates.Rate(ctx, sender.Currency, receiver.Currency)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("exchange rate %s->%s: %w", sender.Currency, receiver.Currency, err)
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("exchange rate %s->%s is %s: %w",
			sender.Currency, receiver.Currency, rate, provider.ErrInvalidRate)
	}
	return rate, nil
}

func (a *Authorizer) reload(ctx context.Context, senderID, receiverID string) (*account.Account, *account.Account, error) {
	sender, err := a.accounts.Get(ctx, senderID)
	if err != nil {
		return nil, nil, fmt.Errorf("reload sender %s: %w", senderID, err)
	}
	receiver, err := a.accounts.Get(ctx, receiverID)
	if err != nil {
		return nil, nil, fmt.Errorf("reload receiver %s: %w", receiverID, err)
	}
	return sender, receiver, nil
}

func (a *Authorizer) emit(ctx context.Context, req Request, mode payment.Mode, result payment.Result) {
	if a.bus == nil {
		return
	}
	base := events.NewPaymentEvent(
		req.Sender.ID,
		req.Receiver.ID,
		req.Amount,
		req.Sender.Currency,
		mode.String(),
		result.Attempts,
	)
	var e events.Event
	if result.IsSuccess() {
		e = events.PaymentSucceeded{PaymentEvent: base, TransferredAmount: result.TransferredAmount, Fee: result.Fee}
	} else {
		e = events.PaymentDeclined{PaymentEvent: base, Reason: result.Reason}
	}
	if err := a.bus.Emit(ctx, e); err != nil {
		a.logger.Warn("failed to emit payment event", "type", e.Type(), "error", err)
	}
}

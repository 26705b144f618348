// Package app holds the wired application dependencies shared by the
// transports.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/payauth/pkg/config"
	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/amirasaad/payauth/pkg/dto"
	"github.com/amirasaad/payauth/pkg/eventbus"
	"github.com/amirasaad/payauth/pkg/fees"
	paymentsvc "github.com/amirasaad/payauth/pkg/service/payment"
)

// Accounts is the read side of the account store.
type Accounts interface {
	Get(ctx context.Context, id string) (*account.Account, error)
	History(ctx context.Context, id string) ([]*dto.TransactionRead, error)
}

// Deps groups the long-lived collaborators built at startup.
type Deps struct {
	Config     *config.App
	Logger     *slog.Logger
	Authorizer *paymentsvc.Authorizer
	Accounts   Accounts
	Fees       *fees.Registry
	EventBus   eventbus.Bus

	closers []func() error
}

// OnClose registers fn to run on Close. Closers run in reverse order.
func (d *Deps) OnClose(fn func() error) {
	d.closers = append(d.closers, fn)
}

// Close releases every registered resource and joins their errors.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

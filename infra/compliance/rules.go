// Package compliance provides rule-based sender verification for payments
// that would leave the sender below the compliance threshold.
package compliance

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/amirasaad/payauth/pkg/provider"
)

// Rules rejects blocked accounts and otherwise answers with a configured
// default.
type Rules struct {
	blocked map[string]struct{}
	approve bool
	logger  *slog.Logger
}

// NewRules creates a rule set. approve is the answer for accounts not on the
// blocklist.
func NewRules(blocked []string, approve bool, logger *slog.Logger) *Rules {
	if logger == nil {
		logger = slog.Default()
	}
	set := make(map[string]struct{}, len(blocked))
	for _, id := range blocked {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return &Rules{blocked: set, approve: approve, logger: logger.With("component", "compliance")}
}

// Verify implements provider.Compliance.
func (r *Rules) Verify(ctx context.Context, acc *account.Account) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if acc == nil {
		return false, account.ErrNilAccount
	}
	if _, blocked := r.blocked[acc.ID]; blocked {
		r.logger.Info("verification rejected", "account", acc.ID, "rule", "blocklist")
		return false, nil
	}
	if !r.approve {
		r.logger.Info("verification rejected", "account", acc.ID, "rule", "default")
	}
	return r.approve, nil
}

var _ provider.Compliance = (*Rules)(nil)

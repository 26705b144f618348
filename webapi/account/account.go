package account

import (
	"github.com/amirasaad/payauth/pkg/app"
	"github.com/amirasaad/payauth/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers read-only account endpoints.
//
// Routes:
//   - GET /accounts/:id              : Balance, currency and instant capability.
//   - GET /accounts/:id/transactions : Settled transfers touching the account, newest first.
func Routes(router fiber.Router, deps *app.Deps) {
	router.Get("/accounts/:id", GetAccount(deps))
	router.Get("/accounts/:id/transactions", GetTransactions(deps))
}

// GetAccount returns a handler for a single account snapshot.
func GetAccount(deps *app.Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acc, err := deps.Accounts.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", ToAccountResponse(acc))
	}
}

func GetTransactions(deps *app.Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txs, err := deps.Accounts.History(c.UserContext(), c.Params("id"))
		if err != nil {
			deps.Logger.Error("Failed to list transactions", "account", c.Params("id"), "error", err)
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", ToTransactionResponses(txs))
	}
}

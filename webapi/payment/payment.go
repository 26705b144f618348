package payment

import (
	"github.com/amirasaad/payauth/pkg/app"
	paymentdomain "github.com/amirasaad/payauth/pkg/domain/payment"
	"github.com/amirasaad/payauth/pkg/middleware"
	paymentsvc "github.com/amirasaad/payauth/pkg/service/payment"
	"github.com/amirasaad/payauth/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the payment endpoints under router.
//
// Routes:
//   - POST /payments : Authorize and settle a transfer between two accounts.
func Routes(router fiber.Router, deps *app.Deps) {
	router.Post("/payments", ProcessPayment(deps))
}

// ProcessPayment returns a handler that runs a payment through the authorizer.
// Declines are reported with 200 and status "failure"; malformed requests and
// unknown accounts are problem responses.
func ProcessPayment(deps *app.Deps) fiber.Handler {
	logger := deps.Logger.With("handler", "ProcessPayment")
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[PaymentRequest](c)
		if input == nil {
			return err
		}
		ctx := c.UserContext()
		log := logger.With("subject", middleware.Subject(c))

		strategy, err := deps.Fees.Resolve(input.FeeStrategy)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid fee strategy", err)
		}
		sender, err := deps.Accounts.Get(ctx, input.SenderID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Sender account not found", err)
		}
		receiver, err := deps.Accounts.Get(ctx, input.ReceiverID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Receiver account not found", err)
		}

		result, err := deps.Authorizer.ProcessPayment(ctx, paymentsvc.Request{
			Sender:      sender,
			Receiver:    receiver,
			Amount:      input.Amount,
			Mode:        paymentdomain.Mode(input.Mode),
			Notes:       input.Notes,
			FeeStrategy: strategy,
		})
		if err != nil {
			log.Error("Payment processing failed", "error", err)
			return common.ProblemDetailsJSON(c, "Payment could not be processed", err)
		}
		log.Info("Payment processed",
			"sender", sender.ID,
			"receiver", receiver.ID,
			"status", result.Status,
		)
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment processed", ToPaymentResponse(result))
	}
}


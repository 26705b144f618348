package payment

import (
	paymentdomain "github.com/amirasaad/payauth/pkg/domain/payment"
	"github.com/shopspring/decimal"
)

// PaymentRequest is the body of POST /payments. Amount is in the sender's
// currency; positivity is enforced by the authorizer.
type PaymentRequest struct {
	SenderID    string          `json:"sender_id" validate:"required,max=64"`
	ReceiverID  string          `json:"receiver_id" validate:"required,max=64"`
	Amount      decimal.Decimal `json:"amount"`
	Mode        string          `json:"mode" validate:"omitempty,oneof=REGULAR INSTANT regular instant"`
	Notes       string          `json:"notes" validate:"max=255"`
	FeeStrategy string          `json:"fee_strategy" validate:"omitempty,max=32"`
}

// PaymentResponse reports the decision. TransferredAmount and Fee are set on
// success, Reason on failure.
type PaymentResponse struct {
	Status            string           `json:"status"`
	TransferredAmount *decimal.Decimal `json:"transferred_amount,omitempty"`
	Fee               *decimal.Decimal `json:"fee,omitempty"`
	Reason            string           `json:"reason,omitempty"`
	Attempts          int              `json:"attempts"`
}

// ToPaymentResponse maps a decision result to its wire form.
func ToPaymentResponse(r paymentdomain.Result) PaymentResponse {
	resp := PaymentResponse{Status: string(r.Status), Attempts: r.Attempts}
	if r.IsSuccess() {
		transferred, fee := r.TransferredAmount, r.Fee
		resp.TransferredAmount, resp.Fee = &transferred, &fee
	} else {
		resp.Reason = r.Reason
	}
	return resp
}

package request

import "encoding/json"

type CreateOrderRequest struct {
	PlanID        string `json:"planId" validate:"required,max=64"`
	CustomerName  string `json:"customerName" validate:"required,min=2,max=100"`
	CustomerEmail string `json:"customerEmail" validate:"required,email,max=255"`
	CustomerPhone string `json:"customerPhone" validate:"required,min=10,max=15"`
	Notes         string `json:"notes,omitempty" validate:"omitempty,max=500"`
	CouponCode    string `json:"couponCode,omitempty" validate:"omitempty,alphanum,max=50"`

	// Amount is accepted so older clients keep working. It is only logged;
	// the charged amount always comes from the pricing table.
	Amount json.RawMessage `json:"amount,omitempty" validate:"-"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" validate:"required,max=64"`
	PaymentID string `json:"paymentId" validate:"required,max=64"`
	Signature string `json:"signature" validate:"required,hexadecimal,len=64"`
}

type PaymentFailedRequest struct {
	OrderID string `json:"orderId" validate:"required,max=64"`
	Reason  string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

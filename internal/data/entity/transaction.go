package entity

import (
	"time"
)

type TransactionStatus string

const (
	TransactionStatusCreated  TransactionStatus = "created"
	TransactionStatusPaid     TransactionStatus = "paid"
	TransactionStatusFailed   TransactionStatus = "failed"
	TransactionStatusRefunded TransactionStatus = "refunded"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusCreated, TransactionStatusPaid, TransactionStatusFailed, TransactionStatusRefunded:
		return true
	}
	return false
}

// IsTerminal reports whether no confirmation path may move the status any more.
// Refunds are an explicit admin action and are not considered here.
func (s TransactionStatus) IsTerminal() bool {
	return s != TransactionStatusCreated
}

// IsConfirmed reports whether the gateway confirmed the money at some point.
func (s TransactionStatus) IsConfirmed() bool {
	return s == TransactionStatusPaid || s == TransactionStatusRefunded
}

// CanTransitionTo encodes the lifecycle:
// created -> paid | failed, paid -> refunded.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case TransactionStatusCreated:
		return next == TransactionStatusPaid || next == TransactionStatusFailed
	case TransactionStatusPaid:
		return next == TransactionStatusRefunded
	}
	return false
}

type Transaction struct {
	BaseNoDelete
	OrderID          string            `db:"order_id"`
	Receipt          string            `db:"receipt"`
	PlanID           string            `db:"plan_id"`
	Amount           int64             `db:"amount"` // minor units
	Currency         string            `db:"currency"`
	Status           TransactionStatus `db:"status"`
	CustomerName     string            `db:"customer_name"`
	CustomerEmail    string            `db:"customer_email"`
	CustomerPhone    string            `db:"customer_phone"`
	Notes            *string           `db:"notes"`
	CouponCode       *string           `db:"coupon_code"`
	GatewayPaymentID *string           `db:"gateway_payment_id"`
	GatewaySignature *string           `db:"gateway_signature"`
	PaymentMethod    *string           `db:"payment_method"`
	FailureReason    *string           `db:"failure_reason"`
	PaidAt           *time.Time        `db:"paid_at"`
}

type ConfirmationSource string

const (
	ConfirmationSourceClient  ConfirmationSource = "client"
	ConfirmationSourceWebhook ConfirmationSource = "webhook"
)

// PaymentConfirmation is a gateway payment that already passed signature checks.
type PaymentConfirmation struct {
	PaymentID   string
	Signature   string
	Method      *string
	Source      ConfirmationSource
	ConfirmedAt time.Time
}

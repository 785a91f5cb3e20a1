package events

import (
	"context"
	"time"
)

const (
	TypePaymentPaid     = "payment.paid"
	TypePaymentFailed   = "payment.failed"
	TypePaymentRefunded = "payment.refunded"

	// TypeFailureReported is a client-side failure report. It carries no
	// status change; the order stays payable.
	TypeFailureReported = "payment.failure_reported"
)

// PaymentEvent is emitted once per actual status change of a transaction, and
// once per recorded client failure report.
type PaymentEvent struct {
	Type          string     `json:"type"`
	OrderID       string     `json:"orderId"`
	PlanID        string     `json:"planId"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	CustomerEmail string     `json:"customerEmail"`
	PaymentID     string     `json:"paymentId,omitempty"`
	Source        string     `json:"source,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	OccurredAt    time.Time  `json:"occurredAt"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event PaymentEvent) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, PaymentEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

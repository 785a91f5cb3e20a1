package razorpay

import (
	"encoding/json"
	"fmt"
)

const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// WebhookEvent is the subset of a Razorpay webhook delivery this service reads.
type WebhookEvent struct {
	Entity    string   `json:"entity"`
	AccountID string   `json:"account_id"`
	Event     string   `json:"event"`
	Contains  []string `json:"contains"`
	CreatedAt int64    `json:"created_at"`
	Payload   struct {
		Payment *struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type PaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	Method           string `json:"method"`
	Email            string `json:"email"`
	Contact          string `json:"contact"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode razorpay webhook: %w", err)
	}
	if event.Event == "" {
		return nil, fmt.Errorf("decode razorpay webhook: missing event type")
	}
	return &event, nil
}

// Payment returns the payment entity carried by payment.* events, if any.
func (e *WebhookEvent) Payment() (*PaymentEntity, bool) {
	if e.Payload.Payment == nil {
		return nil, false
	}
	return &e.Payload.Payment.Entity, true
}

package response

import (
	"time"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/entity"
)

type TransactionResponse struct {
	ID               string                   `json:"id"`
	OrderID          string                   `json:"orderId"`
	Receipt          string                   `json:"receipt"`
	PlanID           string                   `json:"planId"`
	Amount           int64                    `json:"amount"`
	Currency         string                   `json:"currency"`
	DisplayAmount    string                   `json:"displayAmount"`
	Status           entity.TransactionStatus `json:"status"`
	CustomerName     string                   `json:"customerName"`
	CustomerEmail    string                   `json:"customerEmail"`
	CustomerPhone    string                   `json:"customerPhone"`
	Notes            *string                  `json:"notes,omitempty"`
	CouponCode       *string                  `json:"couponCode,omitempty"`
	GatewayPaymentID *string                  `json:"gatewayPaymentId,omitempty"`
	PaymentMethod    *string                  `json:"paymentMethod,omitempty"`
	FailureReason    *string                  `json:"failureReason,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
	PaidAt           *time.Time               `json:"paidAt,omitempty"`
}

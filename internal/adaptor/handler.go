package adaptor

import (
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Checkout *CheckoutHandler
	Webhook  *WebhookHandler
	Admin    *AdminHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Checkout: NewCheckoutHandler(service.Checkout, log),
		Webhook:  NewWebhookHandler(service.Webhook, log),
		Admin:    NewAdminHandler(service.Transaction, log),
	}
}

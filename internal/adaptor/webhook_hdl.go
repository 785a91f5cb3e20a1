package adaptor

import (
	"errors"
	"io"
	"net/http"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/usecase"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"go.uber.org/zap"
)

const (
	headerRazorpaySignature = "X-Razorpay-Signature"
	headerRazorpayEventID   = "X-Razorpay-Event-Id"
)

type WebhookHandler struct {
	service usecase.WebhookService
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.WebhookService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// Razorpay handles POST /api/webhooks/razorpay. The body is read raw because
// the signature covers the exact bytes sent.
func (h *WebhookHandler) Razorpay(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.HandleWebhook(r.Context(), usecase.WebhookDelivery{
		Body:      body,
		Signature: r.Header.Get(headerRazorpaySignature),
		EventID:   r.Header.Get(headerRazorpayEventID),
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSignature):
			utils.ResponseUnauthorized(w, "Invalid signature")
		case errors.Is(err, usecase.ErrValidation):
			utils.ResponseBadRequest(w, "Invalid payload", nil)
		default:
			h.log.Error("Webhook processing failed", zap.Error(err))
			utils.ResponseInternalError(w, "Internal server error")
		}
		return
	}

	h.log.Debug("Webhook acknowledged",
		zap.String("event_id", result.EventID),
		zap.String("event", result.EventType),
		zap.Bool("duplicate", result.Duplicate),
		zap.Bool("processed", result.Processed),
	)

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

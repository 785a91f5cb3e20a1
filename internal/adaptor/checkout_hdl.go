package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/dto/request"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/usecase"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type CheckoutHandler struct {
	service usecase.CheckoutService
	log     *zap.Logger
}

func NewCheckoutHandler(service usecase.CheckoutService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		log:     log.With(zap.String("handler", "checkout")),
	}
}

// ListPlans handles GET /api/plans (public)
func (h *CheckoutHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.service.ListPlans(r.Context()))
}

// CreateOrder handles POST /api/create-order (public)
func (h *CheckoutHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOrderRequest
	if err := decodeBody(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create order")
		return
	}

	utils.WriteJSON(w, http.StatusOK, order)
}

// VerifyPayment handles POST /api/verify-payment (public)
func (h *CheckoutHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyPaymentRequest
	if err := decodeBody(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.VerifyPayment(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "verify payment")
		return
	}

	utils.ResponseSuccess(w, "Payment verified", result)
}

// ReportFailure handles POST /api/payment-failed (public)
func (h *CheckoutHandler) ReportFailure(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentFailedRequest
	if err := decodeBody(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.ReportFailure(r.Context(), &req); err != nil {
		h.handleServiceError(w, err, "report payment failure")
		return
	}

	utils.ResponseSuccess(w, "Payment failure recorded", nil)
}

// handleServiceError maps checkout errors to responses. Messages stay generic
// so a caller cannot enumerate which order ids exist.
func (h *CheckoutHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrInvalidPlan):
		h.log.Warn(operation+" rejected", zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidSignature):
		h.log.Warn(operation+" failed - signature mismatch", zap.String("operation", operation))
		utils.ResponseUnauthorized(w, "Payment verification failed")

	case errors.Is(err, usecase.ErrTransactionNotFound):
		h.log.Warn(operation+" failed - unknown order", zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadRequest(w, "Payment verification failed", nil)

	case errors.Is(err, usecase.ErrInvalidTransition):
		h.log.Warn(operation+" failed - invalid state", zap.Error(err), zap.String("operation", operation))
		utils.ResponseConflict(w, "Transaction can no longer be updated")

	case errors.Is(err, usecase.ErrGatewayUnavailable):
		h.log.Error(operation+" failed - gateway", zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadGateway(w, "Payment gateway unavailable, please try again")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

package adaptor

import (
	"errors"
	"net/http"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/dto/request"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/usecase"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.TransactionService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.TransactionService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// ListTransactions handles GET /api/admin/transactions (admin only)
func (h *AdminHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ListTransactionsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		Status: query.Get("status"),
	}

	transactions, err := h.service.List(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "list transactions")
		return
	}

	utils.ResponseSuccess(w, "success", transactions)
}

// GetTransaction handles GET /api/admin/transactions/{orderId} (admin only)
func (h *AdminHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		utils.ResponseBadRequest(w, "Order ID is required", nil)
		return
	}

	transaction, err := h.service.Get(r.Context(), orderID)
	if err != nil {
		h.handleServiceError(w, err, "get transaction")
		return
	}

	utils.ResponseSuccess(w, "success", transaction)
}

// RefundTransaction handles PUT /api/admin/transactions/{orderId}/refund (admin only)
func (h *AdminHandler) RefundTransaction(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		utils.ResponseBadRequest(w, "Order ID is required", nil)
		return
	}

	transaction, err := h.service.Refund(r.Context(), orderID)
	if err != nil {
		h.handleServiceError(w, err, "refund transaction")
		return
	}

	utils.ResponseSuccess(w, "Refund recorded", transaction)
}

func (h *AdminHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.Is(err, usecase.ErrTransactionNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err), zap.String("operation", operation))
		utils.ResponseNotFound(w, "Transaction not found")

	case errors.As(err, &validationErr):
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrInvalidTransition):
		h.log.Warn(operation+" failed - invalid state", zap.Error(err), zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error())

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

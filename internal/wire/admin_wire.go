package wire

import (
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/adaptor"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/middleware"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/transactions", func(r chi.Router) {
		r.Use(middleware.AdminBasicAuth(config.Admin.Username, config.Admin.PasswordHash, log))

		// GET /api/admin/transactions - List transactions, optional status filter
		r.Get("/", adminHandler.ListTransactions)

		// GET /api/admin/transactions/{orderId} - Transaction detail
		r.Get("/{orderId}", adminHandler.GetTransaction)

		// PUT /api/admin/transactions/{orderId}/refund - Record a refund
		r.Put("/{orderId}/refund", adminHandler.RefundTransaction)
	})
}

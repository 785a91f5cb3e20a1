package wire

import (
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/adaptor"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireCheckout(
	r chi.Router,
	checkoutHandler *adaptor.CheckoutHandler,
	webhookHandler *adaptor.WebhookHandler,
	limiter *middleware.RateLimiter,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/plans - Plan catalogue with server-side prices
	r.Get("/api/plans", checkoutHandler.ListPlans)

	// ==================== CHECKOUT ROUTES (rate limited) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter))

		// POST /api/create-order - Create gateway order for a plan
		r.Post("/api/create-order", checkoutHandler.CreateOrder)
		r.Post("/api/create-payment-order", checkoutHandler.CreateOrder)
		r.Post("/create-order", checkoutHandler.CreateOrder)

		// POST /api/verify-payment - Confirm payment from checkout callback
		r.Post("/api/verify-payment", checkoutHandler.VerifyPayment)
		r.Post("/verify-payment", checkoutHandler.VerifyPayment)

		// POST /api/payment-failed - Client-reported failure or abandonment
		r.Post("/api/payment-failed", checkoutHandler.ReportFailure)
	})

	// ==================== GATEWAY ROUTES ====================
	// POST /api/webhooks/razorpay - Server-to-server payment events
	r.Post("/api/webhooks/razorpay", webhookHandler.Razorpay)
	r.Post("/razorpay-webhook", webhookHandler.Razorpay)
}

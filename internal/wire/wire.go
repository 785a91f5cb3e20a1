package wire

import (
	"net/http"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/adaptor"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/pricing"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/usecase"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/events"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/middleware"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired router
type App struct {
	Router *chi.Mux
}

// Dependencies are the external collaborators built in main.
type Dependencies struct {
	Gateway   usecase.PaymentGateway
	Pricing   *pricing.Table
	Publisher events.Publisher
	Redis     *redis.Client
}

// Wiring builds services, handlers and routes
func Wiring(repo *repository.Repository, deps Dependencies, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, usecase.Dependencies{
		Gateway:   deps.Gateway,
		Pricing:   deps.Pricing,
		Publisher: deps.Publisher,
	}, config, logger)
	handler := adaptor.NewHandler(service, logger)

	limiter := middleware.NewRateLimiter(deps.Redis, config.RateLimit.Requests, config.RateLimit.Window, logger)

	return &App{
		Router: setupRouter(handler, limiter, config, logger),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	limiter *middleware.RateLimiter,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.RealIP(config.App.TrustedProxies))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	// Apply routes
	wireCheckout(r, handler.Checkout, handler.Webhook, limiter)
	wireAdmin(r, handler.Admin, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

package usecase

import (
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/pricing"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/events"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"go.uber.org/zap"
)

type Dependencies struct {
	Gateway   PaymentGateway
	Pricing   *pricing.Table
	Publisher events.Publisher
}

type Service struct {
	Checkout    CheckoutService
	Webhook     WebhookService
	Transaction TransactionService
}

func NewService(repo *repository.Repository, deps Dependencies, config *utils.Config, log *zap.Logger) *Service {
	ledger := newPaymentLedger(repo.Transaction, deps.Publisher, log)

	return &Service{
		Checkout:    NewCheckoutService(repo, deps.Gateway, deps.Pricing, ledger, config, log),
		Webhook:     NewWebhookService(repo, ledger, config, log),
		Transaction: NewTransactionService(repo, ledger, log),
	}
}

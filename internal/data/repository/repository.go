package repository

import (
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Transaction  TransactionRepository
	WebhookEvent WebhookEventRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Transaction:  NewTransactionRepository(db, log),
		WebhookEvent: NewWebhookEventRepository(db, log),
	}
}

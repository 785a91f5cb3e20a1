// Package sqlite is the single-file store used by the edge deployment. It
// implements the same repository contracts as the Postgres adapter.
package sqlite

import (
	"database/sql"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository"

	"go.uber.org/zap"
)

func NewRepository(db *sql.DB, log *zap.Logger) *repository.Repository {
	return &repository.Repository{
		Transaction:  NewTransactionRepository(db, log),
		WebhookEvent: NewWebhookEventRepository(db, log),
	}
}

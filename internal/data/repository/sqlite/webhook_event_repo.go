package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/entity"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type webhookEventRepository struct {
	db  *sql.DB
	log *zap.Logger
}

func NewWebhookEventRepository(db *sql.DB, log *zap.Logger) repository.WebhookEventRepository {
	return &webhookEventRepository{
		db:  db,
		log: log.With(zap.String("repository", "webhook_event"), zap.String("driver", "sqlite")),
	}
}

func (r *webhookEventRepository) CreateIfNotExists(ctx context.Context, event *entity.WebhookEvent) (bool, *entity.WebhookEvent, error) {
	insert := `
		INSERT INTO payment_webhook_events (id, provider, event_id, event_type, payload, signature, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider, event_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, insert,
		event.ID.String(),
		event.Provider,
		event.EventID,
		event.EventType,
		event.Payload,
		event.Signature,
		event.CreatedAt.UTC(),
	)
	if err != nil {
		r.log.Error("Failed to store webhook event",
			zap.Error(err),
			zap.String("event_id", event.EventID),
		)
		return false, nil, fmt.Errorf("store webhook event %s: %w", event.EventID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 1 {
		return true, event, nil
	}

	query := `
		SELECT id, provider, event_id, event_type, payload, signature, created_at, processed_at, processing_error
		FROM payment_webhook_events
		WHERE provider = ? AND event_id = ?
	`

	var stored entity.WebhookEvent
	err = r.db.QueryRowContext(ctx, query, event.Provider, event.EventID).Scan(
		&stored.ID,
		&stored.Provider,
		&stored.EventID,
		&stored.EventType,
		&stored.Payload,
		&stored.Signature,
		&stored.CreatedAt,
		&stored.ProcessedAt,
		&stored.ProcessingError,
	)
	if err != nil {
		return false, nil, fmt.Errorf("load webhook event %s: %w", event.EventID, err)
	}

	return false, &stored, nil
}

func (r *webhookEventRepository) MarkProcessed(ctx context.Context, id uuid.UUID, processingErr *string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE payment_webhook_events SET processed_at = ?, processing_error = ? WHERE id = ?`,
		at.UTC(), processingErr, id.String(),
	)
	if err != nil {
		r.log.Error("Failed to mark webhook event processed",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("mark webhook event %s processed: %w", id.String(), err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("webhook event %s not found", id.String())
	}

	return nil
}

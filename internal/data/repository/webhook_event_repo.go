package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/entity"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookEventRepository is the append-only log of verified gateway deliveries.
type WebhookEventRepository interface {
	// CreateIfNotExists stores the event unless (provider, event_id) is already
	// known, and returns the stored row either way.
	CreateIfNotExists(ctx context.Context, event *entity.WebhookEvent) (bool, *entity.WebhookEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, processingErr *string, at time.Time) error
}

type webhookEventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWebhookEventRepository(db database.PgxIface, log *zap.Logger) WebhookEventRepository {
	return &webhookEventRepository{
		db:  db,
		log: log.With(zap.String("repository", "webhook_event")),
	}
}

func (r *webhookEventRepository) CreateIfNotExists(ctx context.Context, event *entity.WebhookEvent) (bool, *entity.WebhookEvent, error) {
	insert := `
		INSERT INTO payment_webhook_events (id, provider, event_id, event_type, payload, signature, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (provider, event_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, insert,
		event.ID,
		event.Provider,
		event.EventID,
		event.EventType,
		event.Payload,
		event.Signature,
		event.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to store webhook event",
			zap.Error(err),
			zap.String("event_id", event.EventID),
		)
		return false, nil, fmt.Errorf("store webhook event %s: %w", event.EventID, err)
	}

	if result.RowsAffected() == 1 {
		return true, event, nil
	}

	query := `
		SELECT id, provider, event_id, event_type, payload, signature, created_at, processed_at, processing_error
		FROM payment_webhook_events
		WHERE provider = $1 AND event_id = $2
	`

	var stored entity.WebhookEvent
	err = r.db.QueryRow(ctx, query, event.Provider, event.EventID).Scan(
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
	query := `
		UPDATE payment_webhook_events
		SET processed_at = $2, processing_error = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, at, processingErr)
	if err != nil {
		r.log.Error("Failed to mark webhook event processed",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("mark webhook event %s processed: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("webhook event %s not found", id.String())
	}

	return nil
}

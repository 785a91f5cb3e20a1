package entity

import "time"

// WebhookEvent is a verified gateway delivery, stored once per provider event id.
type WebhookEvent struct {
	BaseSimple
	Provider        string     `db:"provider"`
	EventID         string     `db:"event_id"`
	EventType       string     `db:"event_type"`
	Payload         string     `db:"payload"`
	Signature       string     `db:"signature"`
	ProcessedAt     *time.Time `db:"processed_at"`
	ProcessingError *string    `db:"processing_error"`
}

func (e *WebhookEvent) IsProcessed() bool {
	return e.ProcessedAt != nil
}

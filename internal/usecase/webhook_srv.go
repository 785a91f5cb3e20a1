package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/entity"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/razorpay"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"go.uber.org/zap"
)

const providerRazorpay = "razorpay"

// WebhookDelivery is one raw gateway callback, body untouched.
type WebhookDelivery struct {
	Body      []byte
	Signature string
	EventID   string
}

type WebhookResult struct {
	EventID   string
	EventType string
	Duplicate bool
	Ignored   bool
	Processed bool
}

type WebhookService interface {
	HandleWebhook(ctx context.Context, delivery WebhookDelivery) (*WebhookResult, error)
}

type webhookService struct {
	repo          *repository.Repository
	ledger        *paymentLedger
	webhookSecret string
	log           *zap.Logger
}

func NewWebhookService(repo *repository.Repository, ledger *paymentLedger, config *utils.Config, log *zap.Logger) WebhookService {
	return &webhookService{
		repo:          repo,
		ledger:        ledger,
		webhookSecret: config.Razorpay.WebhookSecret,
		log:           log.With(zap.String("service", "webhook")),
	}
}

// HandleWebhook authenticates the raw body before anything is parsed. Only a
// returned error asks the gateway to retry; business outcomes such as an
// unknown order are recorded on the event and acknowledged.
func (s *webhookService) HandleWebhook(ctx context.Context, delivery WebhookDelivery) (*WebhookResult, error) {
	if !razorpay.VerifyWebhookSignature(s.webhookSecret, delivery.Body, delivery.Signature) {
		s.log.Warn("Webhook signature mismatch", zap.Int("bytes", len(delivery.Body)))
		return nil, fmt.Errorf("%w: webhook", ErrInvalidSignature)
	}

	event, err := razorpay.ParseWebhookEvent(delivery.Body)
	if err != nil {
		s.log.Warn("Signed webhook with unreadable payload", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	eventID := strings.TrimSpace(delivery.EventID)
	if eventID == "" {
		sum := sha256.Sum256(delivery.Body)
		eventID = "sha256:" + hex.EncodeToString(sum[:])
	}

	result := &WebhookResult{EventID: eventID, EventType: event.Event}

	created, stored, err := s.repo.WebhookEvent.CreateIfNotExists(ctx, &entity.WebhookEvent{
		BaseSimple: entity.BaseSimple{ID: utils.GenerateUUID(), CreatedAt: s.ledger.now()},
		Provider:   providerRazorpay,
		EventID:    eventID,
		EventType:  event.Event,
		Payload:    string(delivery.Body),
		Signature:  delivery.Signature,
	})
	if err != nil {
		return nil, err
	}

	if !created && stored.IsProcessed() {
		s.log.Info("Duplicate webhook delivery", zap.String("event_id", eventID), zap.String("event", event.Event))
		result.Duplicate = true
		return result, nil
	}

	note, err := s.process(ctx, event, delivery.Signature, result)
	if err != nil {
		// left unprocessed so the gateway retry runs it again
		return nil, err
	}

	if err := s.repo.WebhookEvent.MarkProcessed(ctx, stored.ID, note, s.ledger.now()); err != nil {
		s.log.Error("Failed to mark webhook event processed", zap.Error(err), zap.String("event_id", eventID))
	}

	return result, nil
}

// process returns a processing note for outcomes that need no retry.
func (s *webhookService) process(ctx context.Context, event *razorpay.WebhookEvent, signature string, result *WebhookResult) (*string, error) {
	switch event.Event {
	case razorpay.EventPaymentCaptured:
		return s.captured(ctx, event, signature, result)
	case razorpay.EventPaymentFailed:
		return s.failed(ctx, event, result)
	default:
		s.log.Debug("Webhook event ignored", zap.String("event", event.Event))
		result.Ignored = true
		return nil, nil
	}
}

func (s *webhookService) captured(ctx context.Context, event *razorpay.WebhookEvent, signature string, result *WebhookResult) (*string, error) {
	payment, ok := event.Payment()
	if !ok || payment.OrderID == "" || payment.ID == "" {
		s.log.Warn("Captured event without payment or order id")
		result.Ignored = true
		return utils.StringPtr("captured event without payment or order id"), nil
	}

	tx, changed, err := s.ledger.confirm(ctx, payment.OrderID, entity.PaymentConfirmation{
		PaymentID:   payment.ID,
		Signature:   signature,
		Method:      utils.StringPtr(payment.Method),
		Source:      entity.ConfirmationSourceWebhook,
		ConfirmedAt: s.ledger.now(),
	})
	switch {
	case errors.Is(err, ErrTransactionNotFound):
		s.log.Warn("Captured payment for unknown order",
			zap.String("order_id", payment.OrderID),
			zap.String("payment_id", payment.ID),
		)
		return utils.StringPtr("unknown order " + payment.OrderID), nil
	case errors.Is(err, ErrInvalidTransition):
		s.log.Error("Captured payment on failed transaction, reconcile manually",
			zap.String("order_id", payment.OrderID),
			zap.String("payment_id", payment.ID),
			zap.Int64("amount", payment.Amount),
		)
		return utils.StringPtr("capture on failed transaction"), nil
	case err != nil:
		return nil, err
	}

	if payment.Amount != 0 && payment.Amount != tx.Amount {
		s.log.Error("Captured amount differs from order amount",
			zap.String("order_id", tx.OrderID),
			zap.Int64("expected", tx.Amount),
			zap.Int64("captured", payment.Amount),
		)
	}

	result.Processed = changed
	return nil, nil
}

// failed records a gateway-verified failure. A settled order is left as is.
func (s *webhookService) failed(ctx context.Context, event *razorpay.WebhookEvent, result *WebhookResult) (*string, error) {
	payment, ok := event.Payment()
	if !ok || payment.OrderID == "" {
		s.log.Warn("Failed event without order id")
		result.Ignored = true
		return utils.StringPtr("failed event without order id"), nil
	}

	_, changed, err := s.ledger.fail(ctx, payment.OrderID, utils.StringPtr(payment.ErrorDescription))
	switch {
	case errors.Is(err, ErrTransactionNotFound):
		s.log.Warn("Failed payment for unknown order", zap.String("order_id", payment.OrderID))
		return utils.StringPtr("unknown order " + payment.OrderID), nil
	case err != nil:
		return nil, err
	}

	result.Processed = changed
	return nil, nil
}

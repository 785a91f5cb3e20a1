package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/entity"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/events"

	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

// paymentLedger owns every status change of a transaction. Each change is a
// conditional update followed by a fresh read, so the client path and the
// webhook path can race without losing or repeating a transition.
type paymentLedger struct {
	repo      repository.TransactionRepository
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func newPaymentLedger(repo repository.TransactionRepository, publisher events.Publisher, log *zap.Logger) *paymentLedger {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &paymentLedger{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("component", "ledger")),
		now:       time.Now,
	}
}

// confirm moves created -> paid. Already paid or refunded is accepted as is;
// a failed transaction cannot be confirmed.
func (l *paymentLedger) confirm(ctx context.Context, orderID string, conf entity.PaymentConfirmation) (*entity.Transaction, bool, error) {
	changed, err := l.repo.MarkPaid(ctx, orderID, conf)
	if err != nil {
		return nil, false, err
	}

	tx, err := l.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	if tx == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrTransactionNotFound, orderID)
	}

	if changed {
		l.log.Info("Transaction paid",
			zap.String("order_id", orderID),
			zap.String("payment_id", conf.PaymentID),
			zap.String("source", string(conf.Source)),
		)
		l.publish(ctx, events.TypePaymentPaid, tx, func(e *events.PaymentEvent) {
			e.PaymentID = conf.PaymentID
			e.Source = string(conf.Source)
		})
		return tx, true, nil
	}

	switch {
	case tx.Status.IsConfirmed():
		l.log.Debug("Confirmation for already confirmed transaction",
			zap.String("order_id", orderID),
			zap.String("status", string(tx.Status)),
			zap.String("source", string(conf.Source)),
		)
		return tx, false, nil
	case !tx.Status.CanTransitionTo(entity.TransactionStatusPaid):
		return tx, false, fmt.Errorf("%w: order %s is %s", ErrInvalidTransition, orderID, tx.Status)
	default:
		return tx, false, fmt.Errorf("confirm order %s: status %s unchanged", orderID, tx.Status)
	}
}

// fail moves created -> failed on a gateway-verified failure. Any other
// status is left untouched.
func (l *paymentLedger) fail(ctx context.Context, orderID string, reason *string) (*entity.Transaction, bool, error) {
	changed, err := l.repo.MarkFailed(ctx, orderID, reason, l.now())
	if err != nil {
		return nil, false, err
	}

	tx, err := l.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	if tx == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrTransactionNotFound, orderID)
	}

	if changed {
		l.log.Info("Transaction failed", zap.String("order_id", orderID))
		l.publish(ctx, events.TypePaymentFailed, tx, func(e *events.PaymentEvent) {
			if reason != nil {
				e.Reason = *reason
			}
		})
	}

	if !changed && tx.Status.CanTransitionTo(entity.TransactionStatusFailed) {
		return tx, false, fmt.Errorf("fail order %s: status %s unchanged", orderID, tx.Status)
	}

	return tx, changed, nil
}

// noteFailure keeps a client-reported failure reason. The report is unsigned,
// so the status stays created and a later verified capture still lands.
func (l *paymentLedger) noteFailure(ctx context.Context, orderID string, reason *string) (*entity.Transaction, bool, error) {
	changed, err := l.repo.RecordFailure(ctx, orderID, reason, l.now())
	if err != nil {
		return nil, false, err
	}

	tx, err := l.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	if tx == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrTransactionNotFound, orderID)
	}

	if changed {
		l.log.Info("Client reported payment failure", zap.String("order_id", orderID))
		l.publish(ctx, events.TypeFailureReported, tx, func(e *events.PaymentEvent) {
			e.Source = string(entity.ConfirmationSourceClient)
			if reason != nil {
				e.Reason = *reason
			}
		})
	}

	return tx, changed, nil
}

// refund moves paid -> refunded. Refunding twice is a no-op.
func (l *paymentLedger) refund(ctx context.Context, orderID string) (*entity.Transaction, bool, error) {
	changed, err := l.repo.MarkRefunded(ctx, orderID, l.now())
	if err != nil {
		return nil, false, err
	}

	tx, err := l.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	if tx == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrTransactionNotFound, orderID)
	}

	if changed {
		l.log.Info("Transaction refunded", zap.String("order_id", orderID))
		l.publish(ctx, events.TypePaymentRefunded, tx, nil)
		return tx, true, nil
	}

	switch {
	case tx.Status == entity.TransactionStatusRefunded:
		return tx, false, nil
	case !tx.Status.CanTransitionTo(entity.TransactionStatusRefunded):
		return tx, false, fmt.Errorf("%w: cannot refund order %s in status %s", ErrInvalidTransition, orderID, tx.Status)
	default:
		return tx, false, fmt.Errorf("refund order %s: status %s unchanged", orderID, tx.Status)
	}
}

// publish never fails the caller; the transaction row is the source of truth.
func (l *paymentLedger) publish(ctx context.Context, eventType string, tx *entity.Transaction, decorate func(*events.PaymentEvent)) {
	event := events.PaymentEvent{
		Type:          eventType,
		OrderID:       tx.OrderID,
		PlanID:        tx.PlanID,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Status:        string(tx.Status),
		CustomerEmail: tx.CustomerEmail,
		OccurredAt:    l.now(),
		PaidAt:        tx.PaidAt,
	}
	if decorate != nil {
		decorate(&event)
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := l.publisher.Publish(pubCtx, event); err != nil {
		l.log.Error("Failed to publish payment event",
			zap.Error(err),
			zap.String("type", eventType),
			zap.String("order_id", tx.OrderID),
		)
	}
}

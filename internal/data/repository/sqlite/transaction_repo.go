package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/entity"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository"

	"go.uber.org/zap"
)

type transactionRepository struct {
	db  *sql.DB
	log *zap.Logger
}

func NewTransactionRepository(db *sql.DB, log *zap.Logger) repository.TransactionRepository {
	return &transactionRepository{
		db:  db,
		log: log.With(zap.String("repository", "transaction"), zap.String("driver", "sqlite")),
	}
}

const transactionColumns = `id, order_id, receipt, plan_id, amount, currency, status,
	customer_name, customer_email, customer_phone, notes, coupon_code,
	gateway_payment_id, gateway_signature, payment_method, failure_reason,
	created_at, updated_at, paid_at`

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID.String(),
		tx.OrderID,
		tx.Receipt,
		tx.PlanID,
		tx.Amount,
		tx.Currency,
		string(tx.Status),
		tx.CustomerName,
		tx.CustomerEmail,
		tx.CustomerPhone,
		tx.Notes,
		tx.CouponCode,
		tx.GatewayPaymentID,
		tx.GatewaySignature,
		tx.PaymentMethod,
		tx.FailureReason,
		tx.CreatedAt.UTC(),
		tx.UpdatedAt.UTC(),
		utcPtr(tx.PaidAt),
	)

	if err != nil {
		r.log.Error("Failed to create transaction",
			zap.Error(err),
			zap.String("order_id", tx.OrderID),
		)
		return fmt.Errorf("create transaction for order %s: %w", tx.OrderID, err)
	}

	return nil
}

func (r *transactionRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE order_id = ?`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find transaction by order ID",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("find transaction by order ID %s: %w", orderID, err)
	}

	return tx, nil
}

func (r *transactionRepository) List(ctx context.Context, filter repository.TransactionFilter, limit, offset int) ([]*entity.Transaction, error) {
	where, args := whereClause(filter)
	args = append(args, limit, offset)

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list transactions", zap.Error(err))
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*entity.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txs, nil
}

func (r *transactionRepository) Count(ctx context.Context, filter repository.TransactionFilter) (int64, error) {
	where, args := whereClause(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count transactions", zap.Error(err))
		return 0, fmt.Errorf("count transactions: %w", err)
	}

	return total, nil
}

func (r *transactionRepository) MarkPaid(ctx context.Context, orderID string, conf entity.PaymentConfirmation) (bool, error) {
	query := `
		UPDATE transactions
		SET status = ?, gateway_payment_id = ?, gateway_signature = ?,
		    payment_method = COALESCE(?, payment_method), paid_at = ?, updated_at = ?
		WHERE order_id = ? AND status = ?
	`

	at := conf.ConfirmedAt.UTC()
	return r.execChanged(ctx, "mark paid", orderID, query,
		string(entity.TransactionStatusPaid),
		conf.PaymentID,
		conf.Signature,
		conf.Method,
		at,
		at,
		orderID,
		string(entity.TransactionStatusCreated),
	)
}

func (r *transactionRepository) MarkFailed(ctx context.Context, orderID string, reason *string, at time.Time) (bool, error) {
	query := `
		UPDATE transactions
		SET status = ?, failure_reason = ?, updated_at = ?
		WHERE order_id = ? AND status = ?
	`

	return r.execChanged(ctx, "mark failed", orderID, query,
		string(entity.TransactionStatusFailed),
		reason,
		at.UTC(),
		orderID,
		string(entity.TransactionStatusCreated),
	)
}

func (r *transactionRepository) RecordFailure(ctx context.Context, orderID string, reason *string, at time.Time) (bool, error) {
	query := `
		UPDATE transactions
		SET failure_reason = ?, updated_at = ?
		WHERE order_id = ? AND status = ?
	`

	return r.execChanged(ctx, "record failure", orderID, query,
		reason,
		at.UTC(),
		orderID,
		string(entity.TransactionStatusCreated),
	)
}

func (r *transactionRepository) MarkRefunded(ctx context.Context, orderID string, at time.Time) (bool, error) {
	query := `
		UPDATE transactions
		SET status = ?, updated_at = ?
		WHERE order_id = ? AND status = ?
	`

	return r.execChanged(ctx, "mark refunded", orderID, query,
		string(entity.TransactionStatusRefunded),
		at.UTC(),
		orderID,
		string(entity.TransactionStatusPaid),
	)
}

func (r *transactionRepository) execChanged(ctx context.Context, op, orderID, query string, args ...any) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to update transaction status",
			zap.Error(err),
			zap.String("op", op),
			zap.String("order_id", orderID),
		)
		return false, fmt.Errorf("%s transaction %s: %w", op, orderID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s transaction %s: %w", op, orderID, err)
	}

	return affected == 1, nil
}

func whereClause(f repository.TransactionFilter) (string, []any) {
	if f.Status == nil {
		return "", nil
	}
	return " WHERE status = ?", []any{string(*f.Status)}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*entity.Transaction, error) {
	var (
		tx     entity.Transaction
		status string
	)

	err := row.Scan(
		&tx.ID,
		&tx.OrderID,
		&tx.Receipt,
		&tx.PlanID,
		&tx.Amount,
		&tx.Currency,
		&status,
		&tx.CustomerName,
		&tx.CustomerEmail,
		&tx.CustomerPhone,
		&tx.Notes,
		&tx.CouponCode,
		&tx.GatewayPaymentID,
		&tx.GatewaySignature,
		&tx.PaymentMethod,
		&tx.FailureReason,
		&tx.CreatedAt,
		&tx.UpdatedAt,
		&tx.PaidAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Status = entity.TransactionStatus(status)
	return &tx, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

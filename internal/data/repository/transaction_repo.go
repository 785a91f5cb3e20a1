package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/entity"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TransactionFilter struct {
	Status *entity.TransactionStatus
}

// TransactionRepository is the single source of truth for checkout state.
// Status changes are conditional updates; amount and currency are never updated.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	FindByOrderID(ctx context.Context, orderID string) (*entity.Transaction, error)
	List(ctx context.Context, filter TransactionFilter, limit, offset int) ([]*entity.Transaction, error)
	Count(ctx context.Context, filter TransactionFilter) (int64, error)

	// Business queries, each returns whether the row actually changed
	MarkPaid(ctx context.Context, orderID string, conf entity.PaymentConfirmation) (bool, error)
	MarkFailed(ctx context.Context, orderID string, reason *string, at time.Time) (bool, error)
	RecordFailure(ctx context.Context, orderID string, reason *string, at time.Time) (bool, error)
	MarkRefunded(ctx context.Context, orderID string, at time.Time) (bool, error)
}

type transactionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTransactionRepository(db database.PgxIface, log *zap.Logger) TransactionRepository {
	return &transactionRepository{
		db:  db,
		log: log.With(zap.String("repository", "transaction")),
	}
}

const transactionColumns = `id, order_id, receipt, plan_id, amount, currency, status,
	customer_name, customer_email, customer_phone, notes, coupon_code,
	gateway_payment_id, gateway_signature, payment_method, failure_reason,
	created_at, updated_at, paid_at`

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.Exec(ctx, query,
		tx.ID,
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
		tx.CreatedAt,
		tx.UpdatedAt,
		tx.PaidAt,
	)

	if err != nil {
		r.log.Error("Failed to create transaction",
			zap.Error(err),
			zap.String("order_id", tx.OrderID),
			zap.String("plan_id", tx.PlanID),
		)
		return fmt.Errorf("create transaction for order %s: %w", tx.OrderID, err)
	}

	return nil
}

func (r *transactionRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE order_id = $1`

	tx, err := scanTransaction(r.db.QueryRow(ctx, query, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
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

func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter, limit, offset int) ([]*entity.Transaction, error) {
	where, args := filter.where()
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s FROM transactions%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		transactionColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
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

func (r *transactionRepository) Count(ctx context.Context, filter TransactionFilter) (int64, error) {
	where, args := filter.where()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count transactions", zap.Error(err))
		return 0, fmt.Errorf("count transactions: %w", err)
	}

	return total, nil
}

func (r *transactionRepository) MarkPaid(ctx context.Context, orderID string, conf entity.PaymentConfirmation) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $2, gateway_payment_id = $3, gateway_signature = $4,
		    payment_method = COALESCE($5, payment_method), paid_at = $6, updated_at = $6
		WHERE order_id = $1 AND status = $7
	`

	result, err := r.db.Exec(ctx, query,
		orderID,
		string(entity.TransactionStatusPaid),
		conf.PaymentID,
		conf.Signature,
		conf.Method,
		conf.ConfirmedAt,
		string(entity.TransactionStatusCreated),
	)
	if err != nil {
		r.log.Error("Failed to mark transaction paid",
			zap.Error(err),
			zap.String("order_id", orderID),
			zap.String("source", string(conf.Source)),
		)
		return false, fmt.Errorf("mark transaction %s paid: %w", orderID, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *transactionRepository) MarkFailed(ctx context.Context, orderID string, reason *string, at time.Time) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $2, failure_reason = $3, updated_at = $4
		WHERE order_id = $1 AND status = $5
	`

	result, err := r.db.Exec(ctx, query,
		orderID,
		string(entity.TransactionStatusFailed),
		reason,
		at,
		string(entity.TransactionStatusCreated),
	)
	if err != nil {
		r.log.Error("Failed to mark transaction failed",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return false, fmt.Errorf("mark transaction %s failed: %w", orderID, err)
	}

	return result.RowsAffected() == 1, nil
}

// RecordFailure keeps a client-reported failure reason on a created
// transaction without changing its status.
func (r *transactionRepository) RecordFailure(ctx context.Context, orderID string, reason *string, at time.Time) (bool, error) {
	query := `
		UPDATE transactions
		SET failure_reason = $2, updated_at = $3
		WHERE order_id = $1 AND status = $4
	`

	result, err := r.db.Exec(ctx, query,
		orderID,
		reason,
		at,
		string(entity.TransactionStatusCreated),
	)
	if err != nil {
		r.log.Error("Failed to record transaction failure",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return false, fmt.Errorf("record failure for transaction %s: %w", orderID, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *transactionRepository) MarkRefunded(ctx context.Context, orderID string, at time.Time) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $2, updated_at = $3
		WHERE order_id = $1 AND status = $4
	`

	result, err := r.db.Exec(ctx, query,
		orderID,
		string(entity.TransactionStatusRefunded),
		at,
		string(entity.TransactionStatusPaid),
	)
	if err != nil {
		r.log.Error("Failed to mark transaction refunded",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return false, fmt.Errorf("mark transaction %s refunded: %w", orderID, err)
	}

	return result.RowsAffected() == 1, nil
}

func (f TransactionFilter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if f.Status != nil {
		args = append(args, string(*f.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
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

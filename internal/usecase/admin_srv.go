package usecase

import (
	"context"
	"fmt"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/entity"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/dto/request"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/dto/response"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/pricing"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"go.uber.org/zap"
)

type TransactionService interface {
	List(ctx context.Context, req *request.ListTransactionsRequest) (*response.PaginatedResponse[response.TransactionResponse], error)
	Get(ctx context.Context, orderID string) (*response.TransactionResponse, error)
	Refund(ctx context.Context, orderID string) (*response.TransactionResponse, error)
}

type transactionService struct {
	repo   *repository.Repository
	ledger *paymentLedger
	log    *zap.Logger
}

func NewTransactionService(repo *repository.Repository, ledger *paymentLedger, log *zap.Logger) TransactionService {
	return &transactionService{
		repo:   repo,
		ledger: ledger,
		log:    log.With(zap.String("service", "transaction")),
	}
}

func (s *transactionService) List(ctx context.Context, req *request.ListTransactionsRequest) (*response.PaginatedResponse[response.TransactionResponse], error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var filter repository.TransactionFilter
	if req.Status != "" {
		status := entity.TransactionStatus(req.Status)
		filter.Status = &status
	}

	txs, err := s.repo.Transaction.List(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Transaction.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]response.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		data = append(data, toTransactionResponse(tx))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *transactionService) Get(ctx context.Context, orderID string) (*response.TransactionResponse, error) {
	tx, err := s.repo.Transaction.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, orderID)
	}

	resp := toTransactionResponse(tx)
	return &resp, nil
}

// Refund records a refund issued from the gateway dashboard. It does not call
// the gateway refund API.
func (s *transactionService) Refund(ctx context.Context, orderID string) (*response.TransactionResponse, error) {
	tx, changed, err := s.ledger.refund(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if admin, ok := utils.GetAdminFromContext(ctx); ok && changed {
		s.log.Info("Refund recorded", zap.String("order_id", orderID), zap.String("admin", admin))
	}

	resp := toTransactionResponse(tx)
	return &resp, nil
}

func toTransactionResponse(tx *entity.Transaction) response.TransactionResponse {
	return response.TransactionResponse{
		ID:               tx.ID.String(),
		OrderID:          tx.OrderID,
		Receipt:          tx.Receipt,
		PlanID:           tx.PlanID,
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		DisplayAmount:    pricing.FormatMinor(tx.Amount, tx.Currency),
		Status:           tx.Status,
		CustomerName:     tx.CustomerName,
		CustomerEmail:    tx.CustomerEmail,
		CustomerPhone:    tx.CustomerPhone,
		Notes:            tx.Notes,
		CouponCode:       tx.CouponCode,
		GatewayPaymentID: tx.GatewayPaymentID,
		PaymentMethod:    tx.PaymentMethod,
		FailureReason:    tx.FailureReason,
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
		PaidAt:           tx.PaidAt,
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/entity"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/dto/request"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/dto/response"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/pricing"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/razorpay"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"go.uber.org/zap"
)

// PaymentGateway is the part of the hosted gateway checkout depends on.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, in razorpay.OrderRequest) (*razorpay.Order, error)
	KeyID() string
}

type CheckoutService interface {
	// Public catalogue
	ListPlans(ctx context.Context) *response.PlanListResponse

	// Checkout flow
	CreateOrder(ctx context.Context, req *request.CreateOrderRequest) (*response.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, req *request.VerifyPaymentRequest) (*response.VerifyPaymentResponse, error)
	ReportFailure(ctx context.Context, req *request.PaymentFailedRequest) error
}

type checkoutService struct {
	repo      *repository.Repository
	gateway   PaymentGateway
	pricing   *pricing.Table
	ledger    *paymentLedger
	keySecret string
	log       *zap.Logger
}

func NewCheckoutService(
	repo *repository.Repository,
	gateway PaymentGateway,
	table *pricing.Table,
	ledger *paymentLedger,
	config *utils.Config,
	log *zap.Logger,
) CheckoutService {
	return &checkoutService{
		repo:      repo,
		gateway:   gateway,
		pricing:   table,
		ledger:    ledger,
		keySecret: config.Razorpay.KeySecret,
		log:       log.With(zap.String("service", "checkout")),
	}
}

func (s *checkoutService) ListPlans(ctx context.Context) *response.PlanListResponse {
	plans := s.pricing.Plans()

	out := &response.PlanListResponse{
		Version: s.pricing.Version(),
		Plans:   make([]response.PlanResponse, 0, len(plans)),
	}
	for _, p := range plans {
		out.Plans = append(out.Plans, response.PlanResponse{
			ID:           p.ID,
			Name:         p.Name,
			Amount:       p.AmountMinor(),
			Currency:     p.Currency,
			DisplayPrice: p.DisplayPrice(),
		})
	}

	return out
}

func (s *checkoutService) CreateOrder(ctx context.Context, req *request.CreateOrderRequest) (*response.CreateOrderResponse, error) {
	// Validate request
	if err := validateRequest(req); err != nil {
		s.log.Warn("Create order validation failed", zap.Error(err))
		return nil, err
	}

	plan, ok := s.pricing.Lookup(req.PlanID)
	if !ok {
		s.log.Warn("Create order for unknown plan", zap.String("plan_id", req.PlanID))
		return nil, fmt.Errorf("%w: %s", ErrInvalidPlan, req.PlanID)
	}

	amount := plan.AmountMinor()
	if len(req.Amount) > 0 {
		s.log.Warn("Client supplied amount ignored",
			zap.String("plan_id", plan.ID),
			zap.ByteString("client_amount", req.Amount),
			zap.Int64("amount", amount),
		)
	}

	now := s.ledger.now()
	receipt := utils.GenerateReceipt(now)
	notes := utils.StringPtr(req.Notes)
	coupon := utils.StringPtr(req.CouponCode)

	gatewayNotes := map[string]string{
		"planId":         plan.ID,
		"pricingVersion": s.pricing.Version(),
		"customerName":   req.CustomerName,
		"customerEmail":  req.CustomerEmail,
		"customerPhone":  req.CustomerPhone,
	}
	if coupon != nil {
		gatewayNotes["couponCode"] = *coupon
	}
	if notes != nil {
		gatewayNotes["notes"] = *notes
	}

	order, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   amount,
		Currency: plan.Currency,
		Receipt:  receipt,
		Notes:    gatewayNotes,
	})
	if err != nil {
		s.log.Error("Gateway order creation failed",
			zap.Error(err),
			zap.String("plan_id", plan.ID),
			zap.String("receipt", receipt),
		)
		return nil, fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}

	if order.Amount != amount {
		s.log.Error("Gateway order amount mismatch",
			zap.String("order_id", order.ID),
			zap.Int64("expected", amount),
			zap.Int64("got", order.Amount),
		)
		return nil, fmt.Errorf("%w: order %s amount mismatch", ErrGatewayUnavailable, order.ID)
	}

	tx := &entity.Transaction{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:       order.ID,
		Receipt:       receipt,
		PlanID:        plan.ID,
		Amount:        amount,
		Currency:      plan.Currency,
		Status:        entity.TransactionStatusCreated,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Notes:         notes,
		CouponCode:    coupon,
	}

	if err := s.repo.Transaction.Create(ctx, tx); err != nil {
		s.log.Error("Gateway order created but not persisted",
			zap.Error(err),
			zap.String("order_id", order.ID),
		)
		return nil, fmt.Errorf("persist transaction: %w", err)
	}

	s.log.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("plan_id", plan.ID),
		zap.Int64("amount", amount),
		zap.String("customer", utils.MaskEmail(req.CustomerEmail)),
	)

	return &response.CreateOrderResponse{
		Success:  true,
		OrderID:  order.ID,
		Amount:   amount,
		Currency: plan.Currency,
		Key:      s.gateway.KeyID(),
		Receipt:  receipt,
	}, nil
}

func (s *checkoutService) VerifyPayment(ctx context.Context, req *request.VerifyPaymentRequest) (*response.VerifyPaymentResponse, error) {
	// Validate request
	if err := validateRequest(req); err != nil {
		s.log.Warn("Verify payment validation failed", zap.Error(err))
		return nil, err
	}

	if !razorpay.VerifyPaymentSignature(s.keySecret, req.OrderID, req.PaymentID, req.Signature) {
		s.log.Warn("Payment signature mismatch",
			zap.String("order_id", req.OrderID),
			zap.String("payment_id", req.PaymentID),
		)
		return nil, fmt.Errorf("%w: order %s", ErrInvalidSignature, req.OrderID)
	}

	tx, _, err := s.ledger.confirm(ctx, req.OrderID, entity.PaymentConfirmation{
		PaymentID:   req.PaymentID,
		Signature:   req.Signature,
		Source:      entity.ConfirmationSourceClient,
		ConfirmedAt: s.ledger.now(),
	})
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			s.log.Warn("Verified signature for unknown order", zap.String("order_id", req.OrderID))
		}
		return nil, err
	}

	return &response.VerifyPaymentResponse{
		OrderID: tx.OrderID,
		Status:  string(tx.Status),
	}, nil
}

func (s *checkoutService) ReportFailure(ctx context.Context, req *request.PaymentFailedRequest) error {
	// Validate request
	if err := validateRequest(req); err != nil {
		return err
	}

	tx, changed, err := s.ledger.noteFailure(ctx, req.OrderID, utils.StringPtr(req.Reason))
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			s.log.Warn("Failure reported for unknown order", zap.String("order_id", req.OrderID))
		}
		return err
	}

	if !changed {
		s.log.Info("Failure report ignored for settled transaction",
			zap.String("order_id", req.OrderID),
			zap.String("status", string(tx.Status)),
		)
	}

	return nil
}

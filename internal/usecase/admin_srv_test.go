package usecase

import (
	"context"
	"testing"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/entity"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/dto/request"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/events"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listRequest(page, perPage int, status string) *request.ListTransactionsRequest {
	return &request.ListTransactionsRequest{
		PaginatedRequest: request.PaginatedRequest{Page: page, PerPage: perPage},
		Status:           status,
	}
}

func TestTransactionServiceList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var orders []string
	for i := 0; i < 3; i++ {
		orders = append(orders, env.createOrder(t, "discover"))
	}
	_, err := env.checkout.VerifyPayment(ctx, verifyRequest(orders[0], "pay_1"))
	require.NoError(t, err)

	all, err := env.admin.List(ctx, listRequest(1, 2, ""))
	require.NoError(t, err)
	assert.Len(t, all.Data, 2)
	assert.Equal(t, int64(3), all.Pagination.Total)
	assert.Equal(t, 2, all.Pagination.TotalPages)

	paid, err := env.admin.List(ctx, listRequest(1, 10, "paid"))
	require.NoError(t, err)
	require.Len(t, paid.Data, 1)
	assert.Equal(t, orders[0], paid.Data[0].OrderID)
	assert.Equal(t, "₹5,500.00", paid.Data[0].DisplayAmount)

	empty, err := env.admin.List(ctx, listRequest(1, 10, "refunded"))
	require.NoError(t, err)
	assert.NotNil(t, empty.Data)
	assert.Empty(t, empty.Data)
}

func TestTransactionServiceListValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.admin.List(context.Background(), listRequest(1, 10, "pending"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTransactionServiceGet(t *testing.T) {
	env := newTestEnv(t)
	orderID := env.createOrder(t, "ascend-online")

	resp, err := env.admin.Get(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, resp.OrderID)
	assert.Equal(t, int64(649900), resp.Amount)
	assert.Equal(t, entity.TransactionStatusCreated, resp.Status)

	_, err = env.admin.Get(context.Background(), "order_missing")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestTransactionServiceRefund(t *testing.T) {
	env := newTestEnv(t)
	ctx := utils.SetAdminContext(context.Background(), "admin")
	orderID := env.createOrder(t, "discover")

	_, err := env.admin.Refund(ctx, orderID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.checkout.VerifyPayment(ctx, verifyRequest(orderID, "pay_1"))
	require.NoError(t, err)

	resp, err := env.admin.Refund(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusRefunded, resp.Status)

	again, err := env.admin.Refund(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusRefunded, again.Status)

	// a late client confirmation does not undo the refund
	verified, err := env.checkout.VerifyPayment(ctx, verifyRequest(orderID, "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, "refunded", verified.Status)

	assert.Equal(t, []string{events.TypePaymentPaid, events.TypePaymentRefunded}, env.publisher.Types())
}

func TestTransactionServiceRefundFailedOrUnknown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orderID := env.createOrder(t, "discover")
	pending := env.createOrder(t, "discover")
	_, err := env.webhook.HandleWebhook(ctx, signedDelivery(failedWebhookBody(orderID, "pay_1", "Card declined"), "evt_failed"))
	require.NoError(t, err)

	_, err = env.admin.Refund(ctx, orderID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, entity.TransactionStatusFailed, env.transaction(t, orderID).Status)

	_, err = env.admin.Refund(ctx, pending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.admin.Refund(ctx, "order_missing")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

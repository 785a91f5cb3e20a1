package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/entity"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookInvalidSignatureDoesNotMutate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orderID := env.createOrder(t, "discover")

	body := webhookBody("payment.captured", orderID, "pay_1", 550000)
	delivery := signedDelivery(body, "evt_1")
	delivery.Body = webhookBody("payment.captured", orderID, "pay_2", 550000)

	_, err := env.webhook.HandleWebhook(ctx, delivery)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	delivery = WebhookDelivery{Body: body, Signature: strings.Repeat("0", 64), EventID: "evt_1"}
	_, err = env.webhook.HandleWebhook(ctx, delivery)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// signed with the key secret instead of the webhook secret
	delivery = WebhookDelivery{Body: body, Signature: signWith(testKeySecret, body), EventID: "evt_1"}
	_, err = env.webhook.HandleWebhook(ctx, delivery)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	tx := env.transaction(t, orderID)
	assert.Equal(t, entity.TransactionStatusCreated, tx.Status)
	assert.Nil(t, tx.GatewayPaymentID)

	// the rejected deliveries left no trace in the event log
	result, err := env.webhook.HandleWebhook(ctx, signedDelivery(body, "evt_1"))
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.True(t, result.Processed)
}

func TestWebhookDuplicateDeliveryIsNotReprocessed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orderID := env.createOrder(t, "discover")
	body := webhookBody("payment.captured", orderID, "pay_1", 550000)

	first, err := env.webhook.HandleWebhook(ctx, signedDelivery(body, "evt_dup"))
	require.NoError(t, err)
	assert.True(t, first.Processed)

	second, err := env.webhook.HandleWebhook(ctx, signedDelivery(body, "evt_dup"))
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.False(t, second.Processed)

	assert.Len(t, env.publisher.Types(), 1)
}

func TestWebhookWithoutEventIDDeduplicatesOnBody(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orderID := env.createOrder(t, "discover")
	body := webhookBody("payment.captured", orderID, "pay_1", 550000)

	first, err := env.webhook.HandleWebhook(ctx, signedDelivery(body, ""))
	require.NoError(t, err)
	assert.Contains(t, first.EventID, "sha256:")

	second, err := env.webhook.HandleWebhook(ctx, signedDelivery(body, ""))
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.EventID, second.EventID)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	env := newTestEnv(t)
	orderID := env.createOrder(t, "discover")

	result, err := env.webhook.HandleWebhook(context.Background(),
		signedDelivery(webhookBody("payment.authorized", orderID, "pay_1", 550000), "evt_authorized"))
	require.NoError(t, err)

	assert.True(t, result.Ignored)
	assert.Equal(t, "payment.authorized", result.EventType)
	assert.Equal(t, entity.TransactionStatusCreated, env.transaction(t, orderID).Status)
}

func TestWebhookUnknownOrderIsAcknowledged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	body := webhookBody("payment.captured", "order_elsewhere", "pay_1", 100)

	result, err := env.webhook.HandleWebhook(ctx, signedDelivery(body, "evt_unknown"))
	require.NoError(t, err)
	assert.False(t, result.Processed)

	again, err := env.webhook.HandleWebhook(ctx, signedDelivery(body, "evt_unknown"))
	require.NoError(t, err)
	assert.True(t, again.Duplicate)
	assert.Equal(t, int64(0), env.countTransactions(t))
}

func TestWebhookCaptureAfterClientFailureReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orderID := env.createOrder(t, "discover")
	require.NoError(t, env.checkout.ReportFailure(ctx, &request.PaymentFailedRequest{OrderID: orderID, Reason: "popup closed"}))
	assert.Equal(t, entity.TransactionStatusCreated, env.transaction(t, orderID).Status)

	result, err := env.webhook.HandleWebhook(ctx, signedDelivery(webhookBody("payment.captured", orderID, "pay_1", 550000), "evt_late"))
	require.NoError(t, err)
	assert.True(t, result.Processed)

	tx := env.transaction(t, orderID)
	assert.Equal(t, entity.TransactionStatusPaid, tx.Status)
	require.NotNil(t, tx.GatewayPaymentID)
	assert.Equal(t, "pay_1", *tx.GatewayPaymentID)
	assert.Equal(t, []string{"payment.failure_reported", "payment.paid"}, env.publisher.Types())
}

func TestWebhookVerifiedFailureMarksFailed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orderID := env.createOrder(t, "discover")

	result, err := env.webhook.HandleWebhook(ctx, signedDelivery(failedWebhookBody(orderID, "pay_1", "Payment declined by bank"), "evt_failed"))
	require.NoError(t, err)
	assert.True(t, result.Processed)

	tx := env.transaction(t, orderID)
	assert.Equal(t, entity.TransactionStatusFailed, tx.Status)
	require.NotNil(t, tx.FailureReason)
	assert.Equal(t, "Payment declined by bank", *tx.FailureReason)

	// a second failed attempt on the same order changes nothing
	again, err := env.webhook.HandleWebhook(ctx, signedDelivery(failedWebhookBody(orderID, "pay_2", "Card expired"), "evt_failed_2"))
	require.NoError(t, err)
	assert.False(t, again.Processed)
	assert.Equal(t, []string{"payment.failed"}, env.publisher.Types())
}

func TestWebhookCaptureOnFailedTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orderID := env.createOrder(t, "discover")

	_, err := env.webhook.HandleWebhook(ctx, signedDelivery(failedWebhookBody(orderID, "pay_1", "Payment declined by bank"), "evt_failed"))
	require.NoError(t, err)
	require.Equal(t, entity.TransactionStatusFailed, env.transaction(t, orderID).Status)

	result, err := env.webhook.HandleWebhook(ctx, signedDelivery(webhookBody("payment.captured", orderID, "pay_2", 550000), "evt_late"))
	require.NoError(t, err)
	assert.False(t, result.Processed)

	again, err := env.webhook.HandleWebhook(ctx, signedDelivery(webhookBody("payment.captured", orderID, "pay_2", 550000), "evt_late"))
	require.NoError(t, err)
	assert.True(t, again.Duplicate)

	tx := env.transaction(t, orderID)
	assert.Equal(t, entity.TransactionStatusFailed, tx.Status)
	assert.Nil(t, tx.GatewayPaymentID)
	assert.Equal(t, []string{"payment.failed"}, env.publisher.Types())
}

func TestWebhookFailureDoesNotRegressPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orderID := env.createOrder(t, "discover")
	_, err := env.checkout.VerifyPayment(ctx, verifyRequest(orderID, "pay_1"))
	require.NoError(t, err)

	result, err := env.webhook.HandleWebhook(ctx, signedDelivery(failedWebhookBody(orderID, "pay_0", "Card declined"), "evt_stale"))
	require.NoError(t, err)
	assert.False(t, result.Processed)
	assert.Equal(t, entity.TransactionStatusPaid, env.transaction(t, orderID).Status)
}

func TestWebhookFailureForUnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.webhook.HandleWebhook(context.Background(),
		signedDelivery(failedWebhookBody("order_elsewhere", "pay_1", "Card declined"), "evt_failed_unknown"))
	require.NoError(t, err)
	assert.False(t, result.Processed)
	assert.Empty(t, env.publisher.Types())
}

func TestWebhookStoreErrorIsRetried(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orderID := env.createOrder(t, "discover")
	delivery := signedDelivery(webhookBody("payment.captured", orderID, "pay_1", 550000), "evt_retry")

	env.flaky.setFail(true)
	_, err := env.webhook.HandleWebhook(ctx, delivery)
	require.Error(t, err)
	assert.Equal(t, entity.TransactionStatusCreated, env.transaction(t, orderID).Status)

	env.flaky.setFail(false)
	result, err := env.webhook.HandleWebhook(ctx, delivery)
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.True(t, result.Processed)
	assert.Equal(t, entity.TransactionStatusPaid, env.transaction(t, orderID).Status)
}

func TestWebhookSignedButMalformed(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.webhook.HandleWebhook(context.Background(), signedDelivery([]byte(`{"entity":"event"}`), "evt_bad"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWebhookCapturedWithoutOrderID(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.webhook.HandleWebhook(context.Background(),
		signedDelivery([]byte(`{"event":"payment.captured","payload":{}}`), "evt_empty"))
	require.NoError(t, err)
	assert.True(t, result.Ignored)
}

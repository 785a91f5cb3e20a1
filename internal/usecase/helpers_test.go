package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/entity"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository/sqlite"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository/sqlite/sqlitetest"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/dto/request"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/pricing"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/events"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/razorpay"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testKeyID         = "rzp_test_key"
	testKeySecret     = "key-secret"
	testWebhookSecret = "hook-secret"
)

type fakeGateway struct {
	mu      sync.Mutex
	calls   []razorpay.OrderRequest
	err     error
	counter int

	// amount, when set, replaces the echoed order amount
	amount *int64
}

func (g *fakeGateway) CreateOrder(_ context.Context, in razorpay.OrderRequest) (*razorpay.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, in)
	if g.err != nil {
		return nil, g.err
	}

	g.counter++
	amount := in.Amount
	if g.amount != nil {
		amount = *g.amount
	}
	return &razorpay.Order{
		ID:       fmt.Sprintf("order_test%04d", g.counter),
		Amount:   amount,
		Currency: in.Currency,
		Receipt:  in.Receipt,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) KeyID() string { return testKeyID }

func (g *fakeGateway) Calls() []razorpay.OrderRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]razorpay.OrderRequest(nil), g.calls...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.PaymentEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.PaymentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// flakyTransactions fails MarkPaid while failMarkPaid is set.
type flakyTransactions struct {
	repository.TransactionRepository
	mu           sync.Mutex
	failMarkPaid bool
}

func (f *flakyTransactions) MarkPaid(ctx context.Context, orderID string, conf entity.PaymentConfirmation) (bool, error) {
	f.mu.Lock()
	fail := f.failMarkPaid
	f.mu.Unlock()
	if fail {
		return false, errors.New("database is locked")
	}
	return f.TransactionRepository.MarkPaid(ctx, orderID, conf)
}

func (f *flakyTransactions) setFail(v bool) {
	f.mu.Lock()
	f.failMarkPaid = v
	f.mu.Unlock()
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	repo      *repository.Repository
	flaky     *flakyTransactions
	gateway   *fakeGateway
	publisher *recordingPublisher
	pricing   *pricing.Table
	clock     *testClock
	checkout  CheckoutService
	webhook   WebhookService
	admin     TransactionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	table, err := pricing.Default()
	require.NoError(t, err)

	log := zap.NewNop()
	store := sqlite.NewRepository(sqlitetest.NewDB(t), log)
	flaky := &flakyTransactions{TransactionRepository: store.Transaction}
	repo := &repository.Repository{Transaction: flaky, WebhookEvent: store.WebhookEvent}

	config := &utils.Config{
		Razorpay: utils.RazorpayConfig{
			KeyID:         testKeyID,
			KeySecret:     testKeySecret,
			WebhookSecret: testWebhookSecret,
		},
	}

	env := &testEnv{
		repo:      repo,
		flaky:     flaky,
		gateway:   &fakeGateway{},
		publisher: &recordingPublisher{},
		pricing:   table,
		clock:     &testClock{now: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)},
	}

	ledger := newPaymentLedger(repo.Transaction, env.publisher, log)
	ledger.now = env.clock.Now

	env.checkout = NewCheckoutService(repo, env.gateway, table, ledger, config, log)
	env.webhook = NewWebhookService(repo, ledger, config, log)
	env.admin = NewTransactionService(repo, ledger, log)
	return env
}

func validOrderRequest(planID string) *request.CreateOrderRequest {
	return &request.CreateOrderRequest{
		PlanID:        planID,
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "9876543210",
	}
}

func (e *testEnv) createOrder(t *testing.T, planID string) string {
	t.Helper()
	resp, err := e.checkout.CreateOrder(context.Background(), validOrderRequest(planID))
	require.NoError(t, err)
	return resp.OrderID
}

func (e *testEnv) transaction(t *testing.T, orderID string) *entity.Transaction {
	t.Helper()
	tx, err := e.repo.Transaction.FindByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	require.NotNil(t, tx)
	return tx
}

func (e *testEnv) countTransactions(t *testing.T) int64 {
	t.Helper()
	n, err := e.repo.Transaction.Count(context.Background(), repository.TransactionFilter{})
	require.NoError(t, err)
	return n
}

func verifyRequest(orderID, paymentID string) *request.VerifyPaymentRequest {
	return &request.VerifyPaymentRequest{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: razorpay.PaymentSignature(testKeySecret, orderID, paymentID),
	}
}

func webhookBody(event, orderID, paymentID string, amount int64) []byte {
	return []byte(fmt.Sprintf(`{"entity":"event","event":%q,"contains":["payment"],"payload":{"payment":{"entity":{"id":%q,"order_id":%q,"amount":%d,"currency":"INR","status":"captured","method":"upi"}}},"created_at":1736935200}`,
		event, paymentID, orderID, amount))
}

func failedWebhookBody(orderID, paymentID, description string) []byte {
	return []byte(fmt.Sprintf(`{"entity":"event","event":"payment.failed","contains":["payment"],"payload":{"payment":{"entity":{"id":%q,"order_id":%q,"amount":550000,"currency":"INR","status":"failed","method":"card","error_code":"BAD_REQUEST_ERROR","error_description":%q}}},"created_at":1736935200}`,
		paymentID, orderID, description))
}

func signedDelivery(body []byte, eventID string) WebhookDelivery {
	return WebhookDelivery{
		Body:      body,
		Signature: razorpay.WebhookSignature(testWebhookSecret, body),
		EventID:   eventID,
	}
}

func signWith(secret string, body []byte) string {
	return razorpay.WebhookSignature(secret, body)
}

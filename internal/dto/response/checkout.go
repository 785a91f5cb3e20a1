package response

// CreateOrderResponse is what the browser needs to open the gateway checkout.
// Key is the public key id; the secret never leaves the server.
type CreateOrderResponse struct {
	Success  bool   `json:"success"`
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
	Receipt  string `json:"receipt"`
}

type VerifyPaymentResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type PlanResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	DisplayPrice string `json:"displayPrice"`
}

type PlanListResponse struct {
	Version string         `json:"version"`
	Plans   []PlanResponse `json:"plans"`
}

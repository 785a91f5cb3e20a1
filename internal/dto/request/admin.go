package request

type ListTransactionsRequest struct {
	PaginatedRequest
	Status string `json:"status" validate:"omitempty,oneof=created paid failed refunded"`
}

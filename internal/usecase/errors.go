package usecase

import (
	"errors"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"
)

// Sentinel errors, wrapped with context by the services and mapped to HTTP
// status codes by the handlers with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// ValidationError carries the per-field messages of a rejected request. It
// matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// validateRequest is the only place request structs are validated.
func validateRequest(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

package service

import (
	"errors"
	"fmt"

	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/store"
)

// Common service errors. Services return sentinel errors for expected
// conditions; callers check them with errors.Is and the API layer maps them
// to HTTP status codes.
var (
	// ErrSessionNotFound indicates the generation session does not exist.
	ErrSessionNotFound = errors.New("generation session not found")

	// ErrFlashcardNotFound indicates the flashcard does not exist.
	ErrFlashcardNotFound = errors.New("flashcard not found")
)

// ServiceError wraps unexpected errors from a service with operation context.
type ServiceError struct {
	Service   string // e.g. "generation", "approval"
	Operation string // e.g. "start_generation", "approve_suggestions"
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError wraps err with context, passing through sentinels the
// caller is expected to check directly.
func newServiceError(svc, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, store.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	if errors.Is(err, store.ErrFlashcardNotFound) {
		return ErrFlashcardNotFound
	}

	// Domain errors carry their own meaning for the API layer.
	if errors.Is(err, domain.ErrInvalidArgument) ||
		errors.Is(err, domain.ErrInvalidState) ||
		errors.Is(err, domain.ErrNotOwned) {
		return err
	}

	return &ServiceError{
		Service:   svc,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

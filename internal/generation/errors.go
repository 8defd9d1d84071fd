package generation

import (
	"errors"
	"fmt"
	"time"
)

// Provider error taxonomy. Adapters classify every provider failure into one
// of these so callers can decide what is retryable without inspecting
// provider-specific details.
var (
	// ErrAuthentication is returned for 401/403-class failures. Retrying
	// cannot fix a bad credential, so this is never retried.
	ErrAuthentication = errors.New("provider authentication failed")

	// ErrInvalidRequest is returned for 400/422-class failures: the request
	// itself is malformed or rejected. Not retryable.
	ErrInvalidRequest = errors.New("provider rejected request")

	// ErrTransient covers server-side errors, timeouts, and transport
	// failures that may resolve on retry.
	ErrTransient = errors.New("transient provider error")

	// ErrRateLimited is returned for 429-class responses. Retryable; the
	// provider's advertised wait hint, when present, is carried by a
	// RateLimitError.
	ErrRateLimited = errors.New("provider rate limit exceeded")

	// ErrInvalidResponse is returned when provider output does not match the
	// expected schema. A data-shape problem, not a transient fault: never
	// retried.
	ErrInvalidResponse = errors.New("invalid provider response")

	// ErrUnavailable is returned when the circuit breaker is open and calls
	// fail fast without reaching the network.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrInvalidConfig is returned when a generator is constructed with an
	// invalid configuration.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// RateLimitError wraps ErrRateLimited with the provider's advertised wait
// hint. RetryAfter is zero when the provider gave none.
type RateLimitError struct {
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "provider rate limit exceeded"
}

// Unwrap supports errors.Is(err, ErrRateLimited).
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// IsRetryable reports whether the resilient client should retry after err.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrRateLimited)
}

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/generation"
	"github.com/tendevs/cards-api/internal/service"
	"github.com/tendevs/cards-api/internal/service/auth"
	"github.com/tendevs/cards-api/internal/store"
)

// MapErrorToStatusCode maps domain, service, and store errors to HTTP status
// codes. Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	// Authentication failures.
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return http.StatusUnauthorized

	// Authorization failures.
	case errors.Is(err, domain.ErrNotOwned):
		return http.StatusForbidden

	// Missing resources.
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrFlashcardNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflicts: duplicate registrations and lifecycle violations.
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict

	// Caller defects.
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Circuit breaker open: the provider is deliberately not being called.
	case errors.Is(err, generation.ErrUnavailable):
		return http.StatusServiceUnavailable

	// Upstream AI provider failures.
	case errors.Is(err, generation.ErrAuthentication),
		errors.Is(err, generation.ErrInvalidRequest),
		errors.Is(err, generation.ErrTransient),
		errors.Is(err, generation.ErrRateLimited),
		errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the error. Internal
// details never leak: anything unmapped gets a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidRefreshToken):
		return "Invalid token"
	case errors.Is(err, domain.ErrNotOwned):
		return "You do not have access to this resource"
	case errors.Is(err, service.ErrSessionNotFound):
		return "Generation session not found"
	case errors.Is(err, service.ErrFlashcardNotFound):
		return "Flashcard not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, store.ErrEmailExists):
		return "Email address already registered"
	case errors.Is(err, domain.ErrInvalidState):
		return "Operation not allowed in the current state"
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, store.ErrInvalidEntity):
		// Argument errors are written to be safe for callers.
		return firstErrorLine(err)
	case errors.Is(err, generation.ErrUnavailable):
		return "Generation service temporarily unavailable"
	case errors.Is(err, generation.ErrRateLimited):
		return "Generation provider rate limit exceeded"
	case errors.Is(err, generation.ErrAuthentication),
		errors.Is(err, generation.ErrInvalidRequest),
		errors.Is(err, generation.ErrTransient),
		errors.Is(err, generation.ErrInvalidResponse):
		return "Generation provider request failed"
	default:
		return "An internal error occurred"
	}
}

// firstErrorLine strips any wrapped multi-line detail from an error message.
func firstErrorLine(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}

// SanitizeValidationError converts validator errors into a client-friendly
// message naming the offending fields without echoing submitted values.
func SanitizeValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Invalid request"
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fieldErr.Field())
	}
	return "Validation failed for: " + strings.Join(fields, ", ")
}

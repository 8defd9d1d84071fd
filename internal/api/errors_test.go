package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/generation"
	"github.com/tendevs/cards-api/internal/service"
	"github.com/tendevs/cards-api/internal/service/auth"
	"github.com/tendevs/cards-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"invalid refresh token", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"not owned", fmt.Errorf("%w: session abc", domain.ErrNotOwned), http.StatusForbidden},
		{"session not found", service.ErrSessionNotFound, http.StatusNotFound},
		{"flashcard not found", service.ErrFlashcardNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"invalid state", fmt.Errorf("%w: FAILED", domain.ErrInvalidState), http.StatusConflict},
		{"invalid argument", fmt.Errorf("%w: too short", domain.ErrInvalidArgument), http.StatusBadRequest},
		{"breaker open", generation.ErrUnavailable, http.StatusServiceUnavailable},
		{"provider auth", generation.ErrAuthentication, http.StatusBadGateway},
		{"provider transient", fmt.Errorf("%w: 502", generation.ErrTransient), http.StatusBadGateway},
		{"provider rate limited", &generation.RateLimitError{}, http.StatusBadGateway},
		{"provider malformed", generation.ErrInvalidResponse, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("unknown errors never leak detail", func(t *testing.T) {
		t.Parallel()
		msg := GetSafeErrorMessage(errors.New("pq: connection refused host=db.internal"))
		assert.Equal(t, "An internal error occurred", msg)
		assert.NotContains(t, msg, "db.internal")
	})

	t.Run("argument errors pass through", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("%w: input text must be between 1000 and 10000 characters, got 5",
			domain.ErrInvalidArgument)
		assert.Contains(t, GetSafeErrorMessage(err), "input text must be between")
	})

	t.Run("provider errors get generic message", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("%w: upstream returned 503 with secret detail", generation.ErrTransient)
		msg := GetSafeErrorMessage(err)
		assert.Equal(t, "Generation provider request failed", msg)
	})

	t.Run("wrapped errors resolve through the chain", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("loading session: %w", service.ErrSessionNotFound)
		assert.Equal(t, "Generation session not found", GetSafeErrorMessage(err))
	})
}

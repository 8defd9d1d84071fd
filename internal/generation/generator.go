package generation

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendevs/cards-api/internal/domain"
)

// Generator is the port for AI flashcard suggestion generation. The
// orchestrator and reconciler depend only on this abstraction; retry,
// backoff, and circuit breaking are the adapter's concern and invisible here.
type Generator interface {
	// GenerateSuggestions creates flashcard suggestions from the given input
	// text. The sessionID is pre-generated by the caller so suggestions can
	// be tagged with their session even if persistence happens later.
	//
	// Returns errors from the taxonomy in errors.go: ErrAuthentication,
	// ErrInvalidRequest, ErrTransient (after internal retries are
	// exhausted), or ErrInvalidResponse.
	GenerateSuggestions(ctx context.Context, inputText string, sessionID uuid.UUID) ([]domain.Suggestion, error)

	// EstimateCost returns the estimated cost in USD of generating
	// suggestions for the given text.
	EstimateCost(ctx context.Context, inputText string) (float64, error)

	// HealthCheck reports whether the provider is reachable and responding.
	HealthCheck(ctx context.Context) bool

	// ModelName returns the provider model this generator is configured for.
	ModelName() string
}

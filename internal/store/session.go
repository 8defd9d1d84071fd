package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/tendevs/cards-api/internal/domain"
)

// SessionStore defines the persistence operations for generation sessions and
// their suggestions. Suggestions are owned by the session row and are written
// and read through it, never independently.
type SessionStore interface {
	// Save persists a session snapshot, inserting or updating the session row
	// and replacing its suggestions. Newly inserted suggestions are assigned
	// ids by the store.
	// Returns ErrInvalidEntity if the owner does not exist.
	Save(ctx context.Context, session *domain.GenerationSession) error

	// GetByID retrieves a session by its unique id, with suggestions loaded
	// in their original order.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationSession, error)

	// UpdateAcceptedCount persists the accepted count for a completed session.
	// Returns ErrSessionNotFound if the session does not exist.
	UpdateAcceptedCount(ctx context.Context, id uuid.UUID, acceptedCount int) error

	// Delete removes a session and its suggestions.
	// Returns ErrSessionNotFound if the session does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByID reports whether a session with the given id exists.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// WithTx returns a new store instance that uses the provided transaction.
	// The returned store shares configuration with the original but executes
	// all operations within the transaction.
	WithTx(tx DBTX) SessionStore
}

package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/tendevs/cards-api/internal/domain"
)

// ListFilter narrows and pages flashcard listings. The zero value lists
// everything.
type ListFilter struct {
	// Provenance restricts results to one provenance value when non-nil.
	Provenance *domain.Provenance

	// Limit caps the number of results; 0 means no cap.
	Limit int

	// Offset skips the first n results.
	Offset int
}

// FlashcardStore defines the persistence operations for flashcards.
type FlashcardStore interface {
	// Save persists a flashcard snapshot, inserting or updating by id.
	// Returns ErrInvalidEntity if the owner or session does not exist.
	Save(ctx context.Context, card *domain.Flashcard) error

	// SaveAll persists a batch of flashcards. Callers that need atomicity
	// across the batch must invoke this through a store bound to a
	// transaction via WithTx.
	SaveAll(ctx context.Context, cards []*domain.Flashcard) error

	// GetByID retrieves a flashcard by its unique id.
	// Returns ErrFlashcardNotFound if the flashcard does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// ListByOwner retrieves flashcards belonging to a user, newest first,
	// narrowed by the filter.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]*domain.Flashcard, error)

	// ListBySession retrieves all flashcards created from a generation
	// session, newest first.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Flashcard, error)

	// Delete removes a flashcard by id.
	// Returns ErrFlashcardNotFound if the flashcard does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByID reports whether a flashcard with the given id exists.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx DBTX) FlashcardStore
}

package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/tendevs/cards-api/internal/domain"
)

// UserStore defines the persistence operations for user accounts.
type UserStore interface {
	// Create saves a new user to the store. It hashes nothing: the caller is
	// responsible for populating HashedPassword before calling.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByID retrieves a user by their unique id.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx DBTX) UserStore
}

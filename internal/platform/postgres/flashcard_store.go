package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/platform/logger"
	"github.com/tendevs/cards-api/internal/store"
)

// PostgresFlashcardStore implements the store.FlashcardStore interface using
// a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the
// FlashcardStore interface. The database handle is managed by the caller.
// If logger is nil, the process default is used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

const flashcardColumns = `id, owner_id, front, back, provenance, session_id, created_at, updated_at`

// Save implements store.FlashcardStore.Save, inserting or updating by id.
// Returns store.ErrInvalidEntity if the owner or session does not exist.
func (s *PostgresFlashcardStore) Save(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	snap := card.Snapshot()

	query := `
		INSERT INTO flashcards (` + flashcardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			front = EXCLUDED.front,
			back = EXCLUDED.back,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		snap.ID,
		snap.OwnerID,
		snap.Front,
		snap.Back,
		string(snap.Provenance),
		nullUUID(snap.SessionID),
		snap.CreatedAt,
		snap.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during flashcard save",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", snap.ID.String()))
			return fmt.Errorf("%w: referenced owner or session not found", store.ErrInvalidEntity)
		}
		log.Error("failed to save flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", snap.ID.String()))
		return MapError(err)
	}

	log.Debug("flashcard saved",
		slog.String("flashcard_id", snap.ID.String()),
		slog.String("provenance", string(snap.Provenance)))
	return nil
}

// SaveAll implements store.FlashcardStore.SaveAll. Atomicity across the batch
// is the caller's concern: bind the store to a transaction with WithTx first.
func (s *PostgresFlashcardStore) SaveAll(ctx context.Context, cards []*domain.Flashcard) error {
	for _, card := range cards {
		if err := s.Save(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

// GetByID implements store.FlashcardStore.GetByID.
// Returns store.ErrFlashcardNotFound if the flashcard does not exist.
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + flashcardColumns + ` FROM flashcards WHERE id = $1`

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found", slog.String("flashcard_id", id.String()))
			return nil, store.ErrFlashcardNotFound
		}
		log.Error("failed to get flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return nil, MapError(err)
	}
	return card, nil
}

// ListByOwner implements store.FlashcardStore.ListByOwner, newest first.
func (s *PostgresFlashcardStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.ListFilter,
) ([]*domain.Flashcard, error) {
	query := `
		SELECT ` + flashcardColumns + `
		FROM flashcards
		WHERE owner_id = $1
	`
	args := []any{ownerID}

	if filter.Provenance != nil {
		args = append(args, string(*filter.Provenance))
		query += fmt.Sprintf(" AND provenance = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return s.list(ctx, query, args...)
}

// ListBySession implements store.FlashcardStore.ListBySession, newest first.
func (s *PostgresFlashcardStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Flashcard, error) {
	query := `
		SELECT ` + flashcardColumns + `
		FROM flashcards
		WHERE session_id = $1
		ORDER BY created_at DESC
	`
	return s.list(ctx, query, sessionID)
}

func (s *PostgresFlashcardStore) list(ctx context.Context, query string, args ...any) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list flashcards", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := []*domain.Flashcard{}
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// Delete implements store.FlashcardStore.Delete.
// Returns store.ErrFlashcardNotFound if the flashcard does not exist.
func (s *PostgresFlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrFlashcardNotFound); err != nil {
		return err
	}

	log.Info("flashcard deleted", slog.String("flashcard_id", id.String()))
	return nil
}

// ExistsByID implements store.FlashcardStore.ExistsByID.
func (s *PostgresFlashcardStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM flashcards WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// WithTx implements store.FlashcardStore.WithTx.
func (s *PostgresFlashcardStore) WithTx(tx store.DBTX) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var snap domain.FlashcardSnapshot
	var provenance string
	var sessionID uuid.NullUUID

	err := row.Scan(
		&snap.ID,
		&snap.OwnerID,
		&snap.Front,
		&snap.Back,
		&provenance,
		&sessionID,
		&snap.CreatedAt,
		&snap.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	snap.Provenance = domain.Provenance(provenance)
	if sessionID.Valid {
		snap.SessionID = sessionID.UUID
	}
	return domain.FlashcardFromSnapshot(snap), nil
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

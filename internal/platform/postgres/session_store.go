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

// PostgresSessionStore implements the store.SessionStore interface using a
// PostgreSQL database as the storage backend. Suggestions live in a child
// table and are written and read through the session.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. The database handle is managed by the caller.
// If logger is nil, the process default is used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// Save implements store.SessionStore.Save. It upserts the session row and
// replaces the session's suggestions, assigning ids to suggestions that do
// not have one yet.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresSessionStore) Save(ctx context.Context, session *domain.GenerationSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	snap := session.Snapshot()

	query := `
		INSERT INTO generation_sessions
			(id, owner_id, input_text, status, generated_count, accepted_count,
			 model_name, estimated_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			generated_count = EXCLUDED.generated_count,
			accepted_count = EXCLUDED.accepted_count,
			model_name = EXCLUDED.model_name,
			estimated_cost = EXCLUDED.estimated_cost
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		snap.ID,
		snap.OwnerID,
		snap.InputText,
		string(snap.Status),
		snap.GeneratedCount,
		snap.AcceptedCount,
		nullString(snap.ModelName),
		nullFloat(snap.EstimatedCost),
		snap.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during session save",
				slog.String("error", err.Error()),
				slog.String("session_id", snap.ID.String()),
				slog.String("owner_id", snap.OwnerID.String()))
			return fmt.Errorf("%w: owner with ID %s not found",
				store.ErrInvalidEntity, snap.OwnerID)
		}
		log.Error("failed to save generation session",
			slog.String("error", err.Error()),
			slog.String("session_id", snap.ID.String()))
		return MapError(err)
	}

	if err := s.replaceSuggestions(ctx, snap.ID, snap.Suggestions); err != nil {
		log.Error("failed to save session suggestions",
			slog.String("error", err.Error()),
			slog.String("session_id", snap.ID.String()))
		return MapError(err)
	}

	log.Info("generation session saved",
		slog.String("session_id", snap.ID.String()),
		slog.String("status", string(snap.Status)),
		slog.Int("suggestion_count", len(snap.Suggestions)))
	return nil
}

// replaceSuggestions rewrites the suggestion rows for a session, preserving
// the order of the slice via the position column.
func (s *PostgresSessionStore) replaceSuggestions(
	ctx context.Context,
	sessionID uuid.UUID,
	suggestions []domain.Suggestion,
) error {
	if _, err := s.db.ExecContext(
		ctx,
		`DELETE FROM session_suggestions WHERE session_id = $1`,
		sessionID,
	); err != nil {
		return err
	}

	insert := `
		INSERT INTO session_suggestions (id, session_id, position, front, back)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i, sug := range suggestions {
		id := sug.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := s.db.ExecContext(ctx, insert, id, sessionID, i, sug.Front, sug.Back); err != nil {
			return err
		}
	}
	return nil
}

// GetByID implements store.SessionStore.GetByID. Suggestions are loaded in
// their original generation order.
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, input_text, status, generated_count, accepted_count,
		       model_name, estimated_cost, created_at
		FROM generation_sessions
		WHERE id = $1
	`

	var snap domain.SessionSnapshot
	var status string
	var modelName sql.NullString
	var estimatedCost sql.NullFloat64

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&snap.ID,
		&snap.OwnerID,
		&snap.InputText,
		&status,
		&snap.GeneratedCount,
		&snap.AcceptedCount,
		&modelName,
		&estimatedCost,
		&snap.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("generation session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get generation session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, MapError(err)
	}

	snap.Status = domain.SessionStatus(status)
	if modelName.Valid {
		snap.ModelName = modelName.String
	}
	if estimatedCost.Valid {
		cost := estimatedCost.Float64
		snap.EstimatedCost = &cost
	}

	suggestions, err := s.loadSuggestions(ctx, id)
	if err != nil {
		log.Error("failed to load session suggestions",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, MapError(err)
	}
	snap.Suggestions = suggestions

	return domain.SessionFromSnapshot(snap), nil
}

func (s *PostgresSessionStore) loadSuggestions(ctx context.Context, sessionID uuid.UUID) ([]domain.Suggestion, error) {
	query := `
		SELECT id, session_id, front, back
		FROM session_suggestions
		WHERE session_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	suggestions := []domain.Suggestion{}
	for rows.Next() {
		var sug domain.Suggestion
		if err := rows.Scan(&sug.ID, &sug.SessionID, &sug.Front, &sug.Back); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, sug)
	}
	return suggestions, rows.Err()
}

// UpdateAcceptedCount implements store.SessionStore.UpdateAcceptedCount.
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) UpdateAcceptedCount(ctx context.Context, id uuid.UUID, acceptedCount int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE generation_sessions SET accepted_count = $1 WHERE id = $2`,
		acceptedCount,
		id,
	)
	if err != nil {
		log.Error("failed to update accepted count",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrSessionNotFound); err != nil {
		return err
	}

	log.Debug("accepted count updated",
		slog.String("session_id", id.String()),
		slog.Int("accepted_count", acceptedCount))
	return nil
}

// Delete implements store.SessionStore.Delete. Suggestions are removed by the
// ON DELETE CASCADE on the child table.
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM generation_sessions WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete generation session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrSessionNotFound); err != nil {
		return err
	}

	log.Info("generation session deleted", slog.String("session_id", id.String()))
	return nil
}

// ExistsByID implements store.SessionStore.ExistsByID.
func (s *PostgresSessionStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM generation_sessions WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// WithTx implements store.SessionStore.WithTx.
func (s *PostgresSessionStore) WithTx(tx store.DBTX) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

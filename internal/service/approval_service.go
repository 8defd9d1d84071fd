package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/platform/logger"
	"github.com/tendevs/cards-api/internal/store"
)

// SuggestionApproval is one "approve this suggestion" instruction. Front and
// Back are nil when the caller keeps the original text; a supplied value,
// even one identical to the original, counts as an edit.
type SuggestionApproval struct {
	SuggestionID uuid.UUID
	Front        *string
	Back         *string
}

// ApprovalService reconciles approved suggestions into permanent flashcards.
type ApprovalService interface {
	// ApproveSuggestions turns approval instructions into flashcards with
	// correct provenance and updates the session's accepted count, all in a
	// single transaction. All-or-nothing: one unresolvable suggestion id
	// aborts the whole batch.
	ApproveSuggestions(
		ctx context.Context,
		ownerID, sessionID uuid.UUID,
		approvals []SuggestionApproval,
	) ([]*domain.Flashcard, error)
}

type approvalServiceImpl struct {
	db             *sql.DB
	sessionStore   store.SessionStore
	flashcardStore store.FlashcardStore
	logger         *slog.Logger
}

// NewApprovalService creates the approval reconciler. The db handle is used
// to run the flashcard batch and the session update in one transaction.
// If log is nil, the process default is used.
func NewApprovalService(
	db *sql.DB,
	sessionStore store.SessionStore,
	flashcardStore store.FlashcardStore,
	log *slog.Logger,
) ApprovalService {
	if log == nil {
		log = slog.Default()
	}
	return &approvalServiceImpl{
		db:             db,
		sessionStore:   sessionStore,
		flashcardStore: flashcardStore,
		logger:         log.With(slog.String("component", "approval_service")),
	}
}

// ApproveSuggestions implements ApprovalService. Ownership and state checks
// run before any suggestion is resolved, so a bad batch never partially
// approves.
func (s *approvalServiceImpl) ApproveSuggestions(
	ctx context.Context,
	ownerID, sessionID uuid.UUID,
	approvals []SuggestionApproval,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(approvals) == 0 {
		return nil, fmt.Errorf("%w: approval list cannot be empty", domain.ErrInvalidArgument)
	}

	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		return nil, newServiceError("approval", "approve_suggestions", "failed to load session", err)
	}
	if err := session.EnsureOwnedBy(ownerID); err != nil {
		return nil, err
	}
	if !session.CanProvideSuggestions() {
		return nil, fmt.Errorf("%w: can only approve suggestions from COMPLETED sessions, current status %s",
			domain.ErrInvalidState, session.Status())
	}

	cards, err := reconcile(ownerID, session, approvals)
	if err != nil {
		return nil, err
	}

	if err := session.UpdateAcceptedCount(len(cards)); err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.flashcardStore.WithTx(tx).SaveAll(ctx, cards); err != nil {
			return err
		}
		return s.sessionStore.WithTx(tx).UpdateAcceptedCount(ctx, sessionID, len(cards))
	})
	if err != nil {
		log.Error("failed to persist approval",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		return nil, newServiceError("approval", "approve_suggestions", "failed to persist approval", err)
	}

	log.Info("suggestions approved",
		slog.String("session_id", sessionID.String()),
		slog.Int("approved_count", len(cards)))
	return cards, nil
}

// reconcile resolves every approval against the session's suggestions and
// builds flashcards with the per-field provenance rule: a card is AI only
// when the caller supplied neither side; supplying either side, even with
// text identical to the original, makes it AI_USER.
func reconcile(
	ownerID uuid.UUID,
	session *domain.GenerationSession,
	approvals []SuggestionApproval,
) ([]*domain.Flashcard, error) {
	byID := make(map[uuid.UUID]domain.Suggestion)
	for _, sug := range session.Suggestions() {
		byID[sug.ID] = sug
	}

	cards := make([]*domain.Flashcard, 0, len(approvals))
	for _, approval := range approvals {
		original, ok := byID[approval.SuggestionID]
		if !ok {
			return nil, fmt.Errorf("%w: suggestion %s not found in session",
				domain.ErrInvalidArgument, approval.SuggestionID)
		}

		front := original.Front
		back := original.Back
		provenance := domain.ProvenanceAI
		if approval.Front != nil {
			front = *approval.Front
			provenance = domain.ProvenanceAIUser
		}
		if approval.Back != nil {
			back = *approval.Back
			provenance = domain.ProvenanceAIUser
		}

		card, err := domain.NewFlashcardFromSuggestion(ownerID, front, back, provenance, session.ID())
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/platform/logger"
	"github.com/tendevs/cards-api/internal/store"
)

// FlashcardService manages manually created and approved flashcards.
type FlashcardService interface {
	// CreateManual creates a flashcard written by the user (provenance USER).
	CreateManual(ctx context.Context, ownerID uuid.UUID, front, back string) (*domain.Flashcard, error)

	// UpdateContent replaces both sides of a card after an ownership check.
	// Provenance is unchanged.
	UpdateContent(ctx context.Context, ownerID, cardID uuid.UUID, front, back string) (*domain.Flashcard, error)

	// Delete removes a card after an ownership check.
	Delete(ctx context.Context, ownerID, cardID uuid.UUID) error

	// List returns the owner's cards, newest first, narrowed by the filter.
	List(ctx context.Context, ownerID uuid.UUID, filter store.ListFilter) ([]*domain.Flashcard, error)
}

type flashcardServiceImpl struct {
	flashcardStore store.FlashcardStore
	logger         *slog.Logger
}

// NewFlashcardService creates the flashcard management service.
// If log is nil, the process default is used.
func NewFlashcardService(flashcardStore store.FlashcardStore, log *slog.Logger) FlashcardService {
	if log == nil {
		log = slog.Default()
	}
	return &flashcardServiceImpl{
		flashcardStore: flashcardStore,
		logger:         log.With(slog.String("component", "flashcard_service")),
	}
}

// CreateManual implements FlashcardService.
func (s *flashcardServiceImpl) CreateManual(
	ctx context.Context,
	ownerID uuid.UUID,
	front, back string,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewManualFlashcard(ownerID, front, back)
	if err != nil {
		return nil, err
	}

	if err := s.flashcardStore.Save(ctx, card); err != nil {
		return nil, newServiceError("flashcard", "create_manual", "failed to save flashcard", err)
	}

	log.Info("manual flashcard created",
		slog.String("flashcard_id", card.ID().String()),
		slog.String("owner_id", ownerID.String()))
	return card, nil
}

// UpdateContent implements FlashcardService.
func (s *flashcardServiceImpl) UpdateContent(
	ctx context.Context,
	ownerID, cardID uuid.UUID,
	front, back string,
) (*domain.Flashcard, error) {
	card, err := s.flashcardStore.GetByID(ctx, cardID)
	if err != nil {
		return nil, newServiceError("flashcard", "update_content", "failed to load flashcard", err)
	}
	if err := card.EnsureOwnedBy(ownerID); err != nil {
		return nil, err
	}

	if err := card.UpdateContent(front, back); err != nil {
		return nil, err
	}

	if err := s.flashcardStore.Save(ctx, card); err != nil {
		return nil, newServiceError("flashcard", "update_content", "failed to save flashcard", err)
	}
	return card, nil
}

// Delete implements FlashcardService.
func (s *flashcardServiceImpl) Delete(ctx context.Context, ownerID, cardID uuid.UUID) error {
	card, err := s.flashcardStore.GetByID(ctx, cardID)
	if err != nil {
		return newServiceError("flashcard", "delete", "failed to load flashcard", err)
	}
	if err := card.EnsureOwnedBy(ownerID); err != nil {
		return err
	}

	if err := s.flashcardStore.Delete(ctx, cardID); err != nil {
		return newServiceError("flashcard", "delete", "failed to delete flashcard", err)
	}
	return nil
}

// List implements FlashcardService.
func (s *flashcardServiceImpl) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.ListFilter,
) ([]*domain.Flashcard, error) {
	cards, err := s.flashcardStore.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, newServiceError("flashcard", "list", "failed to list flashcards", err)
	}
	return cards, nil
}

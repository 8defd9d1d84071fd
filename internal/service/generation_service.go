package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/generation"
	"github.com/tendevs/cards-api/internal/platform/logger"
	"github.com/tendevs/cards-api/internal/store"
)

// GenerationService drives generation attempts and exposes their results.
type GenerationService interface {
	// StartGeneration runs one generation attempt to a terminal, persisted
	// outcome. On success the returned session is COMPLETED; on provider
	// failure a FAILED session is persisted and the provider error returned.
	StartGeneration(ctx context.Context, ownerID uuid.UUID, inputText string) (*domain.GenerationSession, error)

	// GetSession retrieves a session, enforcing ownership.
	GetSession(ctx context.Context, ownerID, sessionID uuid.UUID) (*domain.GenerationSession, error)

	// GetSuggestions returns the session's suggestions. Only COMPLETED
	// sessions provide suggestions; other statuses yield an empty list.
	GetSuggestions(ctx context.Context, ownerID, sessionID uuid.UUID) ([]domain.Suggestion, error)
}

type generationServiceImpl struct {
	sessionStore store.SessionStore
	generator    generation.Generator
	logger       *slog.Logger
}

// NewGenerationService creates the generation orchestrator.
// If log is nil, the process default is used.
func NewGenerationService(
	sessionStore store.SessionStore,
	generator generation.Generator,
	log *slog.Logger,
) GenerationService {
	if log == nil {
		log = slog.Default()
	}
	return &generationServiceImpl{
		sessionStore: sessionStore,
		generator:    generator,
		logger:       log.With(slog.String("component", "generation_service")),
	}
}

// StartGeneration implements GenerationService. The session id is generated
// before the provider call so the provider can tag suggestions with it and
// the failure path can persist a FAILED session under the same id. Exactly
// one save happens per invocation, always with a terminal status.
func (s *generationServiceImpl) StartGeneration(
	ctx context.Context,
	ownerID uuid.UUID,
	inputText string,
) (*domain.GenerationSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Input problems are caller defects, not generation attempts: reject
	// before burning a provider call or recording a session.
	if err := domain.ValidateInputText(inputText); err != nil {
		return nil, err
	}
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner ID cannot be empty", domain.ErrInvalidArgument)
	}

	sessionID := uuid.New()
	log.Info("starting generation",
		slog.String("session_id", sessionID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.Int("input_length", len(inputText)))

	suggestions, genErr := s.generator.GenerateSuggestions(ctx, inputText, sessionID)
	if genErr == nil && len(suggestions) == 0 {
		genErr = fmt.Errorf("%w: provider returned no suggestions", generation.ErrInvalidResponse)
	}

	var costErr error
	var estimatedCost *float64
	if genErr == nil {
		var cost float64
		cost, costErr = s.generator.EstimateCost(ctx, inputText)
		if costErr == nil {
			estimatedCost = &cost
		}
	}

	if genErr != nil || costErr != nil {
		originalErr := genErr
		if originalErr == nil {
			originalErr = costErr
		}
		return nil, s.persistFailure(ctx, sessionID, ownerID, inputText, originalErr)
	}

	session, err := domain.NewCompletedSession(
		sessionID, ownerID, inputText,
		suggestions, s.generator.ModelName(), estimatedCost,
	)
	if err != nil {
		return nil, s.persistFailure(ctx, sessionID, ownerID, inputText, err)
	}

	if err := s.sessionStore.Save(ctx, session); err != nil {
		log.Error("failed to persist completed session",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		return nil, newServiceError("generation", "start_generation", "failed to save session", err)
	}

	log.Info("generation completed",
		slog.String("session_id", sessionID.String()),
		slog.Int("suggestion_count", len(suggestions)))
	return session, nil
}

// persistFailure records a FAILED session under the pre-generated id and
// re-raises the original error. A failing save is surfaced instead of the
// original error: losing the session record silently would leave an
// unaccounted generation attempt.
func (s *generationServiceImpl) persistFailure(
	ctx context.Context,
	sessionID, ownerID uuid.UUID,
	inputText string,
	originalErr error,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := domain.NewFailedSession(sessionID, ownerID, inputText)
	if err != nil {
		return newServiceError("generation", "start_generation", "failed to construct failed session", err)
	}

	if err := s.sessionStore.Save(ctx, session); err != nil {
		log.Error("failed to persist failed session",
			slog.String("session_id", sessionID.String()),
			slog.String("save_error", err.Error()),
			slog.String("original_error", originalErr.Error()))
		return newServiceError("generation", "start_generation", "failed to save failed session", err)
	}

	log.Warn("generation failed",
		slog.String("session_id", sessionID.String()),
		slog.String("error", originalErr.Error()))
	return originalErr
}

// GetSession implements GenerationService.
func (s *generationServiceImpl) GetSession(
	ctx context.Context,
	ownerID, sessionID uuid.UUID,
) (*domain.GenerationSession, error) {
	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		return nil, newServiceError("generation", "get_session", "failed to load session", err)
	}
	if err := session.EnsureOwnedBy(ownerID); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSuggestions implements GenerationService.
func (s *generationServiceImpl) GetSuggestions(
	ctx context.Context,
	ownerID, sessionID uuid.UUID,
) ([]domain.Suggestion, error) {
	session, err := s.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.CanProvideSuggestions() {
		return []domain.Suggestion{}, nil
	}
	return session.Suggestions(), nil
}

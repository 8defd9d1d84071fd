package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/tendevs/cards-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    string    `json:"expires_at"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// StartGenerationRequest defines the payload for starting a generation
// session. Length bounds are enforced by the domain; the tag here only guards
// against empty bodies.
type StartGenerationRequest struct {
	InputText string `json:"input_text" validate:"required"`
}

// SessionResponse represents a generation session. ModelName and
// EstimatedCost are only present for COMPLETED sessions.
type SessionResponse struct {
	ID             uuid.UUID `json:"id"`
	Status         string    `json:"status"`
	GeneratedCount int       `json:"generated_count"`
	AcceptedCount  int       `json:"accepted_count"`
	ModelName      string    `json:"model_name,omitempty"`
	EstimatedCost  *float64  `json:"estimated_cost,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// SuggestionResponse represents one AI-proposed flashcard awaiting review.
type SuggestionResponse struct {
	ID    uuid.UUID `json:"id"`
	Front string    `json:"front"`
	Back  string    `json:"back"`
}

// SuggestionsResponse lists a session's suggestions alongside the session
// state. Non-COMPLETED sessions carry an empty list.
type SuggestionsResponse struct {
	SessionID   uuid.UUID            `json:"session_id"`
	Status      string               `json:"status"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}

// ApproveSuggestionItem is one approval instruction. Omitted front/back keep
// the suggestion's original text; a supplied value counts as an edit even if
// it matches the original.
type ApproveSuggestionItem struct {
	SuggestionID uuid.UUID `json:"suggestion_id" validate:"required"`
	Front        *string   `json:"front,omitempty"`
	Back         *string   `json:"back,omitempty"`
}

// ApproveSuggestionsRequest defines the payload for batch suggestion approval.
type ApproveSuggestionsRequest struct {
	Approvals []ApproveSuggestionItem `json:"approvals" validate:"required,min=1,dive"`
}

// CreateFlashcardRequest defines the payload for manual flashcard creation.
type CreateFlashcardRequest struct {
	Front string `json:"front" validate:"required,max=1000"`
	Back  string `json:"back"  validate:"required,max=1000"`
}

// UpdateFlashcardRequest defines the payload for editing a flashcard.
type UpdateFlashcardRequest struct {
	Front string `json:"front" validate:"required,max=1000"`
	Back  string `json:"back"  validate:"required,max=1000"`
}

// FlashcardResponse represents a stored flashcard. SessionID is only present
// for AI-originated cards.
type FlashcardResponse struct {
	ID         uuid.UUID  `json:"id"`
	Front      string     `json:"front"`
	Back       string     `json:"back"`
	Provenance string     `json:"provenance"`
	SessionID  *uuid.UUID `json:"session_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func sessionToResponse(session *domain.GenerationSession) SessionResponse {
	snap := session.Snapshot()
	return SessionResponse{
		ID:             snap.ID,
		Status:         string(snap.Status),
		GeneratedCount: snap.GeneratedCount,
		AcceptedCount:  snap.AcceptedCount,
		ModelName:      snap.ModelName,
		EstimatedCost:  snap.EstimatedCost,
		CreatedAt:      snap.CreatedAt,
	}
}

func sessionToSuggestionsResponse(session *domain.GenerationSession) SuggestionsResponse {
	suggestions := []domain.Suggestion{}
	if session.CanProvideSuggestions() {
		suggestions = session.Suggestions()
	}
	return SuggestionsResponse{
		SessionID:   session.ID(),
		Status:      string(session.Status()),
		Suggestions: suggestionsToResponse(suggestions),
	}
}

func suggestionsToResponse(suggestions []domain.Suggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, 0, len(suggestions))
	for _, sug := range suggestions {
		out = append(out, SuggestionResponse{
			ID:    sug.ID,
			Front: sug.Front,
			Back:  sug.Back,
		})
	}
	return out
}

func flashcardToResponse(card *domain.Flashcard) FlashcardResponse {
	snap := card.Snapshot()
	resp := FlashcardResponse{
		ID:         snap.ID,
		Front:      snap.Front,
		Back:       snap.Back,
		Provenance: string(snap.Provenance),
		CreatedAt:  snap.CreatedAt,
		UpdatedAt:  snap.UpdatedAt,
	}
	if snap.SessionID != uuid.Nil {
		sessionID := snap.SessionID
		resp.SessionID = &sessionID
	}
	return resp
}

func flashcardsToResponse(cards []*domain.Flashcard) []FlashcardResponse {
	out := make([]FlashcardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, flashcardToResponse(card))
	}
	return out
}

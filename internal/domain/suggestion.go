package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Suggestion is a single AI-proposed front/back pair belonging to a
// generation session. It is a value object: immutable once created, with no
// lifecycle of its own. The ID is uuid.Nil until the session store assigns
// one on save.
type Suggestion struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
}

// NewSuggestion creates a Suggestion tied to the given session.
// Returns an error if either side is blank.
func NewSuggestion(sessionID uuid.UUID, front, back string) (Suggestion, error) {
	if sessionID == uuid.Nil {
		return Suggestion{}, fmt.Errorf("%w: suggestion session ID cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(front) == "" {
		return Suggestion{}, fmt.Errorf("%w: suggestion front cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(back) == "" {
		return Suggestion{}, fmt.Errorf("%w: suggestion back cannot be empty", ErrInvalidArgument)
	}

	return Suggestion{
		ID:        uuid.Nil, // assigned on persistence
		SessionID: sessionID,
		Front:     front,
		Back:      back,
	}, nil
}

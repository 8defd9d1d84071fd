package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provenance records where a flashcard's content came from.
type Provenance string

// Possible provenance values.
const (
	// ProvenanceUser marks a card the user wrote from scratch.
	ProvenanceUser Provenance = "USER"
	// ProvenanceAI marks a card approved from an AI suggestion unchanged.
	ProvenanceAI Provenance = "AI"
	// ProvenanceAIUser marks a card approved from an AI suggestion after the
	// user edited the front, the back, or both.
	ProvenanceAIUser Provenance = "AI_USER"
)

// Maximum length of each flashcard side, in characters.
const MaxCardSideLen = 1000

// Flashcard is a permanently stored card with a provenance tag. Cards with
// AI provenance keep a reference to the generation session they came from.
//
// Fields are unexported: content changes go through UpdateContent, and
// persistence reads state through Snapshot.
type Flashcard struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	sessionID uuid.UUID // uuid.Nil unless provenance is AI or AI_USER
	provenance Provenance
	createdAt time.Time

	front     string
	back      string
	updatedAt time.Time
}

// FlashcardSnapshot is an immutable view of a Flashcard's state for
// persistence and presentation. SessionID is uuid.Nil for USER cards.
type FlashcardSnapshot struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Front      string
	Back       string
	Provenance Provenance
	SessionID  uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewFlashcardFromSuggestion creates a flashcard from an approved AI
// suggestion. Provenance must be AI or AI_USER and the source session ID is
// required.
func NewFlashcardFromSuggestion(
	ownerID uuid.UUID,
	front, back string,
	provenance Provenance,
	sessionID uuid.UUID,
) (*Flashcard, error) {
	if err := validateCardContent(front, back); err != nil {
		return nil, err
	}
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: flashcard owner ID cannot be empty", ErrInvalidArgument)
	}
	if provenance != ProvenanceAI && provenance != ProvenanceAIUser {
		return nil, fmt.Errorf("%w: AI-generated flashcards must have provenance AI or AI_USER, got %s",
			ErrInvalidArgument, provenance)
	}
	if sessionID == uuid.Nil {
		return nil, fmt.Errorf("%w: AI-generated flashcards must reference a generation session", ErrInvalidArgument)
	}

	now := time.Now().UTC()
	return &Flashcard{
		id:         uuid.New(),
		ownerID:    ownerID,
		front:      front,
		back:       back,
		provenance: provenance,
		sessionID:  sessionID,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// NewManualFlashcard creates a flashcard written by the user. Provenance is
// fixed to USER and no session is referenced.
func NewManualFlashcard(ownerID uuid.UUID, front, back string) (*Flashcard, error) {
	if err := validateCardContent(front, back); err != nil {
		return nil, err
	}
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: flashcard owner ID cannot be empty", ErrInvalidArgument)
	}

	now := time.Now().UTC()
	return &Flashcard{
		id:         uuid.New(),
		ownerID:    ownerID,
		front:      front,
		back:       back,
		provenance: ProvenanceUser,
		sessionID:  uuid.Nil,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// FlashcardFromSnapshot reconstructs a flashcard from persisted state,
// preserving the original ID and timestamps.
func FlashcardFromSnapshot(snap FlashcardSnapshot) *Flashcard {
	return &Flashcard{
		id:         snap.ID,
		ownerID:    snap.OwnerID,
		front:      snap.Front,
		back:       snap.Back,
		provenance: snap.Provenance,
		sessionID:  snap.SessionID,
		createdAt:  snap.CreatedAt,
		updatedAt:  snap.UpdatedAt,
	}
}

// UpdateContent replaces both sides of the card and bumps UpdatedAt.
// Provenance is never changed here: whether an edit should retag a card is a
// caller-level policy, not a Flashcard responsibility.
func (f *Flashcard) UpdateContent(front, back string) error {
	if err := validateCardContent(front, back); err != nil {
		return err
	}

	f.front = front
	f.back = back
	f.updatedAt = time.Now().UTC()
	return nil
}

// EnsureOwnedBy returns an error unless the card belongs to the given user.
func (f *Flashcard) EnsureOwnedBy(ownerID uuid.UUID) error {
	if f.ownerID != ownerID {
		return fmt.Errorf("%w: flashcard %s", ErrNotOwned, f.id)
	}
	return nil
}

// IsOwnedBy reports whether the card belongs to the given user.
func (f *Flashcard) IsOwnedBy(ownerID uuid.UUID) bool {
	return f.ownerID == ownerID
}

// IsAIGenerated reports whether the card originated from an AI suggestion.
func (f *Flashcard) IsAIGenerated() bool {
	return f.provenance == ProvenanceAI || f.provenance == ProvenanceAIUser
}

// ID returns the flashcard identifier.
func (f *Flashcard) ID() uuid.UUID {
	return f.id
}

// Snapshot exports the flashcard state for persistence or presentation.
func (f *Flashcard) Snapshot() FlashcardSnapshot {
	return FlashcardSnapshot{
		ID:         f.id,
		OwnerID:    f.ownerID,
		Front:      f.front,
		Back:       f.back,
		Provenance: f.provenance,
		SessionID:  f.sessionID,
		CreatedAt:  f.createdAt,
		UpdatedAt:  f.updatedAt,
	}
}

func validateCardContent(front, back string) error {
	if strings.TrimSpace(front) == "" {
		return fmt.Errorf("%w: front content cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(back) == "" {
		return fmt.Errorf("%w: back content cannot be empty", ErrInvalidArgument)
	}
	if len(front) > MaxCardSideLen {
		return fmt.Errorf("%w: front content cannot exceed %d characters, got %d",
			ErrInvalidArgument, MaxCardSideLen, len(front))
	}
	if len(back) > MaxCardSideLen {
		return fmt.Errorf("%w: back content cannot exceed %d characters, got %d",
			ErrInvalidArgument, MaxCardSideLen, len(back))
	}
	return nil
}

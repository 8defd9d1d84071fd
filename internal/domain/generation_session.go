package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle state of a generation session.
type SessionStatus string

// Possible session status values. COMPLETED and FAILED are terminal.
const (
	SessionStatusPending   SessionStatus = "PENDING"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusFailed    SessionStatus = "FAILED"
)

// Input text bounds for a generation session, in characters.
const (
	MinInputTextLen = 1000
	MaxInputTextLen = 10000
)

// GenerationSession is the aggregate root for one attempt to generate
// flashcard suggestions from input text. Suggestions belong to the session
// and have no independent lifecycle.
//
// All fields are unexported: state changes only through business methods,
// and persistence reads state only through Snapshot.
type GenerationSession struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	inputText string
	createdAt time.Time

	suggestions    []Suggestion
	generatedCount int
	acceptedCount  int
	modelName      string
	estimatedCost  *float64
	status         SessionStatus
}

// SessionSnapshot is an immutable view of a GenerationSession's state, used
// to persist the aggregate and to reconstruct it from storage. ModelName is
// empty and EstimatedCost nil unless the session completed.
type SessionSnapshot struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	InputText      string
	Suggestions    []Suggestion
	GeneratedCount int
	AcceptedCount  int
	ModelName      string
	EstimatedCost  *float64
	Status         SessionStatus
	CreatedAt      time.Time
}

// ValidateInputText checks the session input text length bounds.
func ValidateInputText(inputText string) error {
	n := len(inputText)
	if n < MinInputTextLen || n > MaxInputTextLen {
		return fmt.Errorf("%w: input text must be between %d and %d characters, got %d",
			ErrInvalidArgument, MinInputTextLen, MaxInputTextLen, n)
	}
	return nil
}

// NewSession creates a PENDING session with no suggestions. Use Complete or
// Fail to move it to a terminal state.
func NewSession(ownerID uuid.UUID, inputText string) (*GenerationSession, error) {
	if err := ValidateInputText(inputText); err != nil {
		return nil, err
	}
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: session owner ID cannot be empty", ErrInvalidArgument)
	}

	return &GenerationSession{
		id:        uuid.New(),
		ownerID:   ownerID,
		inputText: inputText,
		createdAt: time.Now().UTC(),
		status:    SessionStatusPending,
	}, nil
}

// NewCompletedSession creates a session directly in COMPLETED state with a
// pre-generated ID. Used by the orchestration path where the outcome is
// already known when the aggregate is constructed.
// Returns an error if suggestions is empty: a COMPLETED session with zero
// suggestions can never exist.
func NewCompletedSession(
	id uuid.UUID,
	ownerID uuid.UUID,
	inputText string,
	suggestions []Suggestion,
	modelName string,
	estimatedCost *float64,
) (*GenerationSession, error) {
	if err := ValidateInputText(inputText); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: session ID cannot be empty", ErrInvalidArgument)
	}
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: session owner ID cannot be empty", ErrInvalidArgument)
	}
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("%w: cannot create completed session without suggestions", ErrInvalidArgument)
	}

	return &GenerationSession{
		id:             id,
		ownerID:        ownerID,
		inputText:      inputText,
		createdAt:      time.Now().UTC(),
		suggestions:    copySuggestions(suggestions),
		generatedCount: len(suggestions),
		acceptedCount:  0,
		modelName:      modelName,
		estimatedCost:  copyCost(estimatedCost),
		status:         SessionStatusCompleted,
	}, nil
}

// NewFailedSession creates a session directly in FAILED state with a
// pre-generated ID: no suggestions, no model, no cost.
func NewFailedSession(id uuid.UUID, ownerID uuid.UUID, inputText string) (*GenerationSession, error) {
	if err := ValidateInputText(inputText); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: session ID cannot be empty", ErrInvalidArgument)
	}
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: session owner ID cannot be empty", ErrInvalidArgument)
	}

	return &GenerationSession{
		id:        id,
		ownerID:   ownerID,
		inputText: inputText,
		createdAt: time.Now().UTC(),
		status:    SessionStatusFailed,
	}, nil
}

// SessionFromSnapshot reconstructs a session from persisted state. It does
// not re-run construction validation: the snapshot is trusted to have been
// produced by a valid aggregate.
func SessionFromSnapshot(snap SessionSnapshot) *GenerationSession {
	return &GenerationSession{
		id:             snap.ID,
		ownerID:        snap.OwnerID,
		inputText:      snap.InputText,
		createdAt:      snap.CreatedAt,
		suggestions:    copySuggestions(snap.Suggestions),
		generatedCount: snap.GeneratedCount,
		acceptedCount:  snap.AcceptedCount,
		modelName:      snap.ModelName,
		estimatedCost:  copyCost(snap.EstimatedCost),
		status:         snap.Status,
	}
}

// Complete transitions a PENDING session to COMPLETED with the given
// suggestions and generation metadata. The suggestion list is defensively
// copied.
func (s *GenerationSession) Complete(suggestions []Suggestion, modelName string, estimatedCost *float64) error {
	if s.status != SessionStatusPending {
		return fmt.Errorf("%w: can only complete PENDING sessions, current status %s", ErrInvalidState, s.status)
	}
	if len(suggestions) == 0 {
		return fmt.Errorf("%w: cannot complete session without suggestions", ErrInvalidArgument)
	}

	s.suggestions = copySuggestions(suggestions)
	s.generatedCount = len(suggestions)
	s.modelName = modelName
	s.estimatedCost = copyCost(estimatedCost)
	s.status = SessionStatusCompleted
	return nil
}

// Fail transitions a PENDING session to FAILED.
func (s *GenerationSession) Fail() error {
	if s.status != SessionStatusPending {
		return fmt.Errorf("%w: can only fail PENDING sessions, current status %s", ErrInvalidState, s.status)
	}

	s.status = SessionStatusFailed
	return nil
}

// UpdateAcceptedCount records how many suggestions the owner has accepted.
// Only legal on COMPLETED sessions, and n must be within [0, generatedCount].
func (s *GenerationSession) UpdateAcceptedCount(n int) error {
	if s.status != SessionStatusCompleted {
		return fmt.Errorf("%w: can only update accepted count for COMPLETED sessions, current status %s",
			ErrInvalidState, s.status)
	}
	if n < 0 || n > s.generatedCount {
		return fmt.Errorf("%w: accepted count must be between 0 and %d, got %d",
			ErrInvalidArgument, s.generatedCount, n)
	}

	s.acceptedCount = n
	return nil
}

// EnsureOwnedBy returns an error unless the session belongs to the given user.
func (s *GenerationSession) EnsureOwnedBy(ownerID uuid.UUID) error {
	if s.ownerID != ownerID {
		return fmt.Errorf("%w: session %s", ErrNotOwned, s.id)
	}
	return nil
}

// IsOwnedBy reports whether the session belongs to the given user.
func (s *GenerationSession) IsOwnedBy(ownerID uuid.UUID) bool {
	return s.ownerID == ownerID
}

// CanProvideSuggestions reports whether suggestions may be read from this
// session. This is the single gate used everywhere suggestions are consumed:
// only COMPLETED sessions provide them.
func (s *GenerationSession) CanProvideSuggestions() bool {
	return s.status == SessionStatusCompleted
}

// IsPending reports whether the session is still PENDING.
func (s *GenerationSession) IsPending() bool {
	return s.status == SessionStatusPending
}

// ID returns the session identifier.
func (s *GenerationSession) ID() uuid.UUID {
	return s.id
}

// Status returns the current session status.
func (s *GenerationSession) Status() SessionStatus {
	return s.status
}

// Suggestions returns a copy of the session's suggestions. Mutating the
// returned slice does not affect the aggregate.
func (s *GenerationSession) Suggestions() []Suggestion {
	return copySuggestions(s.suggestions)
}

// Snapshot exports the session state for persistence or presentation.
// This is the only way to read the aggregate's full state.
func (s *GenerationSession) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		ID:             s.id,
		OwnerID:        s.ownerID,
		InputText:      s.inputText,
		Suggestions:    copySuggestions(s.suggestions),
		GeneratedCount: s.generatedCount,
		AcceptedCount:  s.acceptedCount,
		ModelName:      s.modelName,
		EstimatedCost:  copyCost(s.estimatedCost),
		Status:         s.status,
		CreatedAt:      s.createdAt,
	}
}

func copySuggestions(in []Suggestion) []Suggestion {
	if len(in) == 0 {
		return []Suggestion{}
	}
	out := make([]Suggestion, len(in))
	copy(out, in)
	return out
}

func copyCost(c *float64) *float64 {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

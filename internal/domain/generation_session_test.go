package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInputText() string {
	return strings.Repeat("a", MinInputTextLen)
}

func testSuggestions(t *testing.T, sessionID uuid.UUID, n int) []Suggestion {
	t.Helper()
	out := make([]Suggestion, 0, n)
	for i := 0; i < n; i++ {
		sug, err := NewSuggestion(sessionID, "front", "back")
		require.NoError(t, err)
		out = append(out, sug)
	}
	return out
}

func TestValidateInputText(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateInputText(validInputText()))
	assert.NoError(t, ValidateInputText(strings.Repeat("a", MaxInputTextLen)))

	err := ValidateInputText(strings.Repeat("a", MinInputTextLen-1))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = ValidateInputText(strings.Repeat("a", MaxInputTextLen+1))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	session, err := NewSession(ownerID, validInputText())
	require.NoError(t, err)
	assert.Equal(t, SessionStatusPending, session.Status())
	assert.True(t, session.IsPending())
	assert.False(t, session.CanProvideSuggestions())
	assert.Empty(t, session.Suggestions())

	_, err = NewSession(uuid.Nil, validInputText())
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	cost := 0.01

	t.Run("complete from pending", func(t *testing.T) {
		t.Parallel()

		session, err := NewSession(ownerID, validInputText())
		require.NoError(t, err)

		suggestions := testSuggestions(t, session.ID(), 3)
		require.NoError(t, session.Complete(suggestions, "test/model", &cost))

		assert.Equal(t, SessionStatusCompleted, session.Status())
		assert.True(t, session.CanProvideSuggestions())
		assert.Len(t, session.Suggestions(), 3)

		snap := session.Snapshot()
		assert.Equal(t, 3, snap.GeneratedCount)
		assert.Equal(t, 0, snap.AcceptedCount)
		assert.Equal(t, "test/model", snap.ModelName)
	})

	t.Run("complete requires suggestions", func(t *testing.T) {
		t.Parallel()

		session, err := NewSession(ownerID, validInputText())
		require.NoError(t, err)

		err = session.Complete(nil, "test/model", &cost)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.True(t, session.IsPending(), "failed transition must not change state")
	})

	t.Run("fail from pending", func(t *testing.T) {
		t.Parallel()

		session, err := NewSession(ownerID, validInputText())
		require.NoError(t, err)

		require.NoError(t, session.Fail())
		assert.Equal(t, SessionStatusFailed, session.Status())
		assert.False(t, session.CanProvideSuggestions())
	})

	t.Run("terminal states reject transitions", func(t *testing.T) {
		t.Parallel()

		session, err := NewSession(ownerID, validInputText())
		require.NoError(t, err)
		require.NoError(t, session.Fail())

		assert.ErrorIs(t, session.Fail(), ErrInvalidState)
		assert.ErrorIs(t, session.Complete(testSuggestions(t, session.ID(), 1), "m", nil), ErrInvalidState)
	})
}

func TestNewCompletedSession(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()
	ownerID := uuid.New()
	cost := 0.02

	t.Run("keeps the pre-generated id", func(t *testing.T) {
		t.Parallel()

		session, err := NewCompletedSession(
			sessionID, ownerID, validInputText(),
			testSuggestions(t, sessionID, 2), "test/model", &cost)
		require.NoError(t, err)

		assert.Equal(t, sessionID, session.ID())
		assert.Equal(t, SessionStatusCompleted, session.Status())
	})

	t.Run("rejects empty suggestions", func(t *testing.T) {
		t.Parallel()

		_, err := NewCompletedSession(sessionID, ownerID, validInputText(), nil, "test/model", &cost)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("cost is defensively copied", func(t *testing.T) {
		t.Parallel()

		mutable := 0.5
		session, err := NewCompletedSession(
			sessionID, ownerID, validInputText(),
			testSuggestions(t, sessionID, 1), "test/model", &mutable)
		require.NoError(t, err)

		mutable = 99.0
		require.NotNil(t, session.Snapshot().EstimatedCost)
		assert.InDelta(t, 0.5, *session.Snapshot().EstimatedCost, 1e-9)
	})
}

func TestNewFailedSession(t *testing.T) {
	t.Parallel()

	session, err := NewFailedSession(uuid.New(), uuid.New(), validInputText())
	require.NoError(t, err)

	snap := session.Snapshot()
	assert.Equal(t, SessionStatusFailed, snap.Status)
	assert.Empty(t, snap.Suggestions)
	assert.Empty(t, snap.ModelName)
	assert.Nil(t, snap.EstimatedCost)
	assert.Zero(t, snap.GeneratedCount)
}

func TestUpdateAcceptedCount(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()
	ownerID := uuid.New()

	completed := func(t *testing.T) *GenerationSession {
		t.Helper()
		session, err := NewCompletedSession(
			sessionID, ownerID, validInputText(),
			testSuggestions(t, sessionID, 3), "test/model", nil)
		require.NoError(t, err)
		return session
	}

	t.Run("within bounds", func(t *testing.T) {
		t.Parallel()
		session := completed(t)
		require.NoError(t, session.UpdateAcceptedCount(2))
		assert.Equal(t, 2, session.Snapshot().AcceptedCount)
	})

	t.Run("above generated count", func(t *testing.T) {
		t.Parallel()
		session := completed(t)
		assert.ErrorIs(t, session.UpdateAcceptedCount(4), ErrInvalidArgument)
	})

	t.Run("negative", func(t *testing.T) {
		t.Parallel()
		session := completed(t)
		assert.ErrorIs(t, session.UpdateAcceptedCount(-1), ErrInvalidArgument)
	})

	t.Run("failed session", func(t *testing.T) {
		t.Parallel()
		session, err := NewFailedSession(sessionID, ownerID, validInputText())
		require.NoError(t, err)
		assert.ErrorIs(t, session.UpdateAcceptedCount(0), ErrInvalidState)
	})
}

func TestSessionOwnership(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	session, err := NewSession(ownerID, validInputText())
	require.NoError(t, err)

	assert.NoError(t, session.EnsureOwnedBy(ownerID))
	assert.True(t, session.IsOwnedBy(ownerID))

	other := uuid.New()
	assert.ErrorIs(t, session.EnsureOwnedBy(other), ErrNotOwned)
	assert.False(t, session.IsOwnedBy(other))
}

func TestSessionSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()
	cost := 0.03
	session, err := NewCompletedSession(
		sessionID, uuid.New(), validInputText(),
		testSuggestions(t, sessionID, 2), "test/model", &cost)
	require.NoError(t, err)
	require.NoError(t, session.UpdateAcceptedCount(1))

	restored := SessionFromSnapshot(session.Snapshot())
	assert.Equal(t, session.Snapshot(), restored.Snapshot())
}

func TestSuggestionsAreDefensivelyCopied(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()
	session, err := NewCompletedSession(
		sessionID, uuid.New(), validInputText(),
		testSuggestions(t, sessionID, 2), "test/model", nil)
	require.NoError(t, err)

	leaked := session.Suggestions()
	leaked[0].Front = "tampered"

	assert.Equal(t, "front", session.Suggestions()[0].Front)
}

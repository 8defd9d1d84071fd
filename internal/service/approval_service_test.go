package service_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/service"
)

// approvalFixture wires an approval service over mock stores with a sqlmock
// database providing the transaction boundary.
type approvalFixture struct {
	svc       service.ApprovalService
	sessions  *mockSessionStore
	cards     *mockFlashcardStore
	mock      sqlmock.Sqlmock
	ownerID   uuid.UUID
	sessionID uuid.UUID
}

// newApprovalFixture seeds a COMPLETED session with five suggestions.
func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sessions := newMockSessionStore()
	cards := newMockFlashcardStore()

	ownerID := uuid.New()
	sessionID := uuid.New()
	suggestions := make([]domain.Suggestion, 5)
	for i := range suggestions {
		sug, err := domain.NewSuggestion(sessionID, "Q"+string(rune('1'+i)), "A"+string(rune('1'+i)))
		require.NoError(t, err)
		sug.ID = uuid.New()
		suggestions[i] = sug
	}
	session, err := domain.NewCompletedSession(sessionID, ownerID, validInput(), suggestions, "test/model", nil)
	require.NoError(t, err)
	require.NoError(t, sessions.Save(context.Background(), session))
	sessions.saveCalls = 0

	return &approvalFixture{
		svc:       service.NewApprovalService(db, sessions, cards, nil),
		sessions:  sessions,
		cards:     cards,
		mock:      mock,
		ownerID:   ownerID,
		sessionID: sessionID,
	}
}

func (f *approvalFixture) suggestionIDs() []uuid.UUID {
	snap := f.sessions.sessions[f.sessionID]
	ids := make([]uuid.UUID, len(snap.Suggestions))
	for i, sug := range snap.Suggestions {
		ids[i] = sug.ID
	}
	return ids
}

func (f *approvalFixture) expectCommit() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func (f *approvalFixture) expectRollback() {
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
}

func strPtr(s string) *string { return &s }

func TestApproveSuggestions_ProvenanceRule(t *testing.T) {
	t.Parallel()

	f := newApprovalFixture(t)
	ids := f.suggestionIDs()
	f.expectCommit()

	// Approve 2 of 5: one untouched, one with only the front edited.
	approvals := []service.SuggestionApproval{
		{SuggestionID: ids[0]},
		{SuggestionID: ids[1], Front: strPtr("Edited front")},
	}

	cards, err := f.svc.ApproveSuggestions(context.Background(), f.ownerID, f.sessionID, approvals)

	require.NoError(t, err)
	require.Len(t, cards, 2)

	first := cards[0].Snapshot()
	assert.Equal(t, domain.ProvenanceAI, first.Provenance)
	assert.Equal(t, "Q1", first.Front)

	second := cards[1].Snapshot()
	assert.Equal(t, domain.ProvenanceAIUser, second.Provenance)
	assert.Equal(t, "Edited front", second.Front)
	assert.Equal(t, "A2", second.Back) // untouched side keeps the original text

	for _, card := range cards {
		assert.Equal(t, f.sessionID, card.Snapshot().SessionID)
		assert.Equal(t, f.ownerID, card.Snapshot().OwnerID)
	}

	// Session bookkeeping updated.
	assert.Equal(t, 2, f.sessions.sessions[f.sessionID].AcceptedCount)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestApproveSuggestions_IdenticalEditStillMarksAIUser(t *testing.T) {
	t.Parallel()

	f := newApprovalFixture(t)
	ids := f.suggestionIDs()
	f.expectCommit()

	// Supplying text identical to the original still counts as an edit.
	approvals := []service.SuggestionApproval{
		{SuggestionID: ids[0], Back: strPtr("A1")},
	}

	cards, err := f.svc.ApproveSuggestions(context.Background(), f.ownerID, f.sessionID, approvals)

	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, domain.ProvenanceAIUser, cards[0].Snapshot().Provenance)
}

func TestApproveSuggestions_UnknownSuggestionAbortsBatch(t *testing.T) {
	t.Parallel()

	f := newApprovalFixture(t)
	ids := f.suggestionIDs()

	bogusID := uuid.New()
	approvals := []service.SuggestionApproval{
		{SuggestionID: ids[0]},
		{SuggestionID: bogusID},
	}

	_, err := f.svc.ApproveSuggestions(context.Background(), f.ownerID, f.sessionID, approvals)

	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), bogusID.String())

	// Zero flashcards persisted, accepted count untouched.
	assert.Empty(t, f.cards.cards)
	assert.Equal(t, 0, f.sessions.sessions[f.sessionID].AcceptedCount)
}

func TestApproveSuggestions_OwnershipCheckedBeforeResolution(t *testing.T) {
	t.Parallel()

	f := newApprovalFixture(t)

	// An unknown suggestion id from a non-owner must fail with NotOwned, not
	// InvalidArgument: ownership runs first.
	approvals := []service.SuggestionApproval{{SuggestionID: uuid.New()}}
	_, err := f.svc.ApproveSuggestions(context.Background(), uuid.New(), f.sessionID, approvals)

	assert.ErrorIs(t, err, domain.ErrNotOwned)
	assert.Empty(t, f.cards.cards)
}

func TestApproveSuggestions_SessionNotFound(t *testing.T) {
	t.Parallel()

	f := newApprovalFixture(t)

	approvals := []service.SuggestionApproval{{SuggestionID: uuid.New()}}
	_, err := f.svc.ApproveSuggestions(context.Background(), f.ownerID, uuid.New(), approvals)

	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestApproveSuggestions_FailedSessionNotApprovable(t *testing.T) {
	t.Parallel()

	f := newApprovalFixture(t)

	failed, err := domain.NewFailedSession(uuid.New(), f.ownerID, validInput())
	require.NoError(t, err)
	require.NoError(t, f.sessions.Save(context.Background(), failed))

	approvals := []service.SuggestionApproval{{SuggestionID: uuid.New()}}
	_, err = f.svc.ApproveSuggestions(context.Background(), f.ownerID, failed.ID(), approvals)

	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestApproveSuggestions_EmptyBatchRejected(t *testing.T) {
	t.Parallel()

	f := newApprovalFixture(t)

	_, err := f.svc.ApproveSuggestions(context.Background(), f.ownerID, f.sessionID, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestApproveSuggestions_PersistFailureRollsBack(t *testing.T) {
	t.Parallel()

	f := newApprovalFixture(t)
	ids := f.suggestionIDs()
	f.cards.saveAllErr = assert.AnError
	f.expectRollback()

	approvals := []service.SuggestionApproval{{SuggestionID: ids[0]}}
	_, err := f.svc.ApproveSuggestions(context.Background(), f.ownerID, f.sessionID, approvals)

	require.Error(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

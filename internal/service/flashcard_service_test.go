package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/service"
	"github.com/tendevs/cards-api/internal/store"
)

func TestFlashcardService_CreateManual(t *testing.T) {
	t.Parallel()

	cards := newMockFlashcardStore()
	svc := service.NewFlashcardService(cards, nil)

	ownerID := uuid.New()
	card, err := svc.CreateManual(context.Background(), ownerID, "What is Go?", "A language.")

	require.NoError(t, err)
	snap := card.Snapshot()
	assert.Equal(t, domain.ProvenanceUser, snap.Provenance)
	assert.Equal(t, uuid.Nil, snap.SessionID)
	assert.Len(t, cards.cards, 1)
}

func TestFlashcardService_CreateManual_ValidatesContent(t *testing.T) {
	t.Parallel()

	cards := newMockFlashcardStore()
	svc := service.NewFlashcardService(cards, nil)

	_, err := svc.CreateManual(context.Background(), uuid.New(), "  ", "back")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.CreateManual(context.Background(), uuid.New(), strings.Repeat("x", domain.MaxCardSideLen+1), "back")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	assert.Empty(t, cards.cards)
}

func TestFlashcardService_UpdateContent(t *testing.T) {
	t.Parallel()

	cards := newMockFlashcardStore()
	svc := service.NewFlashcardService(cards, nil)

	ownerID := uuid.New()
	card, err := svc.CreateManual(context.Background(), ownerID, "old front", "old back")
	require.NoError(t, err)

	updated, err := svc.UpdateContent(context.Background(), ownerID, card.ID(), "new front", "new back")

	require.NoError(t, err)
	snap := updated.Snapshot()
	assert.Equal(t, "new front", snap.Front)
	assert.Equal(t, "new back", snap.Back)
	assert.Equal(t, domain.ProvenanceUser, snap.Provenance) // edits never retag
}

func TestFlashcardService_UpdateContent_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	cards := newMockFlashcardStore()
	svc := service.NewFlashcardService(cards, nil)

	card, err := svc.CreateManual(context.Background(), uuid.New(), "front", "back")
	require.NoError(t, err)

	_, err = svc.UpdateContent(context.Background(), uuid.New(), card.ID(), "x", "y")
	assert.ErrorIs(t, err, domain.ErrNotOwned)
}

func TestFlashcardService_Delete(t *testing.T) {
	t.Parallel()

	cards := newMockFlashcardStore()
	svc := service.NewFlashcardService(cards, nil)

	ownerID := uuid.New()
	card, err := svc.CreateManual(context.Background(), ownerID, "front", "back")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), ownerID, card.ID()))
	assert.Empty(t, cards.cards)

	err = svc.Delete(context.Background(), ownerID, card.ID())
	assert.ErrorIs(t, err, service.ErrFlashcardNotFound)
}

func TestFlashcardService_Delete_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	cards := newMockFlashcardStore()
	svc := service.NewFlashcardService(cards, nil)

	card, err := svc.CreateManual(context.Background(), uuid.New(), "front", "back")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New(), card.ID())
	assert.ErrorIs(t, err, domain.ErrNotOwned)
	assert.Len(t, cards.cards, 1)
}

func TestFlashcardService_List(t *testing.T) {
	t.Parallel()

	cards := newMockFlashcardStore()
	svc := service.NewFlashcardService(cards, nil)

	ownerID := uuid.New()
	_, err := svc.CreateManual(context.Background(), ownerID, "f1", "b1")
	require.NoError(t, err)
	_, err = svc.CreateManual(context.Background(), ownerID, "f2", "b2")
	require.NoError(t, err)
	_, err = svc.CreateManual(context.Background(), uuid.New(), "other", "owner")
	require.NoError(t, err)

	got, err := svc.List(context.Background(), ownerID, store.ListFilter{})

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFlashcardService_List_ProvenanceFilter(t *testing.T) {
	t.Parallel()

	cards := newMockFlashcardStore()
	svc := service.NewFlashcardService(cards, nil)

	ownerID := uuid.New()
	_, err := svc.CreateManual(context.Background(), ownerID, "manual", "card")
	require.NoError(t, err)

	approved, err := domain.NewFlashcardFromSuggestion(ownerID, "ai", "card", domain.ProvenanceAI, uuid.New())
	require.NoError(t, err)
	require.NoError(t, cards.Save(context.Background(), approved))

	provenance := domain.ProvenanceAI
	got, err := svc.List(context.Background(), ownerID, store.ListFilter{Provenance: &provenance})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.ProvenanceAI, got[0].Snapshot().Provenance)
}

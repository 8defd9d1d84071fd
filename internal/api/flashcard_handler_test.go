package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/service"
	"github.com/tendevs/cards-api/internal/store"
)

// mockFlashcardService implements service.FlashcardService for handler tests.
type mockFlashcardService struct {
	card      *domain.Flashcard
	cards     []*domain.Flashcard
	err       error
	gotFilter store.ListFilter
}

func (m *mockFlashcardService) CreateManual(
	_ context.Context, _ uuid.UUID, _, _ string,
) (*domain.Flashcard, error) {
	return m.card, m.err
}

func (m *mockFlashcardService) UpdateContent(
	_ context.Context, _, _ uuid.UUID, _, _ string,
) (*domain.Flashcard, error) {
	return m.card, m.err
}

func (m *mockFlashcardService) Delete(_ context.Context, _, _ uuid.UUID) error {
	return m.err
}

func (m *mockFlashcardService) List(
	_ context.Context, _ uuid.UUID, filter store.ListFilter,
) ([]*domain.Flashcard, error) {
	m.gotFilter = filter
	return m.cards, m.err
}

func newFlashcardRouter(svc *mockFlashcardService, userID uuid.UUID) http.Handler {
	handler := NewFlashcardHandler(svc)

	r := chi.NewRouter()
	r.Use(withTestUser(userID))
	r.Post("/api/flashcards", handler.CreateFlashcard)
	r.Get("/api/flashcards", handler.ListFlashcards)
	r.Put("/api/flashcards/{id}", handler.UpdateFlashcard)
	r.Delete("/api/flashcards/{id}", handler.DeleteFlashcard)
	return r
}

func TestCreateFlashcard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("returns created card with USER provenance", func(t *testing.T) {
		t.Parallel()

		card, err := domain.NewManualFlashcard(userID, "What is Go?", "A programming language")
		require.NoError(t, err)

		router := newFlashcardRouter(&mockFlashcardService{card: card}, userID)

		body, _ := json.Marshal(CreateFlashcardRequest{Front: "What is Go?", Back: "A programming language"})
		req := httptest.NewRequest(http.MethodPost, "/api/flashcards", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp FlashcardResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "USER", resp.Provenance)
		assert.Nil(t, resp.SessionID, "manual cards have no session")
	})

	t.Run("empty front returns 400 before reaching the service", func(t *testing.T) {
		t.Parallel()

		router := newFlashcardRouter(&mockFlashcardService{}, userID)

		body, _ := json.Marshal(CreateFlashcardRequest{Front: "", Back: "A"})
		req := httptest.NewRequest(http.MethodPost, "/api/flashcards", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListFlashcards(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	manual, err := domain.NewManualFlashcard(userID, "Q", "A")
	require.NoError(t, err)
	approved, err := domain.NewFlashcardFromSuggestion(userID, "Q2", "A2", domain.ProvenanceAI, uuid.New())
	require.NoError(t, err)

	t.Run("returns the owner's cards", func(t *testing.T) {
		t.Parallel()

		router := newFlashcardRouter(&mockFlashcardService{cards: []*domain.Flashcard{approved, manual}}, userID)

		req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp []FlashcardResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "AI", resp[0].Provenance)
		assert.NotNil(t, resp[0].SessionID)
		assert.Equal(t, "USER", resp[1].Provenance)
		assert.Nil(t, resp[1].SessionID)
	})

	t.Run("passes query parameters through as a filter", func(t *testing.T) {
		t.Parallel()

		svc := &mockFlashcardService{cards: []*domain.Flashcard{approved}}
		router := newFlashcardRouter(svc, userID)

		req := httptest.NewRequest(http.MethodGet, "/api/flashcards?provenance=AI&limit=10&offset=5", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.gotFilter.Provenance)
		assert.Equal(t, domain.ProvenanceAI, *svc.gotFilter.Provenance)
		assert.Equal(t, 10, svc.gotFilter.Limit)
		assert.Equal(t, 5, svc.gotFilter.Offset)
	})

	t.Run("unknown provenance returns 400", func(t *testing.T) {
		t.Parallel()

		router := newFlashcardRouter(&mockFlashcardService{}, userID)

		req := httptest.NewRequest(http.MethodGet, "/api/flashcards?provenance=ROBOT", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative limit returns 400", func(t *testing.T) {
		t.Parallel()

		router := newFlashcardRouter(&mockFlashcardService{}, userID)

		req := httptest.NewRequest(http.MethodGet, "/api/flashcards?limit=-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateFlashcard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("other user's card returns 403", func(t *testing.T) {
		t.Parallel()

		svcErr := fmt.Errorf("%w: flashcard %s", domain.ErrNotOwned, uuid.New())
		router := newFlashcardRouter(&mockFlashcardService{err: svcErr}, userID)

		body, _ := json.Marshal(UpdateFlashcardRequest{Front: "Q", Back: "A"})
		req := httptest.NewRequest(http.MethodPut, "/api/flashcards/"+uuid.New().String(), bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown card returns 404", func(t *testing.T) {
		t.Parallel()

		router := newFlashcardRouter(&mockFlashcardService{err: service.ErrFlashcardNotFound}, userID)

		body, _ := json.Marshal(UpdateFlashcardRequest{Front: "Q", Back: "A"})
		req := httptest.NewRequest(http.MethodPut, "/api/flashcards/"+uuid.New().String(), bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteFlashcard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("success returns 204", func(t *testing.T) {
		t.Parallel()

		router := newFlashcardRouter(&mockFlashcardService{}, userID)

		req := httptest.NewRequest(http.MethodDelete, "/api/flashcards/"+uuid.New().String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		t.Parallel()

		router := newFlashcardRouter(&mockFlashcardService{}, userID)

		req := httptest.NewRequest(http.MethodDelete, "/api/flashcards/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

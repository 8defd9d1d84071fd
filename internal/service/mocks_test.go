package service_test

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/store"
)

// mockSessionStore is an in-memory store.SessionStore that records saves.
type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]domain.SessionSnapshot

	saveErr        error
	getErr         error
	saveCalls      int
	savedSnapshots []domain.SessionSnapshot
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[uuid.UUID]domain.SessionSnapshot)}
}

func (m *mockSessionStore) Save(ctx context.Context, session *domain.GenerationSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	snap := session.Snapshot()
	// Mimic the real store: assign suggestion ids on first save.
	for i := range snap.Suggestions {
		if snap.Suggestions[i].ID == uuid.Nil {
			snap.Suggestions[i].ID = uuid.New()
		}
	}
	m.sessions[snap.ID] = snap
	m.savedSnapshots = append(m.savedSnapshots, snap)
	return nil
}

func (m *mockSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	snap, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return domain.SessionFromSnapshot(snap), nil
}

func (m *mockSessionStore) UpdateAcceptedCount(ctx context.Context, id uuid.UUID, acceptedCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.sessions[id]
	if !ok {
		return store.ErrSessionNotFound
	}
	snap.AcceptedCount = acceptedCount
	m.sessions[id] = snap
	return nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return store.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	return ok, nil
}

func (m *mockSessionStore) WithTx(tx store.DBTX) store.SessionStore {
	return m
}

// mockFlashcardStore is an in-memory store.FlashcardStore.
type mockFlashcardStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]domain.FlashcardSnapshot

	saveErr    error
	getErr     error
	saveAllErr error
}

func newMockFlashcardStore() *mockFlashcardStore {
	return &mockFlashcardStore{cards: make(map[uuid.UUID]domain.FlashcardSnapshot)}
}

func (m *mockFlashcardStore) Save(ctx context.Context, card *domain.Flashcard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	snap := card.Snapshot()
	m.cards[snap.ID] = snap
	return nil
}

func (m *mockFlashcardStore) SaveAll(ctx context.Context, cards []*domain.Flashcard) error {
	if m.saveAllErr != nil {
		return m.saveAllErr
	}
	for _, card := range cards {
		if err := m.Save(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	snap, ok := m.cards[id]
	if !ok {
		return nil, store.ErrFlashcardNotFound
	}
	return domain.FlashcardFromSnapshot(snap), nil
}

func (m *mockFlashcardStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.ListFilter,
) ([]*domain.Flashcard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cards := []*domain.Flashcard{}
	for _, snap := range m.cards {
		if snap.OwnerID != ownerID {
			continue
		}
		if filter.Provenance != nil && snap.Provenance != *filter.Provenance {
			continue
		}
		cards = append(cards, domain.FlashcardFromSnapshot(snap))
	}
	return cards, nil
}

func (m *mockFlashcardStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Flashcard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cards := []*domain.Flashcard{}
	for _, snap := range m.cards {
		if snap.SessionID == sessionID {
			cards = append(cards, domain.FlashcardFromSnapshot(snap))
		}
	}
	return cards, nil
}

func (m *mockFlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return store.ErrFlashcardNotFound
	}
	delete(m.cards, id)
	return nil
}

func (m *mockFlashcardStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.cards[id]
	return ok, nil
}

func (m *mockFlashcardStore) WithTx(tx store.DBTX) store.FlashcardStore {
	return m
}

// mockGenerator is a scriptable generation.Generator.
type mockGenerator struct {
	suggestions   []struct{ front, back string }
	generateErr   error
	estimateCost  float64
	estimateErr   error
	modelName     string
	generateCalls int
}

func (m *mockGenerator) GenerateSuggestions(
	ctx context.Context,
	inputText string,
	sessionID uuid.UUID,
) ([]domain.Suggestion, error) {
	m.generateCalls++
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	out := make([]domain.Suggestion, 0, len(m.suggestions))
	for _, s := range m.suggestions {
		sug, err := domain.NewSuggestion(sessionID, s.front, s.back)
		if err != nil {
			return nil, err
		}
		out = append(out, sug)
	}
	return out, nil
}

func (m *mockGenerator) EstimateCost(ctx context.Context, inputText string) (float64, error) {
	if m.estimateErr != nil {
		return 0, m.estimateErr
	}
	return m.estimateCost, nil
}

func (m *mockGenerator) HealthCheck(ctx context.Context) bool { return true }

func (m *mockGenerator) ModelName() string {
	if m.modelName == "" {
		return "test/model"
	}
	return m.modelName
}

func validInput() string {
	return strings.Repeat("a", domain.MinInputTextLen)
}

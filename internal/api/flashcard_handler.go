package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/tendevs/cards-api/internal/api/middleware"
	"github.com/tendevs/cards-api/internal/api/shared"
	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/service"
	"github.com/tendevs/cards-api/internal/store"
)

// FlashcardHandler handles flashcard HTTP requests.
type FlashcardHandler struct {
	flashcardService service.FlashcardService
}

// NewFlashcardHandler creates a new FlashcardHandler.
func NewFlashcardHandler(flashcardService service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{flashcardService: flashcardService}
}

// CreateFlashcard handles POST /api/flashcards. Cards created here carry USER
// provenance; AI-originated cards only enter through suggestion approval.
func (h *FlashcardHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateFlashcardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := h.flashcardService.CreateManual(r.Context(), userID, req.Front, req.Back)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, flashcardToResponse(card))
}

// ListFlashcards handles GET /api/flashcards. Optional query parameters:
// provenance (USER, AI, AI_USER), limit, offset.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	cards, err := h.flashcardService.List(r.Context(), userID, filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, flashcardsToResponse(cards))
}

// UpdateFlashcard handles PUT /api/flashcards/{id}.
func (h *FlashcardHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	cardID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid flashcard ID")
		return
	}

	var req UpdateFlashcardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := h.flashcardService.UpdateContent(r.Context(), userID, cardID, req.Front, req.Back)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// DeleteFlashcard handles DELETE /api/flashcards/{id}.
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	cardID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid flashcard ID")
		return
	}

	if err := h.flashcardService.Delete(r.Context(), userID, cardID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseListFilter extracts the optional listing parameters from the query
// string.
func parseListFilter(r *http.Request) (store.ListFilter, error) {
	var filter store.ListFilter
	q := r.URL.Query()

	if raw := q.Get("provenance"); raw != "" {
		provenance := domain.Provenance(raw)
		switch provenance {
		case domain.ProvenanceUser, domain.ProvenanceAI, domain.ProvenanceAIUser:
			filter.Provenance = &provenance
		default:
			return store.ListFilter{}, fmt.Errorf("invalid provenance %q", raw)
		}
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return store.ListFilter{}, fmt.Errorf("invalid limit %q", raw)
		}
		filter.Limit = limit
	}

	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return store.ListFilter{}, fmt.Errorf("invalid offset %q", raw)
		}
		filter.Offset = offset
	}

	return filter, nil
}

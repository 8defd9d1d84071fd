package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tendevs/cards-api/internal/api/middleware"
	"github.com/tendevs/cards-api/internal/api/shared"
	"github.com/tendevs/cards-api/internal/service"
)

// GenerationHandler handles generation session HTTP requests.
type GenerationHandler struct {
	generationService service.GenerationService
	approvalService   service.ApprovalService
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(
	generationService service.GenerationService,
	approvalService service.ApprovalService,
) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		approvalService:   approvalService,
	}
}

// StartGeneration handles POST /api/generations. The call is synchronous: by
// the time it returns, the session is persisted in a terminal state.
func (h *GenerationHandler) StartGeneration(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req StartGenerationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	session, err := h.generationService.StartGeneration(r.Context(), userID, req.InputText)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(session))
}

// GetSession handles GET /api/generations/{id}.
func (h *GenerationHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	sessionID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	session, err := h.generationService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// GetSuggestions handles GET /api/generations/{id}/suggestions. The response
// carries the session status so clients can tell "no suggestions yet" apart
// from "generation failed".
func (h *GenerationHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	sessionID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	session, err := h.generationService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToSuggestionsResponse(session))
}

// ApproveSuggestions handles POST /api/generations/{id}/approve. The whole
// batch succeeds or fails together.
func (h *GenerationHandler) ApproveSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	sessionID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req ApproveSuggestionsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	approvals := make([]service.SuggestionApproval, 0, len(req.Approvals))
	for _, item := range req.Approvals {
		approvals = append(approvals, service.SuggestionApproval{
			SuggestionID: item.SuggestionID,
			Front:        item.Front,
			Back:         item.Back,
		})
	}

	cards, err := h.approvalService.ApproveSuggestions(r.Context(), userID, sessionID, approvals)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, flashcardsToResponse(cards))
}

// parseIDParam extracts and parses a UUID path parameter.
func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

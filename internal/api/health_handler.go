package api

import (
	"database/sql"
	"net/http"

	"github.com/tendevs/cards-api/internal/api/shared"
	"github.com/tendevs/cards-api/internal/generation"
)

// HealthResponse reports the status of the service and its dependencies.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Provider string `json:"provider"`
}

// HealthHandler reports service liveness and dependency health.
type HealthHandler struct {
	db        *sql.DB
	generator generation.Generator
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB, generator generation.Generator) *HealthHandler {
	return &HealthHandler{db: db, generator: generator}
}

// Health handles GET /health. A degraded dependency reports 503 so load
// balancers can route around the instance.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "ok", Provider: "ok"}
	status := http.StatusOK

	if err := h.db.PingContext(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if !h.generator.HealthCheck(r.Context()) {
		resp.Status = "degraded"
		resp.Provider = "unreachable"
		status = http.StatusServiceUnavailable
	}

	shared.RespondWithJSON(w, r, status, resp)
}

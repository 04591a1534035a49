package api

import (
	"net/http"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Stats   domain.Stats `json:"stats"`
}

// HandleHealth handles GET requests to the health check endpoint. A registry
// whose indexes disagree with its records reports 503.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	stats := h.company.Stats()

	if !stats.Consistent {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "degraded",
			Message: "index consistency check failed",
			Stats:   stats,
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: "staffdb is running",
		Stats:   stats,
	})
}

package api

import (
	"net/http"

	"github.com/adfharrison1/go-staffdb/pkg/codec"
)

// TopManagersResponse lists the managers sharing the highest factor
type TopManagersResponse struct {
	Factor   *float64       `json:"factor,omitempty"`
	Managers []codec.Record `json:"managers"`
}

// HandleTopManagers handles GET /managers/top
func (h *Handler) HandleTopManagers(w http.ResponseWriter, r *http.Request) {
	managers := h.company.ManagersWithMaxFactor()

	response := TopManagersResponse{Managers: make([]codec.Record, 0, len(managers))}
	for _, m := range managers {
		response.Managers = append(response.Managers, codec.FromEmployee(m))
	}
	if len(managers) > 0 {
		factor := managers[0].Factor()
		response.Factor = &factor
	}

	writeJSON(w, http.StatusOK, response)
}

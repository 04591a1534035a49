package api

import (
	"net/http"
)

type SnapshotResponse struct {
	Path      string `json:"path"`
	Employees int    `json:"employees"`
}

// HandleSnapshot saves the registry to the configured data file
func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.dataFile == "" {
		WriteJSONError(w, http.StatusServiceUnavailable, "No data file configured")
		return
	}

	if err := h.company.Save(h.dataFile); err != nil {
		h.log.Error().Err(err).Str("path", h.dataFile).Msg("snapshot failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SnapshotResponse{Path: h.dataFile, Employees: h.company.Len()})
}

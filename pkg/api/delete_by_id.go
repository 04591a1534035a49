package api

import (
	"net/http"
)

// HandleDeleteById handles DELETE requests to remove a specific employee by ID
func (h *Handler) HandleDeleteById(w http.ResponseWriter, r *http.Request) {
	id, err := idVar(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid employee id")
		return
	}

	if _, err := h.company.Remove(id); err != nil {
		h.log.Warn().Err(err).Int64("id", id).Msg("delete failed")
		writeError(w, err)
		return
	}

	h.log.Info().Int64("id", id).Msg("employee deleted")
	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"fmt"
	"net/http"

	"github.com/adfharrison1/go-staffdb/pkg/codec"
	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// HandleGetById handles GET requests to retrieve a specific employee by ID
func (h *Handler) HandleGetById(w http.ResponseWriter, r *http.Request) {
	id, err := idVar(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid employee id")
		return
	}

	emp, ok := h.company.Get(id)
	if !ok {
		h.log.Debug().Int64("id", id).Msg("employee not found")
		writeError(w, fmt.Errorf("%w: employee %d", domain.ErrNotFound, id))
		return
	}

	writeJSON(w, http.StatusOK, codec.FromEmployee(emp))
}

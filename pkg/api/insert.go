package api

import (
	"encoding/json"
	"net/http"

	"github.com/adfharrison1/go-staffdb/pkg/codec"
)

// HandleInsert handles POST requests adding one employee
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	var rec codec.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		h.log.Error().Err(err).Msg("decoding body failed")
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	emp, err := rec.Employee()
	if err != nil {
		h.log.Warn().Err(err).Msg("rejected employee record")
		writeError(w, err)
		return
	}

	if err := h.company.Add(emp); err != nil {
		h.log.Warn().Err(err).Int64("id", emp.ID()).Msg("insert failed")
		writeError(w, err)
		return
	}

	h.log.Info().Int64("id", emp.ID()).Str("kind", string(emp.Kind())).Msg("employee inserted")
	writeJSON(w, http.StatusCreated, codec.FromEmployee(emp))
}

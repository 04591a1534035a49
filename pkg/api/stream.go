package api

import (
	"encoding/json"
	"net/http"

	"github.com/adfharrison1/go-staffdb/pkg/codec"
)

// HandleStream handles GET requests streaming every employee as a JSON array.
// An optional department query parameter filters the stream. No pagination
// is applied.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")

	// Set headers for streaming
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	flusher, _ := w.(http.Flusher)

	// Start JSON array
	w.Write([]byte("[\n"))

	first := true
	count := 0

	for emp := range h.company.All() {
		if department != "" && emp.Department() != department {
			continue
		}

		data, err := json.Marshal(codec.FromEmployee(emp))
		if err != nil {
			h.log.Error().Err(err).Int64("id", emp.ID()).Msg("failed to marshal employee")
			continue
		}

		if !first {
			w.Write([]byte(",\n"))
		}
		first = false

		if _, err := w.Write(data); err != nil {
			h.log.Error().Err(err).Msg("failed to write to response")
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		count++
	}

	// End JSON array
	w.Write([]byte("\n]"))

	h.log.Info().Int("count", count).Str("department", department).Msg("streamed employees")
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/adfharrison1/go-staffdb/pkg/codec"
	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// BatchInsertRequest represents the request body for batch insert operations
type BatchInsertRequest struct {
	Employees []codec.Record `json:"employees"`
}

// BatchInsertResponse represents the response for batch insert operations
type BatchInsertResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	InsertedCount int    `json:"inserted_count"`
}

// HandleBatchInsert handles POST requests adding several employees. Every
// record is decoded before any is added; adding stops at the first failure
// and earlier records stay in the registry.
func (h *Handler) HandleBatchInsert(w http.ResponseWriter, r *http.Request) {
	var req BatchInsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("decoding body failed")
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Employees) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "No employees provided")
		return
	}
	if len(req.Employees) > maxBatchSize {
		h.log.Warn().Int("count", len(req.Employees)).Msg("batch too large")
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Maximum %d employees allowed per batch", maxBatchSize))
		return
	}

	employees := make([]domain.Employee, 0, len(req.Employees))
	for i, rec := range req.Employees {
		emp, err := rec.Employee()
		if err != nil {
			writeError(w, fmt.Errorf("employee %d: %w", i, err))
			return
		}
		employees = append(employees, emp)
	}

	inserted := 0
	for _, emp := range employees {
		if err := h.company.Add(emp); err != nil {
			h.log.Warn().Err(err).Int("inserted", inserted).Msg("batch insert stopped")
			WriteJSONError(w, statusFor(err), fmt.Sprintf("inserted %d of %d: %v", inserted, len(employees), err))
			return
		}
		inserted++
	}

	h.log.Info().Int("inserted", inserted).Msg("batch insert successful")
	writeJSON(w, http.StatusCreated, BatchInsertResponse{
		Success:       true,
		Message:       "Batch insert completed successfully",
		InsertedCount: inserted,
	})
}

package api

import (
	"net/http"
	"strconv"

	"github.com/adfharrison1/go-staffdb/pkg/codec"
	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// PageResponse is one page of employees in ascending id order
type PageResponse struct {
	Employees  []codec.Record `json:"employees"`
	HasNext    bool           `json:"has_next"`
	NextCursor string         `json:"next_cursor,omitempty"`
	Total      int64          `json:"total"`
}

// HandleFindAll handles GET requests listing employees with cursor pagination
func (h *Handler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	options := domain.DefaultPageOptions()
	options.MaxLimit = h.maxPageSize
	options.Limit = min(options.Limit, options.MaxLimit)
	options.After = query.Get("after")

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		options.Limit = limit
	}

	page, err := h.company.Page(options)
	if err != nil {
		h.log.Warn().Err(err).Msg("invalid page request")
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := PageResponse{
		Employees:  make([]codec.Record, 0, len(page.Employees)),
		HasNext:    page.HasNext,
		NextCursor: page.NextCursor,
		Total:      page.Total,
	}
	for _, emp := range page.Employees {
		response.Employees = append(response.Employees, codec.FromEmployee(emp))
	}

	h.log.Debug().Int("count", len(response.Employees)).Bool("has_next", page.HasNext).Msg("page served")
	writeJSON(w, http.StatusOK, response)
}

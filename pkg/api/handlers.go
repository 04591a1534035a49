package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

const maxBatchSize = 1000

// Handler provides HTTP handlers for the registry API
type Handler struct {
	company     domain.Company
	dataFile    string
	maxPageSize int
	log         zerolog.Logger
}

type HandlerOption func(*Handler)

// WithDataFile sets the snapshot path used by POST /snapshot
func WithDataFile(path string) HandlerOption {
	return func(h *Handler) {
		h.dataFile = path
	}
}

func WithMaxPageSize(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxPageSize = n
		}
	}
}

func WithLogger(l zerolog.Logger) HandlerOption {
	return func(h *Handler) {
		h.log = l
	}
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(company domain.Company, options ...HandlerOption) *Handler {
	h := &Handler{
		company:     company,
		maxPageSize: domain.DefaultPageOptions().MaxLimit,
		log:         log.Logger,
	}
	for _, option := range options {
		option(h)
	}
	h.log = h.log.With().Str("component", "api").Logger()
	return h
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// idVar parses the {id} route variable
func idVar(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

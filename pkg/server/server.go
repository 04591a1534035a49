package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adfharrison1/go-staffdb/pkg/api"
	"github.com/adfharrison1/go-staffdb/pkg/storage"
)

// Server holds references to the registry, router, etc.
type Server struct {
	router   *mux.Router
	registry *storage.Registry
	log      zerolog.Logger
}

// NewServer creates a new instance of Server. A nil gatherer serves the
// default prometheus registry on /metrics.
func NewServer(registry *storage.Registry, gatherer prometheus.Gatherer, options ...api.HandlerOption) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		registry: registry,
		log:      log.Logger.With().Str("component", "server").Logger(),
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// Define HTTP routes
	api.NewHandler(registry, options...).RegisterRoutes(s.router)
	s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")

	// Use the logging middleware for all routes
	s.router.Use(s.requestLoggerMiddleware)
	if registry.Policy() == storage.SingleThreaded {
		s.router.Use(serializeMiddleware())
	}

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Warn().Str("method", r.Method).Str("path", r.URL.Path).Msg("no route found")
		api.WriteJSONError(w, http.StatusNotFound, "No route for "+r.URL.Path)
	})

	return s
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// requestLoggerMiddleware logs the method, URL path, status and duration for each request.
func (s *Server) requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// serializeMiddleware runs one request at a time. An unlocked registry must
// not see concurrent handlers.
func serializeMiddleware() mux.MiddlewareFunc {
	var mu sync.Mutex
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}

// InitDB loads a snapshot from file. A missing file leaves the registry empty.
func (s *Server) InitDB(filename string) error {
	if err := s.registry.Restore(filename); err != nil {
		s.log.Error().Err(err).Str("file", filename).Msg("could not load snapshot")
		return err
	}
	s.log.Info().Str("file", filename).Int("employees", s.registry.Len()).Msg("snapshot loaded")
	return nil
}

// SaveDB saves the current registry state to file
func (s *Server) SaveDB(filename string) error {
	if err := s.registry.Save(filename); err != nil {
		s.log.Error().Err(err).Str("file", filename).Msg("could not save snapshot")
		return err
	}
	return nil
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}

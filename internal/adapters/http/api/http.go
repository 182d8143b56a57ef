// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/propcast/internal/adapters/http/swagger"
	"github.com/okian/propcast/internal/adapters/mq/queue"
	"github.com/okian/propcast/internal/adapters/repository"
	service "github.com/okian/propcast/internal/app"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/search"
	"github.com/okian/propcast/internal/domain/selection"
	"github.com/okian/propcast/pkg/logger"
)

const defaultRequestTimeout = 30 * time.Second

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	// Read operations over the latest published run.
	BestProps() ([]model.BetRecommendation, error)
	Board(category string) ([]model.BetRecommendation, error)
	HotCold() ([]selection.HotCold, error)
	Slips(q service.SlipQuery) (service.SlipResult, error)
	SearchPlayer(name string) ([]model.BetRecommendation, error)
	SearchEsports(name string) (search.EsportsResult, error)

	// Run history.
	RunByID(ctx context.Context, id string) (repository.Run, error)
	History(ctx context.Context, limit int) ([]repository.Summary, error)

	// Publish runs a refresh inline; RequestRefresh queues one.
	Publish(ctx context.Context, req model.RefreshRequest) (repository.Run, bool, error)
	RequestRefresh(ctx context.Context, req model.RefreshRequest) (model.RefreshRequest, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	propsHandler   *PropsHandler
	slipsHandler   *SlipsHandler
	searchHandler  *SearchHandler
	runsHandler    *RunsHandler
	origins        []string
	requestTimeout time.Duration
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithCORSOrigins sets the allowed browser origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithRequestTimeout bounds every request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		origins:        []string{"*"},
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("http")
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.propsHandler = NewPropsHandler(deps)
	s.slipsHandler = NewSlipsHandler(deps)
	s.searchHandler = NewSearchHandler(deps)
	s.runsHandler = NewRunsHandler(deps, s.logger)
	return s
}

// Routes returns the router with every endpoint attached.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(s.requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)
	swagger.Register(r)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/props", s.propsHandler.HandleBestProps)
		r.Get("/board", s.propsHandler.HandleBoard)
		r.Get("/hotcold", s.propsHandler.HandleHotCold)
		r.Get("/slips", s.slipsHandler.HandleSlips)
		r.Get("/players/{name}", s.searchHandler.HandlePlayer)
		r.Get("/esports/{name}", s.searchHandler.HandleEsports)
		r.Get("/runs", s.runsHandler.HandleList)
		r.Get("/runs/{id}", s.runsHandler.HandleGet)
		r.Post("/refresh", s.runsHandler.HandleRefresh)
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and store errors onto status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, queue.ErrFull):
		writeError(w, http.StatusTooManyRequests, "queue_full", err)
	case errors.Is(err, service.ErrNoRun),
		errors.Is(err, service.ErrNotStarted),
		errors.Is(err, queue.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}

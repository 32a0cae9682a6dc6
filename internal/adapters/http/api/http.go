// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/presale/internal/adapters/http/auth"
	"github.com/okian/presale/internal/domain/bonus"
	"github.com/okian/presale/internal/domain/ledger"
	"github.com/okian/presale/internal/domain/presale"
	"github.com/okian/presale/internal/domain/types"
	"github.com/okian/presale/pkg/logger"
	"github.com/okian/presale/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	TableDependencies
	EventDependencies
	PresaleDependencies
	StatsProvider

	// Ready reports whether persisted state has been loaded.
	Ready() bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps Dependencies

	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	tablesHandler  *TablesHandler
	eventsHandler  *EventsHandler
	presaleHandler *PresaleHandler

	auth        *auth.Authenticator
	corsOrigins []string
	logger      logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithAuthenticator guards /api with the admin session.
func WithAuthenticator(a *auth.Authenticator) Option {
	return func(s *Server) {
		if a != nil {
			s.auth = a
		}
	}
}

// WithCORSOrigins enables CORS on /api for the given origins.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = append(s.corsOrigins, origins...)
	}
}

// WithLogger sets the logger used for request logs.
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
		deps:           deps,
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(deps),
		tablesHandler:  NewTablesHandler(deps),
		eventsHandler:  NewEventsHandler(deps),
		presaleHandler: NewPresaleHandler(deps),
		auth:           auth.Disabled(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		if len(s.corsOrigins) > 0 {
			r.Use(cors.New(cors.Options{
				AllowedOrigins:   s.corsOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
				AllowedHeaders:   []string{"Content-Type"},
				AllowCredentials: true,
			}).Handler)
		}
		r.Use(RequestID)
		r.Use(RequestLogger(s.logger))
		r.Use(s.auth.Require(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusUnauthorized, "unauthorized", auth.ErrInvalidToken)
		}))

		r.Get("/token-price", MetricsMiddleware(s.tablesHandler.HandleGetTokenPrice, "token_price"))
		r.Put("/token-price", MetricsMiddleware(s.tablesHandler.HandleSetTokenPrice, "token_price"))

		r.Get("/tables", MetricsMiddleware(s.tablesHandler.HandleListTables, "tables"))
		r.Route("/tables/{category}", func(r chi.Router) {
			r.Get("/", MetricsMiddleware(s.tablesHandler.HandleGetTable, "table"))
			r.Get("/export.csv", MetricsMiddleware(s.tablesHandler.HandleExportCSV, "table_export"))
			r.Patch("/cells", MetricsMiddleware(s.tablesHandler.HandleUpdateCell, "table_cells"))
			r.Post("/packages", MetricsMiddleware(s.tablesHandler.HandleAddPackage, "table_packages"))
			r.Delete("/packages", MetricsMiddleware(s.tablesHandler.HandleRemovePackage, "table_packages"))
			r.Put("/tiers", MetricsMiddleware(s.tablesHandler.HandleResizeTiers, "table_tiers"))
		})

		r.Get("/events", MetricsMiddleware(s.eventsHandler.HandleListEvents, "events"))
		r.Post("/events", MetricsMiddleware(s.eventsHandler.HandleAddEvent, "events"))
		r.Put("/events/{id}", MetricsMiddleware(s.eventsHandler.HandleSetEvent, "event"))
		r.Delete("/events/{id}", MetricsMiddleware(s.eventsHandler.HandleDeleteEvent, "event"))

		r.Get("/presale-events", MetricsMiddleware(s.presaleHandler.HandleListPresaleEvents, "presale_events"))
		r.Post("/presale-events", MetricsMiddleware(s.presaleHandler.HandleAddPresaleEvent, "presale_events"))
		r.Patch("/presale-events/{id}", MetricsMiddleware(s.presaleHandler.HandleUpdatePresaleEvent, "presale_event"))
		r.Delete("/presale-events/{id}", MetricsMiddleware(s.presaleHandler.HandleDeletePresaleEvent, "presale_event"))
	})
}

// Handler returns a standalone router serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before writing the status so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		metrics.RecordErrorByComponent("http", "encode")
		logger.Get().Error(context.Background(), "failed to encode response", logger.Error(err))
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorResponse{Code: "internal_error", Message: "failed to encode response"})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps domain sentinels to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrUnknownCategory),
		errors.Is(err, bonus.ErrNotFound),
		errors.Is(err, presale.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ledger.ErrUnknownField),
		errors.Is(err, presale.ErrInvalidDate),
		errors.Is(err, types.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/model"
	"github.com/okian/presence/internal/domain/types"
)

// defaultTrendRadius is the half-width of GET /trend when radius is omitted.
const defaultTrendRadius = 90

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	TripDependencies

	// Evaluate reports presence for target; a zero target means today.
	Evaluate(ctx context.Context, target date.Date) types.Evaluation
	// Trend scans center-radius .. center+radius; a zero center means today.
	Trend(ctx context.Context, center date.Date, radiusDays int) (types.Trend, error)

	// Export and Import move the whole collection in compact form.
	Export(ctx context.Context) (types.Share, error)
	Import(ctx context.Context, data string) ([]types.TripView, error)
}

// TripDependencies covers the trip collection.
type TripDependencies interface {
	AddTrip(ctx context.Context, iv model.Interval, idempotencyKey string) (types.TripView, bool, error)
	UpdateTrip(ctx context.Context, id string, iv model.Interval) (types.TripView, error)
	DeleteTrip(ctx context.Context, id string) error
	GetTrip(ctx context.Context, id string) (types.TripView, error)
	ListTrips(ctx context.Context) []types.TripView
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	tripsHandler    *TripsHandler
	evaluateHandler *EvaluateHandler
	trendHandler    *TrendHandler
	shareHandler    *ShareHandler
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	trendRadius int
}

// WithTrendRadius sets the radius GET /trend uses when none is given.
func WithTrendRadius(radius int) ServerOption {
	return func(c *serverConfig) {
		if radius >= 0 {
			c.trendRadius = radius
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{trendRadius: defaultTrendRadius}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		tripsHandler:    NewTripsHandler(deps),
		evaluateHandler: NewEvaluateHandler(deps),
		trendHandler:    NewTrendHandler(deps, cfg.trendRadius),
		shareHandler:    NewShareHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/trips", MetricsMiddleware(s.tripsHandler.HandleTrips, "trips"))
	mux.HandleFunc("/trips/", MetricsMiddleware(s.tripsHandler.HandleTrip, "trip"))
	mux.HandleFunc("/evaluate", MetricsMiddleware(s.evaluateHandler.HandleEvaluate, "evaluate"))
	mux.HandleFunc("/trend", MetricsMiddleware(s.trendHandler.HandleTrend, "trend"))
	mux.HandleFunc("/share", MetricsMiddleware(s.shareHandler.HandleShare, "share"))
}

// intervalRequest mirrors the OpenAPI schema for trip bodies.
type intervalRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r intervalRequest) interval() (model.Interval, error) {
	return model.ParseInterval(r.Start, r.End)
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

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind("api."+r.URL.Path, ErrMethodNotAllowed))
}

// parseDateParam reads an optional YYYY-MM-DD query parameter. A missing
// parameter yields the zero date, which the service treats as today.
func parseDateParam(r *http.Request, key string) (date.Date, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return date.Date{}, nil
	}
	return date.Parse(raw)
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/pmtwin/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatchDependencies
	OpportunityDependencies
}

// MatchDependencies defines the provider matching operations.
type MatchDependencies interface {
	TopMatches(ctx context.Context, requestID string, limit int) []model.ScoredMatch
	MatchesAboveThreshold(ctx context.Context, requestID string, minScore float64) []model.ScoredMatch
	MatchStatistics(ctx context.Context, requestID string) model.MatchStatistics

	// MinMatchScore is the threshold used when the caller gives none.
	MinMatchScore() float64
	// MaxMatchesLimit is the largest accepted limit.
	MaxMatchesLimit() int
}

// OpportunityDependencies defines the opportunity discovery operation.
type OpportunityDependencies interface {
	Opportunities(ctx context.Context, companyID, role string) []model.OpportunityMatch
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	matchesHandler     *MatchesHandler
	opportunityHandler *OpportunityHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		matchesHandler:     NewMatchesHandler(deps),
		opportunityHandler: NewOpportunityHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /requests/{id}/matches", MetricsMiddleware(s.matchesHandler.HandleTopMatches, "matches"))
	mux.HandleFunc("GET /requests/{id}/matches/qualified", MetricsMiddleware(s.matchesHandler.HandleQualifiedMatches, "qualified_matches"))
	mux.HandleFunc("GET /requests/{id}/statistics", MetricsMiddleware(s.matchesHandler.HandleStatistics, "statistics"))
	mux.HandleFunc("GET /companies/{id}/opportunities", MetricsMiddleware(s.opportunityHandler.HandleOpportunities, "opportunities"))
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

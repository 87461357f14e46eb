package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// matchesResponse wraps a ranked match list.
type matchesResponse struct {
	RequestID string `json:"requestId"`
	Matches   any    `json:"matches"`
}

// MatchesHandler handles provider matching requests.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleTopMatches handles GET /requests/{id}/matches?limit=N requests.
// Unknown requests yield an empty list, not 404.
func (h *MatchesHandler) HandleTopMatches(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if n > h.deps.MaxMatchesLimit() {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: %d", ErrLimitExceeded, h.deps.MaxMatchesLimit()))
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, matchesResponse{
		RequestID: id,
		Matches:   h.deps.TopMatches(r.Context(), id, limit),
	})
}

// HandleQualifiedMatches handles GET /requests/{id}/matches/qualified
// requests. The optional min_score parameter must lie in [0, 1].
func (h *MatchesHandler) HandleQualifiedMatches(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	minScore := h.deps.MinMatchScore()
	if raw := r.URL.Query().Get("min_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(v >= 0 && v <= 1) {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: min_score must be within [0, 1]", ErrBadRequest))
			return
		}
		minScore = v
	}

	writeJSON(w, http.StatusOK, matchesResponse{
		RequestID: id,
		Matches:   h.deps.MatchesAboveThreshold(r.Context(), id, minScore),
	})
}

// HandleStatistics handles GET /requests/{id}/statistics requests.
func (h *MatchesHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.MatchStatistics(r.Context(), id))
}

func requestID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing request id", ErrBadRequest))
		return "", false
	}
	return id, true
}

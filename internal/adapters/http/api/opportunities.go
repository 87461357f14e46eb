package api

import (
	"fmt"
	"net/http"
	"strings"
)

type opportunitiesResponse struct {
	CompanyID     string `json:"companyId"`
	Role          string `json:"role"`
	Opportunities any    `json:"opportunities"`
}

// OpportunityHandler handles opportunity discovery requests.
type OpportunityHandler struct {
	deps OpportunityDependencies
}

// NewOpportunityHandler creates a new opportunity handler.
func NewOpportunityHandler(deps OpportunityDependencies) *OpportunityHandler {
	return &OpportunityHandler{deps: deps}
}

// HandleOpportunities handles GET /companies/{id}/opportunities?role=R
// requests. Unknown roles yield an empty list.
func (h *OpportunityHandler) HandleOpportunities(w http.ResponseWriter, r *http.Request) {
	companyID := strings.TrimSpace(r.PathValue("id"))
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing company id", ErrBadRequest))
		return
	}
	role := strings.TrimSpace(r.URL.Query().Get("role"))
	if role == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing role", ErrBadRequest))
		return
	}

	writeJSON(w, http.StatusOK, opportunitiesResponse{
		CompanyID:     companyID,
		Role:          role,
		Opportunities: h.deps.Opportunities(r.Context(), companyID, role),
	})
}

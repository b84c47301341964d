package handler

import (
	"net/http"

	"github.com/padelparc/platform/internal/service"
)

// ResultsHandler handles the standings and personal results endpoints.
type ResultsHandler struct {
	results *service.ResultsService
	teams   *service.TeamService
}

// NewResultsHandler creates a new ResultsHandler.
func NewResultsHandler(results *service.ResultsService, teams *service.TeamService) *ResultsHandler {
	return &ResultsHandler{results: results, teams: teams}
}

// Rankings handles GET /rankings.
func (h *ResultsHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.results.Rankings(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"rankings": standings})
}

// MyResults handles GET /results/me.
func (h *ResultsHandler) MyResults(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	record, err := h.results.MyResults(r.Context(), accountID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, record)
}

// TeamResults handles GET /teams/{id}/results.
func (h *ResultsHandler) TeamResults(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	team, err := h.teams.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}

	record, err := h.results.TeamResults(r.Context(), team)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, record)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/padelparc/platform/internal/repository"
	"github.com/padelparc/platform/internal/service"
)

// TeamHandler handles the team endpoints.
type TeamHandler struct {
	teams *service.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teams *service.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

// List handles GET /teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	f := repository.TeamFilter{
		Company: r.URL.Query().Get("company"),
		Page:    page,
		Limit:   limit,
	}
	if poolID, err := strconv.ParseInt(r.URL.Query().Get("pool_id"), 10, 64); err == nil {
		f.PoolID = poolID
	}

	teams, total, err := h.teams.List(r.Context(), f)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, listResponse{Items: teams, Total: total, Page: page, Limit: limit})
}

// Get handles GET /teams/{id}.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	RespondJSON(w, http.StatusOK, team)
}

// Create handles POST /teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.TeamInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	team, err := h.teams.Create(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, team)
}

// Update handles PUT /teams/{id}.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input service.TeamInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	team, err := h.teams.Update(r.Context(), id, input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, team)
}

// Delete handles DELETE /teams/{id}.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	if err := h.teams.Delete(r.Context(), id); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}

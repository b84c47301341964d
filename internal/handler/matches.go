package handler

import (
	"net/http"
	"strconv"

	"github.com/padelparc/platform/internal/domain"
	"github.com/padelparc/platform/internal/repository"
	"github.com/padelparc/platform/internal/service"
)

// MatchHandler handles the match endpoints.
type MatchHandler struct {
	matches *service.MatchService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matches *service.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// List handles GET /matches.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	f := repository.MatchFilter{
		Status: domain.MatchStatus(r.URL.Query().Get("status")),
		Page:   page,
		Limit:  limit,
	}
	if f.Status != "" && !f.Status.Valid() {
		RespondError(w, domain.ErrValidation("unknown match status"))
		return
	}
	if eventID, err := strconv.ParseInt(r.URL.Query().Get("event_id"), 10, 64); err == nil {
		f.EventID = eventID
	}
	if teamID, err := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64); err == nil {
		f.TeamID = teamID
	}
	if r.URL.Query().Get("upcoming") == "true" {
		f.Upcoming = true
	}

	matches, total, err := h.matches.List(r.Context(), f)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, listResponse{Items: matches, Total: total, Page: page, Limit: limit})
}

// Get handles GET /matches/{id}.
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	match, err := h.matches.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, match)
}

// Move handles PUT /matches/{id}/court.
func (h *MatchHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		CourtNumber int `json:"court_number"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	match, err := h.matches.Move(r.Context(), id, input.CourtNumber)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, match)
}

// Complete handles PUT /matches/{id}/score.
func (h *MatchHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input service.ScoreInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	match, err := h.matches.Complete(r.Context(), id, input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, match)
}

// Cancel handles PUT /matches/{id}/cancel.
func (h *MatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	match, err := h.matches.Cancel(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, match)
}

// Delete handles DELETE /matches/{id}.
func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	if err := h.matches.Delete(r.Context(), id); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}

package handler

import (
	"net/http"

	"github.com/padelparc/platform/internal/repository"
	"github.com/padelparc/platform/internal/service"
)

// EventHandler handles the event endpoints.
type EventHandler struct {
	events  *service.EventService
	matches *service.MatchService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *service.EventService, matches *service.MatchService) *EventHandler {
	return &EventHandler{events: events, matches: matches}
}

// List handles GET /events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	f := repository.EventFilter{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		Month:     r.URL.Query().Get("month"),
		Page:      page,
		Limit:     limit,
	}

	events, total, err := h.events.List(r.Context(), f)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, listResponse{Items: events, Total: total, Page: page, Limit: limit})
}

// Get handles GET /events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, event)
}

// Create handles POST /events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.EventInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	event, err := h.events.Create(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, event)
}

// Reschedule handles PUT /events/{id}.
func (h *EventHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		Date string `json:"event_date"`
		Time string `json:"event_time"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	event, err := h.events.Reschedule(r.Context(), id, input.Date, input.Time)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	if err := h.events.Delete(r.Context(), id); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}

// AddMatch handles POST /events/{id}/matches.
func (h *EventHandler) AddMatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input service.MatchInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	match, err := h.matches.Add(r.Context(), id, input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, match)
}

package handler

import (
	"net/http"

	"github.com/padelparc/platform/internal/service"
)

// PoolHandler handles the pool endpoints.
type PoolHandler struct {
	pools *service.PoolService
}

// NewPoolHandler creates a new PoolHandler.
func NewPoolHandler(pools *service.PoolService) *PoolHandler {
	return &PoolHandler{pools: pools}
}

// List handles GET /pools.
func (h *PoolHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	pools, total, err := h.pools.List(r.Context(), page, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, listResponse{Items: pools, Total: total, Page: page, Limit: limit})
}

// Get handles GET /pools/{id}.
func (h *PoolHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	pool, err := h.pools.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, pool)
}

// Create handles POST /pools.
func (h *PoolHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.PoolInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	pool, err := h.pools.Create(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, pool)
}

// Rename handles PUT /pools/{id}.
func (h *PoolHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	pool, err := h.pools.Rename(r.Context(), id, input.Name)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, pool)
}

// Delete handles DELETE /pools/{id}.
func (h *PoolHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	if err := h.pools.Delete(r.Context(), id); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}

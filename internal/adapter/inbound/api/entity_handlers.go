package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/beismanmaps/server/internal/domain/record"
	"github.com/beismanmaps/server/internal/service"
)

// handleListEntities returns a page of entities with optional search.
// GET /api/entities?page=&page_size=&search=
func (h *Handler) handleListEntities(w http.ResponseWriter, r *http.Request) {
	params := listParams(r)
	entities, meta, err := h.entities.List(r.Context(), params)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve entities")
		return
	}
	if entities == nil {
		entities = []record.Entity{}
	}

	h.respondJSON(w, http.StatusOK, listResponse{
		Data:       entities,
		SearchTerm: params.Search,
		PageMeta:   meta,
	})
}

// handleGetEntity returns a single entity by ID.
// GET /api/entities/{id}
func (h *Handler) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid entity id")
		return
	}

	e, err := h.entities.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "entity not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve entity")
		return
	}
	h.respondJSON(w, http.StatusOK, e)
}

// handleCreateEntity inserts a new entity.
// POST /api/entities (admin)
func (h *Handler) handleCreateEntity(w http.ResponseWriter, r *http.Request) {
	var in service.EntityInput
	if err := h.readJSON(r, &in); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	e, err := h.entities.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to create entity")
		return
	}

	h.respondJSON(w, http.StatusCreated, apiResponse{
		Success: true,
		Message: "Entity created",
		Data:    e,
	})
}

// handleDeleteEntity removes an entity by ID.
// DELETE /api/entities/{id} (admin)
func (h *Handler) handleDeleteEntity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid entity id")
		return
	}

	if err := h.entities.Delete(r.Context(), id); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "entity not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to delete entity")
		return
	}

	h.respondJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Entity deleted",
		Data:    map[string]int64{"deleted_id": id},
	})
}

// handleBulkDeleteEntities removes a batch of entities by ID.
// POST /api/entities/bulk-delete (admin)
//
// IDs that fail to delete are reported back, not treated as a batch failure.
func (h *Handler) handleBulkDeleteEntities(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntityIDs []int64 `json:"entity_ids"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.entities.BulkDelete(r.Context(), req.EntityIDs)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to delete entities")
		return
	}

	h.respondJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Bulk delete completed",
		Data:    result,
	})
}

// handleDeleteMapEntity removes the named entity from a map.
// DELETE /api/maps/{number}/entities/{name} (admin)
func (h *Handler) handleDeleteMapEntity(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")
	name := r.PathValue("name")

	if err := h.entities.DeleteFromMap(r.Context(), number, name); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "entity not found on map")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to delete entity")
		return
	}

	h.respondJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Entity removed from map",
	})
}

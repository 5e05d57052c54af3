package api

import (
	"errors"
	"net/http"

	"github.com/beismanmaps/server/internal/domain/record"
	"github.com/beismanmaps/server/internal/service"
)

// listResponse is the paginated envelope shared by the maps and entities lists.
type listResponse struct {
	Data       any    `json:"data"`
	SearchTerm string `json:"search_term,omitempty"`
	record.PageMeta
}

// handleListMaps returns a page of maps with optional search.
// GET /api/maps?page=&page_size=&search=
func (h *Handler) handleListMaps(w http.ResponseWriter, r *http.Request) {
	params := listParams(r)
	maps, meta, err := h.maps.List(r.Context(), params)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve maps")
		return
	}
	if maps == nil {
		maps = []record.Map{}
	}

	h.respondJSON(w, http.StatusOK, listResponse{
		Data:       maps,
		SearchTerm: params.Search,
		PageMeta:   meta,
	})
}

// handleGetMap returns a single map by Number.
// GET /api/maps/{number}
func (h *Handler) handleGetMap(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")
	m, err := h.maps.Get(r.Context(), number)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "map not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve map")
		return
	}
	h.respondJSON(w, http.StatusOK, m)
}

// handleCreateMap inserts a new map.
// POST /api/maps (admin)
func (h *Handler) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	var in service.MapInput
	if err := h.readJSON(r, &in); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	m, err := h.maps.Create(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, record.ErrDuplicate):
			h.respondError(w, http.StatusConflict, "map number already exists")
		default:
			h.respondError(w, http.StatusInternalServerError, "failed to create map")
		}
		return
	}

	h.respondJSON(w, http.StatusCreated, apiResponse{
		Success: true,
		Message: "Map created",
		Data:    m,
	})
}

// handleUpdateMap applies a partial update to a map.
// PUT /api/maps/{number} (admin)
func (h *Handler) handleUpdateMap(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")

	var patch service.MapPatch
	if err := h.readJSON(r, &patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	m, err := h.maps.Update(r.Context(), number, patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, record.ErrNotFound):
			h.respondError(w, http.StatusNotFound, "map not found")
		default:
			h.respondError(w, http.StatusInternalServerError, "failed to update map")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Map updated",
		Data:    m,
	})
}

// handleDeleteMap removes a map and its entities.
// DELETE /api/maps/{number} (admin)
func (h *Handler) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")

	if err := h.maps.Delete(r.Context(), number); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "map not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to delete map")
		return
	}

	h.respondJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Map deleted",
		Data:    map[string]string{"deleted_number": number},
	})
}

// handleBulkDeleteMaps removes a batch of maps by number, cascading their
// entities.
// POST /api/maps/bulk-delete (admin)
//
// Numbers that fail to delete are reported back, not treated as a batch
// failure.
func (h *Handler) handleBulkDeleteMaps(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapNumbers []string `json:"map_numbers"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.maps.BulkDelete(r.Context(), req.MapNumbers)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to delete maps")
		return
	}

	h.respondJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Bulk delete completed",
		Data:    result,
	})
}

// handleMapEntities lists entities referencing a map.
// GET /api/maps/{number}/entities
func (h *Handler) handleMapEntities(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")

	entities, err := h.entities.ListForMap(r.Context(), number)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve entities")
		return
	}
	if entities == nil {
		entities = []record.Entity{}
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"data": entities})
}

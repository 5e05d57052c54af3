package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// handleExportMapsCSV streams all maps matching the optional search as a CSV
// attachment.
// GET /api/maps/export/csv (admin)
func (h *Handler) handleExportMapsCSV(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	maps, err := h.maps.ExportAll(r.Context(), search)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to export maps")
		return
	}
	if len(maps) == 0 {
		h.respondError(w, http.StatusNotFound, "no maps found for export")
		return
	}

	writeCSVHeaders(w, "beisman_maps_export")
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Number", "Drawer", "PropertyDetails", "CreatedDate", "ModifiedDate"})
	for _, m := range maps {
		_ = cw.Write([]string{
			m.Number,
			m.Drawer,
			m.PropertyDetails,
			csvTime(m.CreatedDate),
			csvTime(m.ModifiedDate),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("maps CSV export failed mid-stream", "error", err)
	}
}

// handleExportEntitiesCSV streams all entities matching the optional search
// as a CSV attachment.
// GET /api/entities/export/csv (admin)
func (h *Handler) handleExportEntitiesCSV(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	entities, err := h.entities.ExportAll(r.Context(), search)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to export entities")
		return
	}
	if len(entities) == 0 {
		h.respondError(w, http.StatusNotFound, "no entities found for export")
		return
	}

	writeCSVHeaders(w, "beisman_entities_export")
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"EntityID", "EntityName", "BeismanNumber", "CreatedDate"})
	for _, e := range entities {
		_ = cw.Write([]string{
			strconv.FormatInt(e.EntityID, 10),
			e.EntityName,
			e.BeismanNumber,
			csvTime(e.CreatedDate),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("entities CSV export failed mid-stream", "error", err)
	}
}

// writeCSVHeaders sets the content type and a timestamped attachment name.
func writeCSVHeaders(w http.ResponseWriter, prefix string) {
	timestamp := time.Now().UTC().Format("2006-01-02_15-04-05")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s_%s.csv", prefix, timestamp))
}

func csvTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

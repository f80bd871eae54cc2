package handler

import (
	"net/http"
	"sort"

	"transitpos/internal/geojson"
	"transitpos/internal/gtfs"
)

// StopByID returns one stop as a GeoJSON Point feature.
func (h *Handler) StopByID(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.datasetOrUnavailable(w)
	if !ok {
		return
	}

	id := r.PathValue("id")
	stop, ok := ds.Stops[id]
	if !ok {
		writeError(w, h.logger, notFound("no such stop: %s", id))
		return
	}

	writeJSON(w, http.StatusOK, geojson.Stop(stop))
}

// Stops returns every stop in the feed as a GeoJSON FeatureCollection.
func (h *Handler) Stops(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.datasetOrUnavailable(w)
	if !ok {
		return
	}

	stops := make([]*gtfs.Stop, 0, len(ds.Stops))
	for _, stop := range ds.Stops {
		stops = append(stops, stop)
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].ID < stops[j].ID })

	fc := geojson.Collection()
	for _, stop := range stops {
		fc.AddFeature(geojson.Stop(stop))
	}
	writeJSON(w, http.StatusOK, fc)
}

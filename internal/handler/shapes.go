package handler

import (
	"net/http"
	"sort"

	"transitpos/internal/geojson"
	"transitpos/internal/gtfs"
)

// ShapeByID returns one shape as a GeoJSON LineString feature.
func (h *Handler) ShapeByID(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.datasetOrUnavailable(w)
	if !ok {
		return
	}

	id := r.PathValue("id")
	shape, ok := ds.Shapes[id]
	if !ok {
		writeError(w, h.logger, notFound("no such shape: %s", id))
		return
	}

	writeJSON(w, http.StatusOK, geojson.Shape(shape))
}

// Shapes returns every shape in the feed as a GeoJSON FeatureCollection.
func (h *Handler) Shapes(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.datasetOrUnavailable(w)
	if !ok {
		return
	}

	shapes := make([]*gtfs.Shape, 0, len(ds.Shapes))
	for _, shape := range ds.Shapes {
		shapes = append(shapes, shape)
	}
	sort.Slice(shapes, func(i, j int) bool { return shapes[i].ID < shapes[j].ID })

	fc := geojson.Collection()
	for _, shape := range shapes {
		fc.AddFeature(geojson.Shape(shape))
	}
	writeJSON(w, http.StatusOK, fc)
}

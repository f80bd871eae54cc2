package handler

import (
	"net/http"
	"sort"

	"transitpos/internal/gtfs"
)

// RouteByID returns one route's attributes.
func (h *Handler) RouteByID(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.datasetOrUnavailable(w)
	if !ok {
		return
	}

	id := r.PathValue("id")
	route, ok := ds.Routes[id]
	if !ok {
		writeError(w, h.logger, notFound("no such route: %s", id))
		return
	}

	writeJSON(w, http.StatusOK, route)
}

// Routes returns every route in the feed.
func (h *Handler) Routes(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.datasetOrUnavailable(w)
	if !ok {
		return
	}

	routes := make([]*gtfs.Route, 0, len(ds.Routes))
	for _, route := range ds.Routes {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].ID < routes[j].ID })

	writeJSON(w, http.StatusOK, routes)
}

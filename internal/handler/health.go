package handler

import "net/http"

// healthResponse mirrors the external interface's field names exactly:
// status plus the per-table row counts read at load time.
type healthResponse struct {
	Status              string `json:"status"`
	ShapesLoaded        int    `json:"shapesLoaded"`
	StopsLoaded         int    `json:"stopsLoaded"`
	RoutesLoaded        int    `json:"routesLoaded"`
	TripsLoaded         int    `json:"tripsLoaded"`
	StopTimesLoaded     int    `json:"stopTimesLoaded"`
	CalendarLoaded      int    `json:"calendarLoaded"`
	CalendarDatesLoaded int    `json:"calendarDatesLoaded"`
}

// Health reports whether the dataset is loaded and, once it is, the
// row counts read at load time.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ds, err := h.store.Get()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "loading"})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:              "ok",
		ShapesLoaded:        ds.ShapesLoaded,
		StopsLoaded:         ds.StopsLoaded,
		RoutesLoaded:        ds.RoutesLoaded,
		TripsLoaded:         ds.TripsLoaded,
		StopTimesLoaded:     ds.StopTimesLoaded,
		CalendarLoaded:      ds.CalendarLoaded,
		CalendarDatesLoaded: ds.CalendarDatesLoaded,
	})
}

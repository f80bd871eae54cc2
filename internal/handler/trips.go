package handler

import (
	"net/http"
	"sort"

	"transitpos/internal/gtfs"
)

// TripByID returns one trip's schedule, including its full stop_times.
func (h *Handler) TripByID(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.datasetOrUnavailable(w)
	if !ok {
		return
	}

	id := r.PathValue("id")
	trip, ok := ds.Trips[id]
	if !ok {
		writeError(w, h.logger, notFound("no such trip: %s", id))
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// Trips returns every trip in the feed.
func (h *Handler) Trips(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.datasetOrUnavailable(w)
	if !ok {
		return
	}

	trips := make([]*gtfs.Trip, 0, len(ds.Trips))
	for _, trip := range ds.Trips {
		trips = append(trips, trip)
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].ID < trips[j].ID })

	writeJSON(w, http.StatusOK, trips)
}

// TripsByDate returns the trip_ids belonging to any service active on
// the :date path parameter (YYYYMMDD).
func (h *Handler) TripsByDate(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.datasetOrUnavailable(w)
	if !ok {
		return
	}

	date := r.PathValue("date")
	if !dateRe.MatchString(date) {
		writeError(w, h.logger, badRequest("date must be YYYYMMDD, got %q", date))
		return
	}

	active, err := gtfs.ActiveServices(ds, date)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var tripIDs []string
	for serviceID := range active {
		tripIDs = append(tripIDs, ds.TripsByService[serviceID]...)
	}
	sort.Strings(tripIDs)

	writeJSON(w, http.StatusOK, map[string]any{
		"date":       date,
		"trip_count": len(tripIDs),
		"trip_ids":   tripIDs,
	})
}

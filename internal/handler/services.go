package handler

import (
	"net/http"
	"regexp"
	"sort"

	"transitpos/internal/gtfs"
)

var dateRe = regexp.MustCompile(`^\d{8}$`)

// ServicesByDate returns the service_ids active on a YYYYMMDD date.
func (h *Handler) ServicesByDate(w http.ResponseWriter, r *http.Request) {
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

	serviceIDs := make([]string, 0, len(active))
	for serviceID := range active {
		serviceIDs = append(serviceIDs, serviceID)
	}
	sort.Strings(serviceIDs)

	writeJSON(w, http.StatusOK, map[string]any{
		"date":          date,
		"service_count": len(serviceIDs),
		"service_ids":   serviceIDs,
	})
}

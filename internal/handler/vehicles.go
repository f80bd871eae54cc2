package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/go.geojson"

	ourgeojson "transitpos/internal/geojson"
	"transitpos/internal/gtfs"
)

var datetimeRe = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})T(\d{2}):(\d{2}):(\d{2})$`)
var datetimePathRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`)

// Vehicles resolves every currently-running trip's vehicle position at
// the instant named by the :datetime path parameter
// (YYYY-MM-DDTHH:MM:SS, feed-local naive wall clock — never
// timezone-converted) and returns them keyed by trip_id. An optional
// "routes" query parameter (comma-separated route_ids) restricts the
// result. Hour may exceed 23 for a query framed against a past-midnight
// service day; it is taken at face value, never re-interpreted.
func (h *Handler) Vehicles(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.datasetOrUnavailable(w)
	if !ok {
		return
	}

	datetime := r.PathValue("datetime")
	if !datetimePathRe.MatchString(datetime) {
		writeError(w, h.logger, badRequest("datetime must be YYYY-MM-DDTHH:MM:SS, got %q", datetime))
		return
	}

	dateKey, seconds, ok := parseDatetime(datetime)
	if !ok {
		writeError(w, h.logger, badRequest("datetime must be YYYY-MM-DDTHH:MM:SS, got %q", datetime))
		return
	}

	var routeFilter map[string]bool
	if routes := r.URL.Query().Get("routes"); routes != "" {
		routeFilter = make(map[string]bool)
		for _, id := range strings.Split(routes, ",") {
			if id != "" {
				routeFilter[id] = true
			}
		}
	}

	positions, err := gtfs.VehiclePositions(r.Context(), ds, dateKey, seconds, routeFilter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	vehicles := make(map[string]*geojson.Feature, len(positions))
	for tripID, pos := range positions {
		vehicles[tripID] = ourgeojson.VehiclePosition(ds, pos)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"datetime":      datetime,
		"vehicle_count": len(vehicles),
		"vehicles":      vehicles,
	})
}

// parseDatetime extracts the YYYYMMDD date key and seconds-since-
// midnight from a validated :datetime string without going through
// time.Parse, which rejects an hour component ≥ 24 — exactly the
// representation a past-midnight service-day query needs to express.
func parseDatetime(datetime string) (dateKey string, seconds int, ok bool) {
	compact := datetime[:4] + datetime[5:7] + datetime[8:10] + "T" + datetime[11:13] + ":" + datetime[14:16] + ":" + datetime[17:19]
	m := datetimeRe.FindStringSubmatch(compact)
	if m == nil {
		return "", 0, false
	}
	dateKey = m[1] + m[2] + m[3]
	h, errH := strconv.Atoi(m[4])
	min, errM := strconv.Atoi(m[5])
	s, errS := strconv.Atoi(m[6])
	if errH != nil || errM != nil || errS != nil {
		return "", 0, false
	}
	return dateKey, h*3600 + min*60 + s, true
}

package gtfs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"

	"transitpos/internal/blobsource"
	"transitpos/internal/geo"
	"transitpos/internal/tabular"
)

// Load ingests a GTFS feed from source into a fresh, fully-indexed
// Dataset. Tables are read in this order: shapes, stops, routes, trips,
// calendar, calendar_dates, stop_times — each optional; a missing file
// logs a warning and leaves the corresponding index empty rather than
// failing the load. An unreadable source (bad credentials, transport
// failure) or a table that cannot be parsed as CSV fails Load.
func Load(ctx context.Context, source blobsource.Source, logger *slog.Logger) (*Dataset, error) {
	ds := newDataset()

	if err := loadShapes(ctx, source, ds, logger); err != nil {
		return nil, err
	}
	if err := loadStops(ctx, source, ds, logger); err != nil {
		return nil, err
	}
	if err := loadRoutes(ctx, source, ds, logger); err != nil {
		return nil, err
	}
	if err := loadTrips(ctx, source, ds, logger); err != nil {
		return nil, err
	}
	if err := loadCalendar(ctx, source, ds, logger); err != nil {
		return nil, err
	}
	if err := loadCalendarDates(ctx, source, ds, logger); err != nil {
		return nil, err
	}
	if err := loadStopTimes(ctx, source, ds, logger); err != nil {
		return nil, err
	}

	for tripID, trip := range ds.Trips {
		ds.TripsByService[trip.ServiceID] = append(ds.TripsByService[trip.ServiceID], tripID)
	}

	computeShapeDistances(ds)
	computeStopShapeDists(ds)

	logger.Info("gtfs dataset loaded",
		"shapes", ds.ShapesLoaded,
		"stops", ds.StopsLoaded,
		"routes", ds.RoutesLoaded,
		"trips", ds.TripsLoaded,
		"stop_times", ds.StopTimesLoaded,
		"calendar", ds.CalendarLoaded,
		"calendar_dates", ds.CalendarDatesLoaded,
	)

	return ds, nil
}

// openOptional opens name from source, returning (nil, false, nil) if
// the file is absent — the "missing optional file" case §4.3 requires
// to be a warning, not a load failure.
func openOptional(ctx context.Context, source blobsource.Source, name string, logger *slog.Logger) (io.ReadCloser, bool, error) {
	exists, err := source.Exists(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("gtfs: checking %s: %w", name, err)
	}
	if !exists {
		logger.Warn("gtfs table missing, leaving index empty", "file", name)
		return nil, false, nil
	}
	rc, err := source.Open(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("gtfs: opening %s: %w", name, err)
	}
	return rc, true, nil
}

// decodeEagerTable reads every row of an optional small CSV table into
// a slice of T via csvutil's tag-driven struct decoding. Small GTFS
// tables (stops, routes, trips, calendar, calendar_dates) are loaded
// whole since the dataset keeps them resident regardless.
func decodeEagerTable[T any](ctx context.Context, source blobsource.Source, name string, logger *slog.Logger) ([]T, error) {
	rc, ok, err := openOptional(ctx, source, name, logger)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("gtfs: reading %s: %w", name, err)
	}
	content = stripBOM(content)

	cr := csv.NewReader(bytes.NewReader(content))
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	dec, err := csvutil.NewDecoder(&trimmingCSVReader{cr})
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("gtfs: decoding %s: %w", name, err)
	}

	var rows []T
	if err := dec.Decode(&rows); err != nil && err != io.EOF {
		return nil, fmt.Errorf("gtfs: decoding %s: %w", name, err)
	}
	return rows, nil
}

// trimmingCSVReader trims whitespace from every field, satisfying the
// tabular reader contract even for the csvutil-backed eager path.
type trimmingCSVReader struct {
	*csv.Reader
}

func (r *trimmingCSVReader) Read() ([]string, error) {
	fields, err := r.Reader.Read()
	if err != nil {
		return fields, err
	}
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields, nil
}

func stripBOM(b []byte) []byte {
	const bom0, bom1, bom2 = 0xEF, 0xBB, 0xBF
	if len(b) >= 3 && b[0] == bom0 && b[1] == bom1 && b[2] == bom2 {
		return b[3:]
	}
	return b
}

type shapeRow struct {
	ShapeID         string `csv:"shape_id"`
	ShapePtLat      string `csv:"shape_pt_lat"`
	ShapePtLon      string `csv:"shape_pt_lon"`
	ShapePtSequence string `csv:"shape_pt_sequence"`
}

func loadShapes(ctx context.Context, source blobsource.Source, ds *Dataset, logger *slog.Logger) error {
	rc, ok, err := openOptional(ctx, source, "shapes.txt", logger)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	defer rc.Close()

	reader, err := tabular.New(rc)
	if err != nil {
		return fmt.Errorf("gtfs: opening shapes.txt: %w", err)
	}

	type rawPoint struct {
		seq   int
		point Point
	}
	raw := make(map[string][]rawPoint)

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("gtfs: reading shapes.txt: %w", err)
		}
		id := rec.Get("shape_id")
		if id == "" {
			continue
		}
		lat, errLat := strconv.ParseFloat(rec.Get("shape_pt_lat"), 64)
		lon, errLon := strconv.ParseFloat(rec.Get("shape_pt_lon"), 64)
		seq, errSeq := strconv.Atoi(rec.Get("shape_pt_sequence"))
		if errLat != nil || errLon != nil || errSeq != nil {
			continue
		}
		ds.ShapesLoaded++
		raw[id] = append(raw[id], rawPoint{seq: seq, point: Point{Lat: lat, Lon: lon}})
	}

	for id, pts := range raw {
		sort.Slice(pts, func(i, j int) bool { return pts[i].seq < pts[j].seq })
		points := make([]Point, len(pts))
		for i, p := range pts {
			points[i] = p.point
		}
		ds.Shapes[id] = &Shape{ID: id, Points: points}
	}
	return nil
}

func loadStops(ctx context.Context, source blobsource.Source, ds *Dataset, logger *slog.Logger) error {
	rows, err := decodeEagerTable[struct {
		StopID             string `csv:"stop_id"`
		StopCode           string `csv:"stop_code"`
		StopName           string `csv:"stop_name"`
		StopDesc           string `csv:"stop_desc"`
		StopLat            string `csv:"stop_lat"`
		StopLon            string `csv:"stop_lon"`
		ZoneID             string `csv:"zone_id"`
		StopURL            string `csv:"stop_url"`
		LocationType       string `csv:"location_type"`
		ParentStation      string `csv:"parent_station"`
		WheelchairBoarding string `csv:"wheelchair_boarding"`
	}](ctx, source, "stops.txt", logger)
	if err != nil {
		return err
	}

	for _, r := range rows {
		if r.StopID == "" {
			continue
		}
		lat, _ := strconv.ParseFloat(r.StopLat, 64)
		lon, _ := strconv.ParseFloat(r.StopLon, 64)
		ds.StopsLoaded++
		ds.Stops[r.StopID] = &Stop{
			ID:    r.StopID,
			Name:  r.StopName,
			Point: Point{Lat: lat, Lon: lon},
			Extra: map[string]string{
				"stop_code":           r.StopCode,
				"stop_desc":           r.StopDesc,
				"zone_id":             r.ZoneID,
				"stop_url":            r.StopURL,
				"location_type":       r.LocationType,
				"parent_station":      r.ParentStation,
				"wheelchair_boarding": r.WheelchairBoarding,
			},
		}
	}
	return nil
}

func loadRoutes(ctx context.Context, source blobsource.Source, ds *Dataset, logger *slog.Logger) error {
	rows, err := decodeEagerTable[struct {
		RouteID        string `csv:"route_id"`
		RouteShortName string `csv:"route_short_name"`
		RouteLongName  string `csv:"route_long_name"`
		RouteType      string `csv:"route_type"`
		RouteColor     string `csv:"route_color"`
		RouteTextColor string `csv:"route_text_color"`
	}](ctx, source, "routes.txt", logger)
	if err != nil {
		return err
	}

	for _, r := range rows {
		if r.RouteID == "" {
			continue
		}
		routeType, _ := strconv.Atoi(r.RouteType)
		ds.RoutesLoaded++
		ds.Routes[r.RouteID] = &Route{
			ID:        r.RouteID,
			ShortName: r.RouteShortName,
			LongName:  r.RouteLongName,
			Type:      routeType,
			Color:     r.RouteColor,
			TextColor: r.RouteTextColor,
		}
	}
	return nil
}

func loadTrips(ctx context.Context, source blobsource.Source, ds *Dataset, logger *slog.Logger) error {
	rows, err := decodeEagerTable[struct {
		TripID       string `csv:"trip_id"`
		RouteID      string `csv:"route_id"`
		ServiceID    string `csv:"service_id"`
		TripHeadsign string `csv:"trip_headsign"`
		DirectionID  string `csv:"direction_id"`
		ShapeID      string `csv:"shape_id"`
	}](ctx, source, "trips.txt", logger)
	if err != nil {
		return err
	}

	for _, r := range rows {
		if r.TripID == "" {
			continue
		}
		ds.TripsLoaded++
		ds.Trips[r.TripID] = &Trip{
			ID:          r.TripID,
			RouteID:     r.RouteID,
			ServiceID:   r.ServiceID,
			ShapeID:     r.ShapeID,
			Headsign:    r.TripHeadsign,
			DirectionID: r.DirectionID,
		}
	}
	return nil
}

func loadCalendar(ctx context.Context, source blobsource.Source, ds *Dataset, logger *slog.Logger) error {
	rows, err := decodeEagerTable[struct {
		ServiceID string `csv:"service_id"`
		Monday    string `csv:"monday"`
		Tuesday   string `csv:"tuesday"`
		Wednesday string `csv:"wednesday"`
		Thursday  string `csv:"thursday"`
		Friday    string `csv:"friday"`
		Saturday  string `csv:"saturday"`
		Sunday    string `csv:"sunday"`
		StartDate string `csv:"start_date"`
		EndDate   string `csv:"end_date"`
	}](ctx, source, "calendar.txt", logger)
	if err != nil {
		return err
	}

	for _, r := range rows {
		if r.ServiceID == "" {
			continue
		}
		var mask uint8
		// Bit i corresponds to time.Weekday i (Sunday=0 .. Saturday=6),
		// matching calendar.txt's own Sunday-last column order only in
		// name, not in bit position — see the calendar resolver.
		setBit := func(day int, flag string) {
			if flag == "1" {
				mask |= 1 << uint(day)
			}
		}
		setBit(0, r.Sunday)
		setBit(1, r.Monday)
		setBit(2, r.Tuesday)
		setBit(3, r.Wednesday)
		setBit(4, r.Thursday)
		setBit(5, r.Friday)
		setBit(6, r.Saturday)

		ds.CalendarLoaded++
		ds.Calendars[r.ServiceID] = &Calendar{
			ServiceID:   r.ServiceID,
			WeekdayMask: mask,
			StartDate:   r.StartDate,
			EndDate:     r.EndDate,
		}
	}
	return nil
}

func loadCalendarDates(ctx context.Context, source blobsource.Source, ds *Dataset, logger *slog.Logger) error {
	rows, err := decodeEagerTable[struct {
		ServiceID     string `csv:"service_id"`
		Date          string `csv:"date"`
		ExceptionType string `csv:"exception_type"`
	}](ctx, source, "calendar_dates.txt", logger)
	if err != nil {
		return err
	}

	for _, r := range rows {
		if r.ServiceID == "" || r.Date == "" {
			continue
		}
		var kind ExceptionKind
		switch r.ExceptionType {
		case "1":
			kind = ExceptionAdd
		case "2":
			kind = ExceptionRemove
		default:
			continue
		}
		ds.CalendarDatesLoaded++
		ds.ExceptionsByDate[r.Date] = append(ds.ExceptionsByDate[r.Date], CalendarException{
			ServiceID: r.ServiceID,
			Date:      r.Date,
			Kind:      kind,
		})
	}
	return nil
}

func loadStopTimes(ctx context.Context, source blobsource.Source, ds *Dataset, logger *slog.Logger) error {
	rc, ok, err := openOptional(ctx, source, "stop_times.txt", logger)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	defer rc.Close()

	reader, err := tabular.New(rc)
	if err != nil {
		return fmt.Errorf("gtfs: opening stop_times.txt: %w", err)
	}

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("gtfs: reading stop_times.txt: %w", err)
		}

		ds.StopTimesLoaded++

		tripID := rec.Get("trip_id")
		trip, ok := ds.Trips[tripID]
		if !ok {
			// Orphan stop_time: the referenced trip doesn't exist.
			// Tolerated per the data model's cross-reference rule.
			continue
		}

		seq, errSeq := strconv.Atoi(rec.Get("stop_sequence"))
		arrival, errArr := parseGTFSTime(rec.Get("arrival_time"))
		departure, errDep := parseGTFSTime(rec.Get("departure_time"))
		if errSeq != nil || errArr != nil || errDep != nil {
			continue
		}

		trip.StopTimes = append(trip.StopTimes, StopTime{
			StopID:       rec.Get("stop_id"),
			StopSequence: seq,
			Arrival:      arrival,
			Departure:    departure,
		})
	}

	for _, trip := range ds.Trips {
		sort.Slice(trip.StopTimes, func(i, j int) bool {
			return trip.StopTimes[i].StopSequence < trip.StopTimes[j].StopSequence
		})
	}
	return nil
}

// parseGTFSTime parses "HH:MM:SS" into seconds since midnight. HH may
// exceed 23 for service continuing past midnight.
func parseGTFSTime(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("gtfs: malformed time %q", s)
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	sec, errS := strconv.Atoi(parts[2])
	if errH != nil || errM != nil || errS != nil {
		return 0, fmt.Errorf("gtfs: malformed time %q", s)
	}
	return h*3600 + m*60 + sec, nil
}

// computeShapeDistances fills in Shape.Cumulative by summing haversine
// segments. This is the single source of truth for distance-along-shape;
// any shape_dist_traveled in the source feed is ignored.
func computeShapeDistances(ds *Dataset) {
	for _, shape := range ds.Shapes {
		shape.Cumulative = make([]float64, len(shape.Points))
		for i := 1; i < len(shape.Points); i++ {
			prev, cur := shape.Points[i-1], shape.Points[i]
			seg := geo.Haversine(prev.Lat, prev.Lon, cur.Lat, cur.Lon)
			shape.Cumulative[i] = shape.Cumulative[i-1] + seg
		}
	}
}

// computeStopShapeDists sets each stop time's distance along its trip's
// shape: the cumulative distance of the shape point geographically
// nearest the stop, found by brute-force linear scan (ties go to the
// lowest index). Trips without a usable shape fall back to cumulative
// stop-to-stop haversine distance.
func computeStopShapeDists(ds *Dataset) {
	for _, trip := range ds.Trips {
		shape := ds.Shapes[trip.ShapeID]
		if shape == nil || len(shape.Points) == 0 {
			var dist float64
			for i := range trip.StopTimes {
				if i > 0 {
					stop := ds.Stops[trip.StopTimes[i].StopID]
					prevStop := ds.Stops[trip.StopTimes[i-1].StopID]
					if stop != nil && prevStop != nil {
						dist += geo.Haversine(prevStop.Point.Lat, prevStop.Point.Lon, stop.Point.Lat, stop.Point.Lon)
					}
				}
				trip.StopTimes[i].ShapeDist = dist
			}
			continue
		}

		var lastDist float64
		for i := range trip.StopTimes {
			stop := ds.Stops[trip.StopTimes[i].StopID]
			if stop == nil {
				// Unknown stop: hold the shape distance steady rather than
				// reset to zero, keeping the per-trip sequence non-decreasing.
				trip.StopTimes[i].ShapeDist = lastDist
				continue
			}
			bestIdx := 0
			bestDist := geo.Haversine(stop.Point.Lat, stop.Point.Lon, shape.Points[0].Lat, shape.Points[0].Lon)
			for j := 1; j < len(shape.Points); j++ {
				d := geo.Haversine(stop.Point.Lat, stop.Point.Lon, shape.Points[j].Lat, shape.Points[j].Lon)
				if d < bestDist {
					bestDist = d
					bestIdx = j
				}
			}
			lastDist = shape.Cumulative[bestIdx]
			trip.StopTimes[i].ShapeDist = lastDist
		}
	}
}

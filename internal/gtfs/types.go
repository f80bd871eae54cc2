// Package gtfs holds the immutable, in-memory GTFS dataset plus the
// three algorithms that answer queries against it: which services run
// on a date, which trips belong to them, and where each trip's vehicle
// currently sits along its shape.
package gtfs

// Point is a lat/lon coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Shape is an ordered polyline. Cumulative[i] is the running haversine
// distance in meters from Points[0] to Points[i]; Cumulative[0] is
// always 0 and the sequence is non-decreasing.
type Shape struct {
	ID         string    `json:"shape_id"`
	Points     []Point   `json:"points"`
	Cumulative []float64 `json:"cumulative_distance"`
}

// Stop is a named location a trip may call at. Extra carries the GTFS
// columns this service doesn't interpret itself (zone_id, stop_url,
// wheelchair_boarding, ...) so the builder doesn't need a named field
// for every optional column stops.txt might define.
type Stop struct {
	ID    string            `json:"stop_id"`
	Name  string            `json:"stop_name"`
	Point Point             `json:"point"`
	Extra map[string]string `json:"extra,omitempty"`
}

// Route is a GTFS route. Type is the raw GTFS integer category
// (0=tram, 1=subway, 2=rail, 3=bus, ...).
type Route struct {
	ID        string `json:"route_id"`
	ShortName string `json:"route_short_name"`
	LongName  string `json:"route_long_name"`
	Type      int    `json:"route_type"`
	Color     string `json:"route_color,omitempty"`
	TextColor string `json:"route_text_color,omitempty"`
}

// StopTime attaches a stop to a trip at a position in its sequence.
// Arrival/Departure are seconds since local midnight and may exceed
// 86400 for trips that run past midnight. ShapeDist is the distance in
// meters along the trip's shape, derived geometrically at load time —
// never taken from the source shape_dist_traveled column.
type StopTime struct {
	StopID       string  `json:"stop_id"`
	StopSequence int     `json:"stop_sequence"`
	Arrival      int     `json:"arrival_seconds"`
	Departure    int     `json:"departure_seconds"`
	ShapeDist    float64 `json:"shape_dist_traveled"`
}

// Trip is one scheduled run of a vehicle. StopTimes is sorted by
// StopSequence.
type Trip struct {
	ID          string     `json:"trip_id"`
	RouteID     string     `json:"route_id"`
	ServiceID   string     `json:"service_id"`
	ShapeID     string     `json:"shape_id,omitempty"`
	Headsign    string     `json:"trip_headsign,omitempty"`
	DirectionID string     `json:"direction_id,omitempty"`
	StopTimes   []StopTime `json:"stop_times"`
}

// ExceptionKind is a calendar_dates.txt exception_type.
type ExceptionKind int

const (
	ExceptionAdd    ExceptionKind = 1
	ExceptionRemove ExceptionKind = 2
)

// Calendar is a weekly service pattern valid over an inclusive date
// range. WeekdayMask bit i (i = time.Sunday..time.Saturday) is set when
// the service runs on that weekday.
type Calendar struct {
	ServiceID   string
	WeekdayMask uint8
	StartDate   string // YYYYMMDD
	EndDate     string // YYYYMMDD
}

// CalendarException overlays a Calendar for one date.
type CalendarException struct {
	ServiceID string
	Date      string // YYYYMMDD
	Kind      ExceptionKind
}

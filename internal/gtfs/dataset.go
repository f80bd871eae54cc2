package gtfs

import (
	"errors"
	"sync/atomic"
)

// Dataset is the complete, immutable result of loading one GTFS feed.
// Every field is populated once by Load and never mutated afterward —
// concurrent readers need no locking.
type Dataset struct {
	Shapes    map[string]*Shape
	Stops     map[string]*Stop
	Routes    map[string]*Route
	Trips     map[string]*Trip
	Calendars map[string]*Calendar

	// ExceptionsByDate indexes CalendarExceptions by date for O(1)
	// lookup during calendar resolution.
	ExceptionsByDate map[string][]CalendarException

	// TripsByService is the derived trips_by_service index.
	TripsByService map[string][]string

	// Row counts as loaded, for /health — independent of map sizes,
	// since maps dedupe overwritten keys but /health should report what
	// was actually read off the wire.
	ShapesLoaded        int
	StopsLoaded         int
	RoutesLoaded        int
	TripsLoaded         int
	StopTimesLoaded     int
	CalendarLoaded      int
	CalendarDatesLoaded int
}

func newDataset() *Dataset {
	return &Dataset{
		Shapes:           make(map[string]*Shape),
		Stops:            make(map[string]*Stop),
		Routes:           make(map[string]*Route),
		Trips:            make(map[string]*Trip),
		Calendars:        make(map[string]*Calendar),
		ExceptionsByDate: make(map[string][]CalendarException),
		TripsByService:   make(map[string][]string),
	}
}

// ErrNotReady is returned by Store.Get before Install has ever run.
var ErrNotReady = errors.New("gtfs: dataset not loaded yet")

// Store holds the single dataset pointer shared by every request. It is
// written exactly once, on successful load, and read by every query
// thereafter — the "install atomically, read-only forever" rule of the
// data model.
type Store struct {
	ptr atomic.Pointer[Dataset]
}

// NewStore creates an empty, not-yet-ready Store.
func NewStore() *Store {
	return &Store{}
}

// Install publishes ds. Requests already in flight keep using whatever
// they last observed; new requests see ds immediately.
func (s *Store) Install(ds *Dataset) {
	s.ptr.Store(ds)
}

// Get returns the current dataset, or ErrNotReady if Install hasn't run.
func (s *Store) Get() (*Dataset, error) {
	ds := s.ptr.Load()
	if ds == nil {
		return nil, ErrNotReady
	}
	return ds, nil
}

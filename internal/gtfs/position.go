package gtfs

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"transitpos/internal/geo"
)

// Vehicle status values, mirroring the external interface's status
// strings exactly.
const (
	StatusAtStop    = "at_stop"
	StatusInTransit = "in_transit"
)

// VehiclePosition is where VehiclePositions believes a trip's vehicle
// sits at the query instant.
type VehiclePosition struct {
	TripID  string
	RouteID string
	Point   Point
	Status  string

	StopID string // set only when Status == StatusAtStop

	FromStopID string // set only when Status == StatusInTransit
	ToStopID   string

	ShapeDist float64
}

// VehiclePositions resolves one position per currently-running trip at
// instant (dateKey, secondsSinceMidnight) — dateKey is YYYYMMDD and
// secondsSinceMidnight may exceed 86,400, exactly as recorded in
// stop_times.txt; no past-midnight re-interpretation is performed.
// routeFilter, if non-nil, restricts the result to trips on those
// route_ids, applied before per-trip work. Trips are fanned out across
// a bounded worker pool sized to GOMAXPROCS, since each trip's
// resolution is independent and read-only against the shared Dataset.
func VehiclePositions(ctx context.Context, ds *Dataset, dateKey string, secondsSinceMidnight int, routeFilter map[string]bool) (map[string]VehiclePosition, error) {
	active, err := ActiveServices(ds, dateKey)
	if err != nil {
		return nil, fmt.Errorf("gtfs: resolving positions: %w", err)
	}

	var tripIDs []string
	for serviceID := range active {
		for _, tripID := range ds.TripsByService[serviceID] {
			trip := ds.Trips[tripID]
			if trip == nil {
				continue
			}
			if routeFilter != nil && !routeFilter[trip.RouteID] {
				continue
			}
			tripIDs = append(tripIDs, tripID)
		}
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > len(tripIDs) {
		workers = len(tripIDs)
	}

	results := make(chan *VehiclePosition, len(tripIDs))
	jobs := make(chan string, len(tripIDs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tripID := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				trip := ds.Trips[tripID]
				pos := positionForTrip(ds, trip, secondsSinceMidnight)
				if pos != nil {
					results <- pos
				}
			}
		}()
	}

	for _, tripID := range tripIDs {
		jobs <- tripID
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[string]VehiclePosition, len(tripIDs))
	for pos := range results {
		out[pos.TripID] = *pos
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// positionForTrip resolves a single trip's vehicle position, or nil if
// the trip isn't running at t, or if it is in transit but has no shape
// or no bracketing shape segment — both are skipped silently rather
// than approximated. At-stop takes precedence over in-transit: a
// vehicle sitting in its dwell window is reported at that stop rather
// than interpolated.
func positionForTrip(ds *Dataset, trip *Trip, t int) *VehiclePosition {
	if trip == nil || len(trip.StopTimes) == 0 {
		return nil
	}
	stopTimes := trip.StopTimes

	if t < stopTimes[0].Arrival || t > stopTimes[len(stopTimes)-1].Departure {
		return nil
	}

	for _, st := range stopTimes {
		if t >= st.Arrival && t <= st.Departure {
			stop := ds.Stops[st.StopID]
			if stop == nil {
				return nil
			}
			return &VehiclePosition{
				TripID:    trip.ID,
				RouteID:   trip.RouteID,
				Point:     stop.Point,
				Status:    StatusAtStop,
				StopID:    st.StopID,
				ShapeDist: st.ShapeDist,
			}
		}
	}

	for i := 0; i < len(stopTimes)-1; i++ {
		from, to := stopTimes[i], stopTimes[i+1]
		if !(t > from.Departure && t < to.Arrival) {
			continue
		}

		span := to.Arrival - from.Departure
		var ratio float64
		if span > 0 {
			ratio = float64(t-from.Departure) / float64(span)
		}

		expectedDist := from.ShapeDist + ratio*(to.ShapeDist-from.ShapeDist)

		point, ok := interpolateAlongShape(ds.Shapes[trip.ShapeID], expectedDist)
		if !ok {
			return nil
		}

		return &VehiclePosition{
			TripID:     trip.ID,
			RouteID:    trip.RouteID,
			Point:      point,
			Status:     StatusInTransit,
			FromStopID: from.StopID,
			ToStopID:   to.StopID,
			ShapeDist:  expectedDist,
		}
	}

	return nil
}

// interpolateAlongShape finds the shape segment bracketing dist and
// linearly interpolates within it. ok is false when the trip has no
// shape or no bracketing segment exists.
func interpolateAlongShape(shape *Shape, dist float64) (Point, bool) {
	if shape == nil || len(shape.Points) < 2 {
		return Point{}, false
	}

	last := len(shape.Cumulative) - 1
	if dist < shape.Cumulative[0] || dist > shape.Cumulative[last] {
		return Point{}, false
	}

	for i := 1; i <= last; i++ {
		if dist <= shape.Cumulative[i] {
			segStart, segEnd := shape.Cumulative[i-1], shape.Cumulative[i]
			var ratio float64
			if segEnd > segStart {
				ratio = (dist - segStart) / (segEnd - segStart)
			}
			lat, lon := geo.Lerp(shape.Points[i-1].Lat, shape.Points[i-1].Lon, shape.Points[i].Lat, shape.Points[i].Lon, ratio)
			return Point{Lat: lat, Lon: lon}, true
		}
	}

	return shape.Points[last], true
}

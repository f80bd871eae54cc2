package gtfs

import (
	"context"
	"testing"
)

func TestVehiclePositions_AtStop(t *testing.T) {
	ds := mustLoad(t, oneLineShapeFeed())

	positions, err := VehiclePositions(context.Background(), ds, "20260727", 8*3600, nil)
	if err != nil {
		t.Fatalf("VehiclePositions: %v", err)
	}

	pos, ok := positions["T1"]
	if !ok {
		t.Fatal("trip T1 should have a position at its first stop's arrival time")
	}
	if pos.Status != StatusAtStop {
		t.Errorf("Status = %q, want %q: %+v", pos.Status, StatusAtStop, pos)
	}
	if pos.StopID != "STOP_A" {
		t.Errorf("StopID = %q, want STOP_A", pos.StopID)
	}
}

func TestVehiclePositions_InTransitMidpoint(t *testing.T) {
	ds := mustLoad(t, oneLineShapeFeed())

	// Halfway between 08:00:00 departure and 08:10:00 arrival.
	positions, err := VehiclePositions(context.Background(), ds, "20260727", 8*3600+5*60, nil)
	if err != nil {
		t.Fatalf("VehiclePositions: %v", err)
	}

	pos, ok := positions["T1"]
	if !ok {
		t.Fatal("trip T1 should be in transit at the midpoint")
	}
	if pos.Status != StatusInTransit {
		t.Errorf("Status = %q, want %q: %+v", pos.Status, StatusInTransit, pos)
	}
	if pos.FromStopID != "STOP_A" || pos.ToStopID != "STOP_B" {
		t.Errorf("FromStopID/ToStopID = %q/%q, want STOP_A/STOP_B", pos.FromStopID, pos.ToStopID)
	}

	// Shape runs from (45.00,-93.00) to (45.01,-93.00); midpoint should
	// land close to (45.005,-93.00).
	if pos.Point.Lat < 45.003 || pos.Point.Lat > 45.007 {
		t.Errorf("Point.Lat = %f, want roughly 45.005", pos.Point.Lat)
	}
}

func TestVehiclePositions_OutsideServiceWindow(t *testing.T) {
	ds := mustLoad(t, oneLineShapeFeed())

	positions, err := VehiclePositions(context.Background(), ds, "20260727", 23*3600, nil)
	if err != nil {
		t.Fatalf("VehiclePositions: %v", err)
	}
	if _, ok := positions["T1"]; ok {
		t.Error("trip T1 should have no position outside its schedule window")
	}
}

func TestVehiclePositions_OutsideCalendarDate(t *testing.T) {
	ds := mustLoad(t, oneLineShapeFeed())

	positions, err := VehiclePositions(context.Background(), ds, "20250101", 8*3600+5*60, nil)
	if err != nil {
		t.Fatalf("VehiclePositions: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("expected no positions outside the calendar's date range, got %v", positions)
	}
}

func TestVehiclePositions_RouteFilter(t *testing.T) {
	ds := mustLoad(t, oneLineShapeFeed())

	positions, err := VehiclePositions(context.Background(), ds, "20260727", 8*3600, map[string]bool{"OTHER_ROUTE": true})
	if err != nil {
		t.Fatalf("VehiclePositions: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("route filter excluding R1 should yield no positions, got %v", positions)
	}

	positions, err = VehiclePositions(context.Background(), ds, "20260727", 8*3600, map[string]bool{"R1": true})
	if err != nil {
		t.Fatalf("VehiclePositions: %v", err)
	}
	if _, ok := positions["T1"]; !ok {
		t.Error("route filter including R1 should still yield T1")
	}
}

func TestVehiclePositions_NoPastMidnightSynthesis(t *testing.T) {
	files := oneLineShapeFeed()
	files["stop_times.txt"] = "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
		"T1,STOP_A,1,25:00:00,25:00:00\n" +
		"T1,STOP_B,2,25:10:00,25:10:00\n"

	ds := mustLoad(t, files)

	// 01:05 the same service day does NOT match 25:05 (= 01:05 the next
	// day); only an explicit query of seconds=25*3600+5*60 matches
	// stop_times recorded past midnight.
	positions, err := VehiclePositions(context.Background(), ds, "20260727", 1*3600+5*60, nil)
	if err != nil {
		t.Fatalf("VehiclePositions: %v", err)
	}
	if _, ok := positions["T1"]; ok {
		t.Error("01:05 should not match a stop_time recorded as 25:05 without synthesis")
	}

	positions, err = VehiclePositions(context.Background(), ds, "20260727", 25*3600+5*60, nil)
	if err != nil {
		t.Fatalf("VehiclePositions: %v", err)
	}
	if _, ok := positions["T1"]; !ok {
		t.Error("querying with the trip's own >24h convention should match T1")
	}
}

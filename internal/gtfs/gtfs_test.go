package gtfs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"transitpos/internal/blobsource"
)

// writeFeed materializes files (name -> CSV content) under a temp
// directory and returns a blobsource.Source rooted there, ready to
// hand to Load.
func writeFeed(t *testing.T, files map[string]string) blobsource.Source {
	t.Helper()
	root := t.TempDir()
	feedDir := filepath.Join(root, "feed")
	if err := os.MkdirAll(feedDir, 0755); err != nil {
		t.Fatalf("mkdir feed dir: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(feedDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return blobsource.NewLocal(root, "feed")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// oneLineShapeFeed is a minimal feed with a single shape (two points),
// one stop at each end, one route, one trip between them, and a
// calendar that runs every day with no exceptions.
func oneLineShapeFeed() map[string]string {
	return map[string]string{
		"shapes.txt": "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n" +
			"S1,45.0000,-93.0000,1\n" +
			"S1,45.0100,-93.0000,2\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"STOP_A,A Street,45.0000,-93.0000\n" +
			"STOP_B,B Street,45.0100,-93.0000\n",
		"routes.txt": "route_id,route_short_name,route_long_name,route_type\n" +
			"R1,1,Main Line,3\n",
		"trips.txt": "trip_id,route_id,service_id,trip_headsign,direction_id,shape_id\n" +
			"T1,R1,WEEKDAY,Downtown,0,S1\n",
		"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
			"WEEKDAY,1,1,1,1,1,1,1,20260101,20261231\n",
		"stop_times.txt": "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
			"T1,STOP_A,1,08:00:00,08:00:00\n" +
			"T1,STOP_B,2,08:10:00,08:10:00\n",
	}
}

func mustLoad(t *testing.T, files map[string]string) *Dataset {
	t.Helper()
	ds, err := Load(context.Background(), writeFeed(t, files), discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ds
}

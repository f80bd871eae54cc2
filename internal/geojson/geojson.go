// Package geojson renders GTFS entities and resolved vehicle positions
// as GeoJSON FeatureCollections for the HTTP gateway.
package geojson

import (
	"github.com/paulmach/go.geojson"

	"transitpos/internal/gtfs"
)

// Shape renders a single shape as a LineString Feature.
func Shape(shape *gtfs.Shape) *geojson.Feature {
	coords := make([][]float64, len(shape.Points))
	for i, p := range shape.Points {
		coords[i] = []float64{p.Lon, p.Lat}
	}
	f := geojson.NewLineStringFeature(coords)
	f.ID = shape.ID
	f.SetProperty("shape_id", shape.ID)
	return f
}

// Stop renders a single stop as a Point Feature.
func Stop(stop *gtfs.Stop) *geojson.Feature {
	f := geojson.NewPointFeature([]float64{stop.Point.Lon, stop.Point.Lat})
	f.ID = stop.ID
	f.SetProperty("stop_id", stop.ID)
	f.SetProperty("name", stop.Name)
	for k, v := range stop.Extra {
		if v != "" {
			f.SetProperty(k, v)
		}
	}
	return f
}

// VehiclePosition renders one resolved position as a Point Feature.
// The full route object is embedded by value when known, null
// otherwise; stop_name is looked up for the at_stop case since the
// resolver itself only carries stop ids.
func VehiclePosition(ds *gtfs.Dataset, pos gtfs.VehiclePosition) *geojson.Feature {
	f := geojson.NewPointFeature([]float64{pos.Point.Lon, pos.Point.Lat})
	f.ID = pos.TripID
	f.SetProperty("trip_id", pos.TripID)
	f.SetProperty("shape_dist_traveled", pos.ShapeDist)
	f.SetProperty("status", pos.Status)

	if route, ok := ds.Routes[pos.RouteID]; ok {
		f.SetProperty("route", route)
	} else {
		f.SetProperty("route", nil)
	}

	switch pos.Status {
	case gtfs.StatusAtStop:
		f.SetProperty("stop_id", pos.StopID)
		if stop, ok := ds.Stops[pos.StopID]; ok {
			f.SetProperty("stop_name", stop.Name)
		} else {
			f.SetProperty("stop_name", nil)
		}
	case gtfs.StatusInTransit:
		f.SetProperty("from_stop_id", pos.FromStopID)
		f.SetProperty("to_stop_id", pos.ToStopID)
	}

	return f
}

// Collection wraps features in a FeatureCollection.
func Collection(features ...*geojson.Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.AddFeature(f)
	}
	return fc
}

// Package geojson adapts this module's polyline results to the GeoJSON
// boundary contract of spec §6.4: every polyline becomes a LineString
// Feature carrying its level as a numeric property, ready to serialize
// with encoding/json.
//
// Grounded on the teacher's own output adapters (sample/tilemesh.Builder
// and cmd/recast/cmd/build.go both shape internal geometry into a fixed
// external struct right before writing it out) and on yaml.v2/json
// struct-tag conventions used throughout the teacher's cmd package.
package geojson

import (
	"github.com/arl/isocontour/polyline"
)

// FeatureCollection is a minimal GeoJSON FeatureCollection: just enough
// structure to round-trip LineString contours, not a general-purpose
// GeoJSON library.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one polyline, encoded as a GeoJSON LineString Feature with a
// "level" property.
type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry is a GeoJSON LineString: coordinates as [x, y] pairs in the
// order spec §6.4 requires, open polylines not repeating their first
// point and closed ones doing so explicitly.
type Geometry struct {
	Type        string        `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// Properties carries the one attribute spec §6.4 names: the contour
// level the polyline was extracted at.
type Properties struct {
	Level float64 `json:"level"`
}

// FromPolylines converts polys into a FeatureCollection, one Feature per
// polyline, in the order given.
func FromPolylines(polys []polyline.Polyline) *FeatureCollection {
	fc := &FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, len(polys)),
	}
	for i, pl := range polys {
		coords := make([][2]float64, len(pl.Points))
		for j, p := range pl.Points {
			coords[j] = [2]float64{p.X, p.Y}
		}
		fc.Features[i] = Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "LineString",
				Coordinates: coords,
			},
			Properties: Properties{Level: pl.Level},
		}
	}
	return fc
}

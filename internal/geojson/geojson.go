// ABOUTME: GeoJSON generation for the renderer hand-off
// ABOUTME: Converts filtered points and the view window to FeatureCollections

package geojson

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/harper/footprints/internal/models"
)

// FeatureCollection represents a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type       string                 `json:"type"`
	BBox       []float64              `json:"bbox,omitempty"`
	Features   []Feature              `json:"features"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// Feature represents a GeoJSON Feature.
type Feature struct {
	Type       string                 `json:"type"`
	BBox       []float64              `json:"bbox,omitempty"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry represents a GeoJSON Geometry.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// PointCoordinates represents [longitude, latitude] for a Point.
type PointCoordinates [2]float64

// LineCoordinates represents [[lng, lat], [lng, lat], ...] for a LineString
// or MultiPoint.
type LineCoordinates []PointCoordinates

// BBox returns the GeoJSON bbox [west, south, east, north] of b.
func BBox(b models.Bounds) []float64 {
	return []float64{b.MinLng, b.MinLat, b.MaxLng, b.MaxLat}
}

// FromView builds the renderer payload: every point in one MultiPoint
// feature, the fitted box as the collection bbox, and the range and count
// as properties.
func FromView(points []models.LatLng, window *models.ViewWindow, r models.Range) *FeatureCollection {
	coords := make(LineCoordinates, len(points))
	for i, p := range points {
		coords[i] = PointCoordinates{p.Lng, p.Lat}
	}

	fc := &FeatureCollection{
		Type: "FeatureCollection",
		Features: []Feature{{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "MultiPoint",
				Coordinates: coords,
			},
			Properties: map[string]interface{}{
				"point_count": len(points),
			},
		}},
		Properties: map[string]interface{}{
			"start":       formatMillis(r.Start),
			"end":         formatMillis(r.End),
			"point_count": len(points),
		},
	}
	if window != nil {
		fc.BBox = BBox(window.Bounds)
		fc.Properties["center"] = PointCoordinates{window.Center.Lng, window.Center.Lat}
	}
	return fc
}

// ToPointsFeatureCollection converts records to a FeatureCollection of
// Points, one per record, carrying its timestamp.
func ToPointsFeatureCollection(records []models.Record) *FeatureCollection {
	features := make([]Feature, 0, len(records))

	for _, rec := range records {
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: PointCoordinates{rec.Longitude(), rec.Latitude()},
			},
			Properties: map[string]interface{}{
				"timestamp":   rec.Timestamp,
				"recorded_at": formatMillis(rec.Timestamp),
			},
		})
	}

	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// ToLineFeatureCollection joins records, in order, into one LineString.
// Fewer than two records produce an empty collection.
func ToLineFeatureCollection(records []models.Record) *FeatureCollection {
	fc := &FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
	if len(records) < 2 {
		// Need at least 2 points for a line
		return fc
	}

	coords := make(LineCoordinates, len(records))
	for i, rec := range records {
		coords[i] = PointCoordinates{rec.Longitude(), rec.Latitude()}
	}
	fc.Features = append(fc.Features, Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "LineString",
			Coordinates: coords,
		},
		Properties: map[string]interface{}{
			"point_count": len(records),
			"start":       formatMillis(records[0].Timestamp),
			"end":         formatMillis(records[len(records)-1].Timestamp),
		},
	})
	return fc
}

// ToJSON serializes a FeatureCollection to JSON.
func (fc *FeatureCollection) ToJSON() ([]byte, error) {
	return json.Marshal(fc)
}

// ToJSONIndent serializes a FeatureCollection to indented JSON.
func (fc *FeatureCollection) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
}

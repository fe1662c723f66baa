// ABOUTME: Unit tests for GeoJSON generation
// ABOUTME: Tests the view payload and Point and LineString builders

package geojson

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/harper/footprints/internal/models"
)

func testRecords() []models.Record {
	return []models.Record{
		models.NewRecord(418781000, -876298000, 1000),
		models.NewRecord(418800000, -876300000, 2000),
		models.NewRecord(418900000, -876400000, 3000),
	}
}

func TestFromView(t *testing.T) {
	points := []models.LatLng{{Lat: 41.8781, Lng: -87.6298}, {Lat: 41.88, Lng: -87.63}}
	window := &models.ViewWindow{
		Center: models.LatLng{Lat: 41.879, Lng: -87.6299},
		Bounds: models.Bounds{MinLat: 41.8781, MaxLat: 41.88, MinLng: -87.63, MaxLng: -87.6298},
	}

	fc := FromView(points, window, models.Range{Start: 1000, End: 2000})

	if fc.Type != "FeatureCollection" {
		t.Errorf("expected FeatureCollection type, got %s", fc.Type)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	if fc.Features[0].Geometry.Type != "MultiPoint" {
		t.Errorf("expected MultiPoint geometry, got %s", fc.Features[0].Geometry.Type)
	}

	coords, ok := fc.Features[0].Geometry.Coordinates.(LineCoordinates)
	if !ok {
		t.Fatal("expected LineCoordinates")
	}
	if coords[0][0] != -87.6298 || coords[0][1] != 41.8781 {
		t.Errorf("expected [lng, lat] order, got %v", coords[0])
	}

	want := []float64{-87.63, 41.8781, -87.6298, 41.88}
	if len(fc.BBox) != 4 {
		t.Fatalf("expected bbox of 4, got %v", fc.BBox)
	}
	for i := range want {
		if fc.BBox[i] != want[i] {
			t.Errorf("bbox[%d] = %v, want %v", i, fc.BBox[i], want[i])
		}
	}
	if fc.Properties["start"] != "1970-01-01T00:00:01Z" {
		t.Errorf("unexpected start %v", fc.Properties["start"])
	}
	if fc.Properties["point_count"] != 2 {
		t.Errorf("unexpected point_count %v", fc.Properties["point_count"])
	}
}

func TestFromView_NoWindow(t *testing.T) {
	fc := FromView(nil, nil, models.Range{Start: 0, End: 86_400_000})

	if fc.BBox != nil {
		t.Errorf("expected no bbox, got %v", fc.BBox)
	}
	if _, ok := fc.Properties["center"]; ok {
		t.Error("expected no center without a window")
	}
}

func TestToPointsFeatureCollection(t *testing.T) {
	fc := ToPointsFeatureCollection(testRecords())

	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}
	feature := fc.Features[0]
	if feature.Geometry.Type != "Point" {
		t.Errorf("expected Point geometry, got %s", feature.Geometry.Type)
	}
	coords, ok := feature.Geometry.Coordinates.(PointCoordinates)
	if !ok {
		t.Fatal("expected PointCoordinates")
	}
	if coords[0] != -87.6298 || coords[1] != 41.8781 {
		t.Errorf("unexpected coordinates %v", coords)
	}
	if feature.Properties["timestamp"] != int64(1000) {
		t.Errorf("unexpected timestamp %v", feature.Properties["timestamp"])
	}
}

func TestToLineFeatureCollection(t *testing.T) {
	fc := ToLineFeatureCollection(testRecords())

	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	if fc.Features[0].Geometry.Type != "LineString" {
		t.Errorf("expected LineString geometry, got %s", fc.Features[0].Geometry.Type)
	}
	if fc.Features[0].Properties["point_count"] != 3 {
		t.Errorf("expected point_count 3, got %v", fc.Features[0].Properties["point_count"])
	}
}

func TestToLineFeatureCollection_SinglePoint(t *testing.T) {
	fc := ToLineFeatureCollection(testRecords()[:1])

	if len(fc.Features) != 0 {
		t.Errorf("expected 0 features for single point, got %d", len(fc.Features))
	}
}

func TestFeatureCollection_ToJSON(t *testing.T) {
	fc := FromView([]models.LatLng{{Lat: 1, Lng: 2}}, &models.ViewWindow{
		Center: models.LatLng{Lat: 1, Lng: 2},
		Bounds: models.Bounds{MinLat: 1, MaxLat: 1, MinLng: 2, MaxLng: 2},
	}, models.Range{Start: 0, End: 1})

	jsonBytes, err := fc.ToJSONIndent()
	if err != nil {
		t.Fatalf("ToJSONIndent failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if parsed["type"] != "FeatureCollection" {
		t.Errorf("expected type FeatureCollection, got %v", parsed["type"])
	}
	if _, ok := parsed["bbox"]; !ok {
		t.Error("expected bbox in output")
	}
}

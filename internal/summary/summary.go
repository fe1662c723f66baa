// ABOUTME: Outlier-robust view window for a set of coordinates
// ABOUTME: Mean center plus a bounding box over the points within the median distance

package summary

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
	"github.com/harper/footprints/internal/models"
)

// EarthRadiusMeters is the mean Earth radius used for span measurement.
const EarthRadiusMeters = 6_371_000.0

// Summarize computes the view window for points. Geometry is planar in
// degree space: X is longitude and Y is latitude. It reports false when
// points is empty.
func Summarize(points []models.LatLng) (models.ViewWindow, bool) {
	if len(points) == 0 {
		return models.ViewWindow{}, false
	}

	planar := make([]r2.Point, len(points))
	var sum r2.Point
	for i, p := range points {
		planar[i] = r2.Point{X: p.Lng, Y: p.Lat}
		sum = sum.Add(planar[i])
	}
	center := sum.Mul(1 / float64(len(points)))

	dist := make([]float64, len(planar))
	for i, p := range planar {
		dist[i] = squaredDistance(center, p)
	}
	median := Select(dist, len(dist)/2)

	rect := r2.EmptyRect()
	for _, p := range planar {
		if squaredDistance(center, p) <= median {
			rect = rect.AddPoint(p)
		}
	}
	if rect.IsEmpty() {
		rect = r2.RectFromPoints(planar...)
	}

	bounds := models.Bounds{
		MinLat: rect.Lo().Y,
		MaxLat: rect.Hi().Y,
		MinLng: rect.Lo().X,
		MaxLng: rect.Hi().X,
	}
	return models.ViewWindow{
		Center:     models.LatLng{Lat: center.Y, Lng: center.X},
		Bounds:     bounds,
		SpanMeters: Span(bounds),
	}, true
}

// Span returns the great-circle length of the bounds diagonal in meters.
func Span(b models.Bounds) float64 {
	sw := s2.LatLngFromDegrees(b.MinLat, b.MinLng)
	ne := s2.LatLngFromDegrees(b.MaxLat, b.MaxLng)
	return sw.Distance(ne).Radians() * EarthRadiusMeters
}

func squaredDistance(a, b r2.Point) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}

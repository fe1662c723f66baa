// ABOUTME: Core data models for location records, ranges, and view windows
// ABOUTME: Provides E7 fixed-point conversion and coordinate validation

package models

import (
	"fmt"
	"math"
)

// E7 is the fixed-point scale used by location exports (degrees × 10^7).
const E7 = 1e7

// ValidateCoordinates checks if latitude and longitude are within valid ranges.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return fmt.Errorf("coordinates cannot be NaN")
	}
	if math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("coordinates cannot be infinite")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// Record is one decoded location fix. Coordinates stay in E7 fixed point so
// delta encoding round trips without drift.
type Record struct {
	LatitudeE7  int64 `json:"latitudeE7" yaml:"latitude_e7"`
	LongitudeE7 int64 `json:"longitudeE7" yaml:"longitude_e7"`
	Timestamp   int64 `json:"timestamp" yaml:"timestamp"` // epoch milliseconds
}

// NewRecord creates a record from E7 coordinates and epoch milliseconds.
func NewRecord(latE7, lngE7, timestamp int64) Record {
	return Record{LatitudeE7: latE7, LongitudeE7: lngE7, Timestamp: timestamp}
}

// Latitude returns the latitude in degrees.
func (r Record) Latitude() float64 {
	return float64(r.LatitudeE7) / E7
}

// Longitude returns the longitude in degrees.
func (r Record) Longitude() float64 {
	return float64(r.LongitudeE7) / E7
}

// LatLng returns the record's coordinates in degrees.
func (r Record) LatLng() LatLng {
	return LatLng{Lat: r.Latitude(), Lng: r.Longitude()}
}

// LatLng is a coordinate pair in degrees.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Range is an inclusive interval of epoch-millisecond timestamps.
type Range struct {
	Start int64 `json:"start" yaml:"start"`
	End   int64 `json:"end" yaml:"end"`
}

// Contains reports whether ts lies within [Start, End].
func (r Range) Contains(ts int64) bool {
	return ts >= r.Start && ts <= r.End
}

// Bounds is an axis-aligned box in degree space.
type Bounds struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MinLng float64 `json:"min_lng" yaml:"min_lng"`
	MaxLng float64 `json:"max_lng" yaml:"max_lng"`
}

// Contains reports whether p lies inside the box, edges included.
func (b Bounds) Contains(p LatLng) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// ViewWindow is what a renderer needs to frame the current points.
type ViewWindow struct {
	Center LatLng `json:"center" yaml:"center"`
	Bounds Bounds `json:"bounds" yaml:"bounds"`

	// SpanMeters is the great-circle length of the bounds diagonal.
	SpanMeters float64 `json:"span_meters" yaml:"span_meters"`
}

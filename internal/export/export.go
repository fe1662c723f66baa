// ABOUTME: Exports of the current view: YAML snapshot, GeoJSON, delta JSON, markdown
// ABOUTME: Writes the filtered points in formats other tools can load back

package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/harper/footprints/internal/decoder"
	"github.com/harper/footprints/internal/geojson"
	"github.com/harper/footprints/internal/models"
	"github.com/harper/footprints/internal/ui"
	"gopkg.in/yaml.v3"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = "1.0"

// Format names an export format.
type Format string

const (
	FormatGeoJSON  Format = "geojson"
	FormatYAML     Format = "yaml"
	FormatDelta    Format = "delta"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatGeoJSON, FormatYAML, FormatDelta, FormatMarkdown:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want geojson, yaml, delta, or markdown)", s)
	}
}

// Geometry selects how GeoJSON exports shape the points.
type Geometry string

const (
	GeometryMultiPoint Geometry = "multipoint"
	GeometryPoints     Geometry = "points"
	GeometryLine       Geometry = "line"
)

// ParseGeometry validates a geometry name. Empty means multipoint.
func ParseGeometry(s string) (Geometry, error) {
	switch g := Geometry(strings.ToLower(s)); g {
	case "":
		return GeometryMultiPoint, nil
	case GeometryMultiPoint, GeometryPoints, GeometryLine:
		return g, nil
	default:
		return "", fmt.Errorf("unsupported geometry %q (use multipoint, points, or line)", s)
	}
}

// Snapshot is the YAML summary of a view.
type Snapshot struct {
	Version    string             `yaml:"version"`
	ExportedAt time.Time          `yaml:"exported_at"`
	Tool       string             `yaml:"tool"`
	Sources    []string           `yaml:"sources,omitempty"`
	Extent     RangeBackup        `yaml:"extent"`
	Filter     RangeBackup        `yaml:"filter"`
	Points     int                `yaml:"points"`
	Total      int                `yaml:"total"`
	Window     *models.ViewWindow `yaml:"window,omitempty"`
	Message    string             `yaml:"message,omitempty"`
}

// RangeBackup is a range with both raw and formatted bounds.
type RangeBackup struct {
	Start      int64  `yaml:"start"`
	End        int64  `yaml:"end"`
	StartLabel string `yaml:"start_label"`
	EndLabel   string `yaml:"end_label"`
}

// Input is what an export needs from a session.
type Input struct {
	Sources  []string
	Extent   models.Range
	Filter   models.Range
	Total    int
	Records  []models.Record // filtered, ascending by timestamp
	Window   *models.ViewWindow
	Message  string
	Location *time.Location
	Geometry Geometry
}

func rangeBackup(r models.Range, loc *time.Location) RangeBackup {
	return RangeBackup{
		Start:      r.Start,
		End:        r.End,
		StartLabel: ui.FormatDateTime(r.Start, loc),
		EndLabel:   ui.FormatDateTime(r.End, loc),
	}
}

// NewSnapshot builds the snapshot for in.
func NewSnapshot(in Input) Snapshot {
	return Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       "footprints",
		Sources:    in.Sources,
		Extent:     rangeBackup(in.Extent, in.Location),
		Filter:     rangeBackup(in.Filter, in.Location),
		Points:     len(in.Records),
		Total:      in.Total,
		Window:     in.Window,
		Message:    in.Message,
	}
}

// ToYAML exports the snapshot of in.
func ToYAML(in Input) ([]byte, error) {
	return yaml.Marshal(NewSnapshot(in))
}

// ParseSnapshot reads a snapshot written by ToYAML.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version: %s (expected %s)", s.Version, SnapshotVersion)
	}
	if s.Tool != "footprints" {
		return nil, fmt.Errorf("wrong tool: %s (expected footprints)", s.Tool)
	}
	return &s, nil
}

// ToGeoJSON exports the filtered points. The default multipoint geometry
// also carries the fitted box and range.
func ToGeoJSON(in Input) ([]byte, error) {
	switch in.Geometry {
	case GeometryPoints:
		return geojson.ToPointsFeatureCollection(in.Records).ToJSONIndent()
	case GeometryLine:
		return geojson.ToLineFeatureCollection(in.Records).ToJSONIndent()
	}
	points := make([]models.LatLng, len(in.Records))
	for i, r := range in.Records {
		points[i] = r.LatLng()
	}
	return geojson.FromView(points, in.Window, in.Filter).ToJSONIndent()
}

// ToDelta exports the filtered records in the delta-compressed encoding,
// which the decoder reads back exactly.
func ToDelta(in Input) ([]byte, error) {
	payload, err := decoder.EncodeDelta(in.Records)
	if err != nil {
		return nil, fmt.Errorf("encode delta: %w", err)
	}
	return json.Marshal(payload)
}

// Write renders in as f to w.
func Write(w io.Writer, f Format, in Input) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatGeoJSON:
		data, err = ToGeoJSON(in)
	case FormatYAML:
		data, err = ToYAML(in)
	case FormatDelta:
		data, err = ToDelta(in)
	case FormatMarkdown:
		data, err = ToMarkdown(in)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", f, err)
	}
	return nil
}

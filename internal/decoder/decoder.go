// ABOUTME: Location history decoder for standard and delta-compressed JSON
// ABOUTME: Inflates gzip-framed files on the fly and yields flat records

package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/harper/footprints/internal/models"
	"github.com/klauspost/compress/gzip"
)

// FormatDeltaCompressed is the `format` marker of the delta encoding.
const FormatDeltaCompressed = "delta-compressed"

// payload is the union of both recognized top-level shapes.
type payload struct {
	Format    *string         `json:"format"`
	Locations json.RawMessage `json:"locations"`
	Base      json.RawMessage `json:"base"`
	Data      json.RawMessage `json:"data"`
}

// standardEntry keeps pointers so absent fields can be told apart from zero.
// Coordinates are numbers rather than int64 because some exporters write
// integral E7 values with a fractional part (473000000.0).
type standardEntry struct {
	LatitudeE7  *json.Number `json:"latitudeE7"`
	LongitudeE7 *json.Number `json:"longitudeE7"`
	Timestamp   *string      `json:"timestamp"`
}

// IsCompressed reports whether filename denotes a gzip-framed file.
func IsCompressed(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".gz") || strings.HasSuffix(name, ".gzip")
}

// Decode decodes an in-memory file.
func Decode(data []byte, filename string) ([]models.Record, error) {
	return DecodeReader(bytes.NewReader(data), filename)
}

// DecodeReader decodes a file from r. Gzip framing is selected by filename
// and inflated while the JSON decoder reads, so the plain text is never
// buffered separately.
func DecodeReader(r io.Reader, filename string) ([]models.Record, error) {
	if !IsCompressed(filename) {
		return decodeJSON(r, filename, nil)
	}

	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, &DecompressionError{File: filename, Err: err}
	}
	defer func() { _ = zr.Close() }()

	tr := &trackingReader{r: zr}
	records, err := decodeJSON(tr, filename, tr)
	if err != nil {
		return nil, err
	}
	if tr.err != nil {
		return nil, &DecompressionError{File: filename, Err: tr.err}
	}

	// Drain the rest of the stream so the gzip checksum is verified.
	if _, err := io.Copy(io.Discard, tr); err != nil {
		return nil, &DecompressionError{File: filename, Err: err}
	}
	return records, nil
}

func decodeJSON(r io.Reader, filename string, tr *trackingReader) ([]models.Record, error) {
	var p payload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		if tr != nil && tr.err != nil {
			return nil, &DecompressionError{File: filename, Err: tr.err}
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &FormatError{File: filename, Reason: "expected a JSON object"}
		}
		return nil, &ParseError{File: filename, Err: fmt.Errorf("parse json: %w", err)}
	}

	// The document must be a single value; only whitespace may follow it.
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if tr != nil && tr.err != nil {
			return nil, &DecompressionError{File: filename, Err: tr.err}
		}
		return nil, &ParseError{File: filename, Err: errors.New("parse json: unexpected content after top-level value")}
	}

	if p.Format != nil && *p.Format == FormatDeltaCompressed {
		records, err := decodeDelta(p.Base, p.Data)
		if err != nil {
			return nil, &FormatError{File: filename, Reason: fmt.Sprintf("failed to decode delta-compressed data: %v", err)}
		}
		return records, nil
	}

	if !isPresent(p.Locations) {
		return nil, &FormatError{
			File:   filename,
			Reason: "expected location history JSON (standard or delta-compressed format)",
		}
	}
	return decodeStandard(p.Locations, filename)
}

func decodeStandard(raw json.RawMessage, filename string) ([]models.Record, error) {
	var entries []standardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &FormatError{File: filename, Reason: fmt.Sprintf("locations: %v", err)}
	}

	records := make([]models.Record, 0, len(entries))
	for i, e := range entries {
		if e.LatitudeE7 == nil || e.LongitudeE7 == nil || e.Timestamp == nil {
			continue
		}
		lat, err := e7Value(*e.LatitudeE7)
		if err != nil {
			return nil, &FormatError{File: filename, Reason: fmt.Sprintf("locations[%d].latitudeE7: %v", i, err)}
		}
		lng, err := e7Value(*e.LongitudeE7)
		if err != nil {
			return nil, &FormatError{File: filename, Reason: fmt.Sprintf("locations[%d].longitudeE7: %v", i, err)}
		}
		ts, err := ParseTimestamp(*e.Timestamp)
		if err != nil {
			return nil, &ParseError{File: filename, Err: fmt.Errorf("locations[%d]: %w", i, err)}
		}
		rec := models.NewRecord(lat, lng, ts)
		// Fixes off the globe are dropped like incomplete entries.
		if models.ValidateCoordinates(rec.Latitude(), rec.Longitude()) != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// e7Value converts an E7 coordinate to an integer, rounding values written
// with a fractional part.
func e7Value(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("not a number: %q", n.String())
	}
	return int64(math.Round(f)), nil
}

// isPresent reports whether a raw field was supplied with a non-null value.
func isPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// trackingReader remembers the first non-EOF read error so inflate failures
// are not reported as JSON syntax errors.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && t.err == nil {
		t.err = err
	}
	return n, err
}

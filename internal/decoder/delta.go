// ABOUTME: Delta-compressed location encoding
// ABOUTME: One absolute base fix plus parallel arrays of successive differences

package decoder

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/harper/footprints/internal/models"
)

// DeltaPayload is the delta-compressed file shape:
// base = [latE7, lonE7, epochMillis], data = [deltaLats, deltaLons, deltaTimes].
type DeltaPayload struct {
	Format string     `json:"format"`
	Base   [3]int64   `json:"base"`
	Data   [3][]int64 `json:"data"`
}

// ErrNoRecords is returned when encoding an empty record set.
var ErrNoRecords = errors.New("no records to encode")

// EncodeDelta encodes records, in the given order, into a delta payload.
func EncodeDelta(records []models.Record) (*DeltaPayload, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	first := records[0]
	n := len(records) - 1
	p := &DeltaPayload{
		Format: FormatDeltaCompressed,
		Base:   [3]int64{first.LatitudeE7, first.LongitudeE7, first.Timestamp},
		Data:   [3][]int64{make([]int64, n), make([]int64, n), make([]int64, n)},
	}

	prev := first
	for i, r := range records[1:] {
		p.Data[0][i] = r.LatitudeE7 - prev.LatitudeE7
		p.Data[1][i] = r.LongitudeE7 - prev.LongitudeE7
		p.Data[2][i] = r.Timestamp - prev.Timestamp
		prev = r
	}
	return p, nil
}

// Records expands the payload back into absolute records.
func (p *DeltaPayload) Records() ([]models.Record, error) {
	lats, lons, times := p.Data[0], p.Data[1], p.Data[2]
	if len(lats) != len(lons) || len(lats) != len(times) {
		return nil, fmt.Errorf("delta arrays have unequal lengths %d/%d/%d", len(lats), len(lons), len(times))
	}

	records := make([]models.Record, 0, len(lats)+1)
	lat, lon, ts := p.Base[0], p.Base[1], p.Base[2]
	records = append(records, models.NewRecord(lat, lon, ts))
	for i := range lats {
		lat += lats[i]
		lon += lons[i]
		ts += times[i]
		records = append(records, models.NewRecord(lat, lon, ts))
	}
	return records, nil
}

// decodeDelta validates the raw base/data fields and expands them.
func decodeDelta(rawBase, rawData json.RawMessage) ([]models.Record, error) {
	if !isPresent(rawBase) || !isPresent(rawData) {
		return nil, errors.New("missing base or data")
	}

	var base []int64
	if err := json.Unmarshal(rawBase, &base); err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	if len(base) != 3 {
		return nil, fmt.Errorf("base has %d elements, want 3", len(base))
	}

	var rawArrays []json.RawMessage
	if err := json.Unmarshal(rawData, &rawArrays); err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	if len(rawArrays) != 3 {
		return nil, fmt.Errorf("data has %d arrays, want 3", len(rawArrays))
	}
	var data [3][]int64
	for i, raw := range rawArrays {
		if !isPresent(raw) {
			return nil, fmt.Errorf("data[%d] is missing", i)
		}
		if err := json.Unmarshal(raw, &data[i]); err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
	}

	p := DeltaPayload{
		Format: FormatDeltaCompressed,
		Base:   [3]int64{base[0], base[1], base[2]},
		Data:   data,
	}
	return p.Records()
}

// ABOUTME: Strict timestamp parsing for standard-format entries
// ABOUTME: Accepts an explicit set of ISO-8601 layouts instead of best-effort parsing

package decoder

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order. Zone-less forms are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp into epoch milliseconds.
func ParseTimestamp(s string) (int64, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("invalid timestamp %q (expected ISO-8601, e.g. 2024-01-02T15:04:05.000Z)", s)
}

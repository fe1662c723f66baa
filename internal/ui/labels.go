// ABOUTME: Label text for the range control and the active-filter message
// ABOUTME: 24-hour date times, "--" placeholders, thousands-separated counts

package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Placeholder stands in for a timestamp that cannot be shown.
const Placeholder = "--"

// DateTimeLayout renders "YYYY-MM-DD hh:mm" on a 24-hour clock.
const DateTimeLayout = "2006-01-02 15:04"

// FormatDateTime formats epoch milliseconds in loc. Zero and timestamps
// outside years 1-9999 render as Placeholder. A nil loc means UTC.
func FormatDateTime(ms int64, loc *time.Location) string {
	if ms == 0 {
		return Placeholder
	}
	t := time.UnixMilli(ms)
	if t.Year() < 1 || t.Year() > 9999 {
		return Placeholder
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateTimeLayout)
}

// ExtentLabels returns the labels for both ends of the dataset's extent.
// Both are Placeholder when nothing is loaded.
func ExtentLabels(min, max int64, populated bool, loc *time.Location) (string, string) {
	if !populated {
		return Placeholder, Placeholder
	}
	return FormatDateTime(min, loc), FormatDateTime(max, loc)
}

// FilterMessage describes the active filter, or returns "" when the store
// is empty.
func FilterMessage(count, size int, start, end int64, loc *time.Location) string {
	if size == 0 {
		return ""
	}
	return fmt.Sprintf("%s / %s points • Filter: %s - %s",
		humanize.Comma(int64(count)),
		humanize.Comma(int64(size)),
		FormatDateTime(start, loc),
		FormatDateTime(end, loc))
}

// Labels is the full label set for one render.
type Labels struct {
	ExtentStart string `json:"extent_start" yaml:"extent_start"`
	ExtentEnd   string `json:"extent_end" yaml:"extent_end"`
	Message     string `json:"message" yaml:"message"`
}

// BuildLabels derives every label for the current state.
func BuildLabels(min, max, start, end int64, count, size int, loc *time.Location) Labels {
	lo, hi := ExtentLabels(min, max, size > 0, loc)
	return Labels{
		ExtentStart: lo,
		ExtentEnd:   hi,
		Message:     FilterMessage(count, size, start, end, loc),
	}
}

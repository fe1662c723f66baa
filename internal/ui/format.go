// ABOUTME: Terminal formatting for load reports and view windows
// ABOUTME: Colored, human-readable output for the CLI commands

package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/harper/footprints/internal/ingest"
	"github.com/harper/footprints/internal/models"
)

// FormatLatLng formats a coordinate pair.
func FormatLatLng(p models.LatLng) string {
	return fmt.Sprintf("(%.4f, %.4f)", p.Lat, p.Lng)
}

// FormatViewWindow formats a view window for terminal display.
func FormatViewWindow(w *models.ViewWindow) string {
	if w == nil {
		return color.New(color.Faint).Sprint("(no points in range)")
	}
	faint := color.New(color.Faint)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", faint.Sprint("center:"), color.CyanString(FormatLatLng(w.Center)))
	fmt.Fprintf(&b, "%s %s - %s\n", faint.Sprint("bounds:"),
		FormatLatLng(models.LatLng{Lat: w.Bounds.MinLat, Lng: w.Bounds.MinLng}),
		FormatLatLng(models.LatLng{Lat: w.Bounds.MaxLat, Lng: w.Bounds.MaxLng}))
	fmt.Fprintf(&b, "%s %s", faint.Sprint("span:"), FormatDistance(w.SpanMeters))
	return b.String()
}

// FormatDistance renders meters with SI prefixes.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	v, prefix := humanize.ComputeSI(meters)
	return humanize.FtoaWithDigits(v, 1) + " " + prefix + "m"
}

// FormatFileResult formats the outcome of one file.
func FormatFileResult(r ingest.FileResult) string {
	if !r.OK() {
		return fmt.Sprintf("%s %s: %s",
			color.RedString("✗"),
			r.Name,
			color.RedString(r.Err.Error()))
	}
	return fmt.Sprintf("%s %s %s",
		color.GreenString("✓"),
		r.Name,
		color.New(color.Faint).Sprintf("(%s records, %s)", humanize.Comma(int64(r.Records)), humanize.Bytes(uint64(max(r.Size, 0)))))
}

// FormatLoadReport formats every file result plus a totals line.
func FormatLoadReport(r *ingest.Report) string {
	if r == nil || len(r.Files) == 0 {
		return color.New(color.Faint).Sprint("no files loaded")
	}

	var b strings.Builder
	for _, f := range r.Files {
		b.WriteString(FormatFileResult(f))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s %s points from %d/%d files in %s %s",
		color.CyanString("loaded"),
		humanize.Comma(int64(r.Points)),
		r.Succeeded(),
		len(r.Files),
		FormatElapsed(r.Duration()),
		color.New(color.Faint).Sprintf("(%s records/s)", humanize.Comma(int64(math.Round(r.RecordsPerSecond())))))
	return b.String()
}

// FormatElapsed rounds a duration for display.
func FormatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}

// ABOUTME: Shared helpers for commands that load history files
// ABOUTME: Builds a viewer session from config and parses --from/--to bounds

package main

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harper/footprints/internal/decoder"
	"github.com/harper/footprints/internal/ingest"
	"github.com/harper/footprints/internal/ui"
	"github.com/harper/footprints/internal/viewer"
)

var durationRegex = regexp.MustCompile(`^(\d+)([hdwm])$`)

// newSession builds an empty session tuned by the loaded config.
func newSession() (*viewer.Session, error) {
	loc, err := cfg.GetLocation()
	if err != nil {
		return nil, err
	}
	return viewer.New(viewer.Options{
		ChunkSize:      cfg.GetChunkSize(),
		Workers:        cfg.GetWorkers(),
		Debounce:       cfg.GetDebounce(),
		RepeatInterval: cfg.GetKeyRepeat(),
		Location:       loc,
		Logger:         logger,
	}), nil
}

// loadFiles loads paths into session and prints the per-file report to w.
// It fails only when every file failed.
func loadFiles(ctx context.Context, w io.Writer, session *viewer.Session, paths []string) (*ingest.Report, error) {
	report, err := session.Load(ctx, ingest.FileSources(paths), nil)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	fmt.Fprintln(w, ui.FormatLoadReport(report))
	if report.AllFailed() {
		return report, fmt.Errorf("no file could be loaded: %w", report.Err())
	}
	return report, nil
}

// applyRange narrows the session to --from/--to. Missing bounds keep the
// extent's ends.
func applyRange(session *viewer.Session, from, to string, now time.Time) (viewer.View, error) {
	r := session.Controller().Extent()
	if from != "" {
		v, err := parseBound(from, now)
		if err != nil {
			return viewer.View{}, fmt.Errorf("--from: %w", err)
		}
		r.Start = v
	}
	if to != "" {
		v, err := parseBound(to, now)
		if err != nil {
			return viewer.View{}, fmt.Errorf("--to: %w", err)
		}
		r.End = v
	}
	if r.End < r.Start {
		return viewer.View{}, fmt.Errorf("--from must not be after --to")
	}
	return session.SetRange(r.Start, r.End), nil
}

// parseBound accepts epoch milliseconds, an ISO-8601 timestamp, or a
// duration before now such as 24h, 7d, 2w, 3m.
func parseBound(s string, now time.Time) (int64, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	if t, err := parseDuration(s, now); err == nil {
		return t.UnixMilli(), nil
	}
	ms, err := decoder.ParseTimestamp(s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (use epoch ms, YYYY-MM-DD, RFC3339, or e.g. 7d)", s)
	}
	return ms, nil
}

func parseDuration(s string, now time.Time) (time.Time, error) {
	matches := durationRegex.FindStringSubmatch(s)
	if matches == nil {
		return time.Time{}, fmt.Errorf("invalid duration format (use e.g., 24h, 7d, 1w)")
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid number in duration '%s': %w", s, err)
	}

	var duration time.Duration
	switch matches[2] {
	case "h":
		duration = time.Duration(num) * time.Hour
	case "d":
		duration = time.Duration(num) * 24 * time.Hour
	case "w":
		duration = time.Duration(num) * 7 * 24 * time.Hour
	case "m":
		duration = time.Duration(num) * 30 * 24 * time.Hour
	}
	return now.Add(-duration), nil
}

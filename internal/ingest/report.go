// ABOUTME: Per-file results and the aggregate report of one load
// ABOUTME: Failures are recorded per file and never abort sibling files

package ingest

import (
	"errors"
	"time"
)

// FileResult is the outcome of decoding and ingesting one source.
type FileResult struct {
	Name     string
	Size     int64
	Records  int // records decoded from the file
	Err      error
	Duration time.Duration
}

// OK reports whether the file ingested without error.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// Report summarizes one load.
type Report struct {
	ID        string
	Files     []FileResult // in source order
	Ingested  int          // records applied to the store, before dedup
	Points    int          // distinct points in the store afterwards
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns how long the load took.
func (r *Report) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// Failed returns the results of files that did not ingest.
func (r *Report) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if !f.OK() {
			out = append(out, f)
		}
	}
	return out
}

// Succeeded returns the number of files that ingested.
func (r *Report) Succeeded() int {
	return len(r.Files) - len(r.Failed())
}

// AllFailed reports whether there were files and none of them ingested.
func (r *Report) AllFailed() bool {
	return len(r.Files) > 0 && r.Succeeded() == 0
}

// Err joins every per-file error, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, f := range r.Failed() {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

// RecordsPerSecond returns the ingest rate.
func (r *Report) RecordsPerSecond() float64 {
	secs := r.Duration().Seconds()
	if secs == 0 {
		return 0
	}
	return float64(r.Ingested) / secs
}

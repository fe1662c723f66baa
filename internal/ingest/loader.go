// ABOUTME: Concurrent multi-file loader feeding one shared point store
// ABOUTME: Decodes files on a bounded worker pool and reports per-file outcomes

package ingest

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/footprints/internal/decoder"
	"github.com/harper/footprints/internal/store"
	"golang.org/x/sync/errgroup"
)

// Options configures a Loader.
type Options struct {
	// Workers bounds how many files are decoded at once. Zero means GOMAXPROCS.
	Workers int
	Logger  *log.Logger
}

// Loader decodes sources and ingests them into a store.
type Loader struct {
	store   *store.Store
	workers int
	logger  *log.Logger
}

// NewLoader creates a loader writing into s.
func NewLoader(s *store.Store, opts Options) *Loader {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Loader{store: s, workers: opts.Workers, logger: opts.Logger}
}

// Store returns the store the loader writes into.
func (l *Loader) Store() *store.Store {
	return l.store
}

// Load decodes and ingests every source. A file that fails is recorded in
// the report and does not stop its siblings. The returned error is non-nil
// only when ctx is cancelled; the report is always returned.
func (l *Loader) Load(ctx context.Context, sources []Source, onProgress ProgressFunc) (*Report, error) {
	report := &Report{
		ID:        uuid.New().String(),
		Files:     make([]FileResult, len(sources)),
		StartTime: time.Now(),
	}
	logger := l.logger.With("load", report.ID)
	logger.Debug("load started", "files", len(sources), "workers", l.workers)

	prog := newProgress(sources, onProgress)
	counts := make([]int, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, src := range sources {
		g.Go(func() error {
			began := time.Now()
			res, ingested, err := l.loadOne(gctx, i, src, prog)
			res.Duration = time.Since(began)
			report.Files[i] = res
			counts[i] = ingested
			prog.finish(i)

			if err != nil {
				return err
			}
			if res.Err != nil {
				logger.Warn("file failed", "file", src.Name, "err", res.Err)
			} else {
				logger.Debug("file ingested", "file", src.Name, "records", res.Records, "took", res.Duration)
			}
			return nil
		})
	}
	err := g.Wait()

	for _, n := range counts {
		report.Ingested += n
	}
	report.Points = l.store.Size()
	report.EndTime = time.Now()

	if err != nil {
		logger.Warn("load cancelled", "err", err)
		return report, err
	}
	prog.done()
	logger.Info("load finished",
		"files", len(sources),
		"failed", len(report.Failed()),
		"records", report.Ingested,
		"points", report.Points,
		"took", report.Duration(),
		"rate", report.RecordsPerSecond(),
	)
	return report, nil
}

// loadOne handles a single source. File-scoped failures go into the result;
// only cancellation is returned as an error.
func (l *Loader) loadOne(ctx context.Context, i int, src Source, prog *progress) (FileResult, int, error) {
	res := FileResult{Name: src.Name, Size: src.Size}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res, 0, err
	}

	rc, err := src.Open()
	if err != nil {
		res.Err = fmt.Errorf("open %s: %w", src.Name, err)
		return res, 0, nil
	}
	defer func() { _ = rc.Close() }()

	cr := &countingReader{
		r:     rc,
		size:  src.Size,
		onAdd: func(frac float64) { prog.setRead(i, frac) },
	}
	records, err := decoder.DecodeReader(cr, src.Name)
	if err != nil {
		res.Err = err
		return res, 0, nil
	}
	res.Records = len(records)

	n, err := l.store.Ingest(ctx, records, func(done, total int) {
		prog.setIngested(i, float64(done)/float64(total))
	})
	if err != nil {
		res.Err = fmt.Errorf("ingest %s: %w", src.Name, err)
		return res, n, err
	}
	return res, n, nil
}

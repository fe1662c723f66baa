// ABOUTME: Viewer session wiring store, loader, range controller, and summarizer
// ABOUTME: Debounces recomputation during gestures and publishes the latest view

package viewer

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/footprints/internal/ingest"
	"github.com/harper/footprints/internal/models"
	"github.com/harper/footprints/internal/schedule"
	"github.com/harper/footprints/internal/store"
	"github.com/harper/footprints/internal/summary"
	"github.com/harper/footprints/internal/timerange"
	"github.com/harper/footprints/internal/ui"
)

// DefaultDebounce is the quiet period before an intermediate change is
// recomputed.
const DefaultDebounce = 300 * time.Millisecond

// View is everything a renderer and the labels need for one frame.
type View struct {
	Range     models.Range       `json:"range" yaml:"range"`
	Extent    models.Range       `json:"extent" yaml:"extent"`
	Populated bool               `json:"populated" yaml:"populated"`
	Count     int                `json:"count" yaml:"count"`
	Size      int                `json:"size" yaml:"size"`
	Window    *models.ViewWindow `json:"window,omitempty" yaml:"window,omitempty"`
	Labels    ui.Labels          `json:"labels" yaml:"labels"`
	Points    []models.LatLng    `json:"-" yaml:"-"`
}

// RenderFunc receives every recomputed view.
type RenderFunc func(View)

// Options configures a Session.
type Options struct {
	ChunkSize      int
	Workers        int
	Debounce       time.Duration
	RepeatInterval time.Duration
	Scheduler      schedule.Scheduler
	Location       *time.Location
	Logger         *log.Logger
	OnRender       RenderFunc
}

// Session owns one store, its loader, the range controller, and the latest
// view. It is safe for concurrent use.
type Session struct {
	store    *store.Store
	loader   *ingest.Loader
	ctrl     *timerange.Controller
	debounce *schedule.Debouncer
	loc      *time.Location
	logger   *log.Logger

	loadMu sync.Mutex

	mu       sync.Mutex
	view     View
	onRender RenderFunc
	report   *ingest.Report
}

// New creates an empty session and computes its initial view.
func New(opts Options) *Session {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	st := store.New(store.Options{ChunkSize: opts.ChunkSize})
	s := &Session{
		store:    st,
		loader:   ingest.NewLoader(st, ingest.Options{Workers: opts.Workers, Logger: opts.Logger}),
		debounce: schedule.NewDebouncer(opts.Scheduler, opts.Debounce),
		loc:      opts.Location,
		logger:   opts.Logger,
		onRender: opts.OnRender,
	}
	s.ctrl = timerange.New(timerange.Options{
		Scheduler:      opts.Scheduler,
		RepeatInterval: opts.RepeatInterval,
		Sink:           s.onChange,
	})
	s.Recompute()
	return s
}

// Store returns the session's point store.
func (s *Session) Store() *store.Store {
	return s.store
}

// Controller returns the range controller for gesture input.
func (s *Session) Controller() *timerange.Controller {
	return s.ctrl
}

// Location returns the time zone used for labels.
func (s *Session) Location() *time.Location {
	return s.loc
}

// SetOnRender replaces the render callback.
func (s *Session) SetOnRender(fn RenderFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRender = fn
}

// Load replaces the session's data with sources. Any pending debounced
// recompute is dropped, the controller is reset to the new extent, and the
// view is recomputed immediately.
func (s *Session) Load(ctx context.Context, sources []ingest.Source, onProgress ingest.ProgressFunc) (*ingest.Report, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.debounce.Cancel()
	s.store.Reset()

	report, err := s.loader.Load(ctx, sources, onProgress)

	lo, hi := s.store.Bounds()
	s.ctrl.Reset(lo, hi, !s.store.Empty())
	s.debounce.Cancel()

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	s.Recompute()
	return report, err
}

// LastReport returns the report of the most recent load, or nil.
func (s *Session) LastReport() *ingest.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// SetRange applies a range from a non-interactive caller. The controller
// reports it as an immediate change, so the returned view is already fresh.
// Values are clamped like handle moves.
func (s *Session) SetRange(start, end int64) View {
	s.ctrl.SetRange(start, end)
	return s.View()
}

// View returns the latest computed view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Pending reports whether a debounced recompute is waiting.
func (s *Session) Pending() bool {
	return s.debounce.Pending()
}

// Flush runs a pending debounced recompute now.
func (s *Session) Flush() bool {
	return s.debounce.Flush()
}

// Close stops all timers.
func (s *Session) Close() {
	s.debounce.Cancel()
	s.ctrl.Close()
}

func (s *Session) onChange(_ models.Range, immediate bool) {
	if immediate {
		s.debounce.Cancel()
		s.Recompute()
		return
	}
	s.debounce.Trigger(func() { s.Recompute() })
}

// Recompute filters the store by the controller's range, summarizes the
// result, publishes it, and returns it.
func (s *Session) Recompute() View {
	snap := s.ctrl.Snapshot()
	r := models.Range{Start: snap.Start, End: snap.End}

	points := s.store.Filter(r)
	size := s.store.Size()

	v := View{
		Range:     r,
		Extent:    models.Range{Start: snap.Min, End: snap.Max},
		Populated: size > 0,
		Count:     len(points),
		Size:      size,
		Points:    points,
		Labels:    ui.BuildLabels(snap.Min, snap.Max, snap.Start, snap.End, len(points), size, s.loc),
	}
	if w, ok := summary.Summarize(points); ok {
		v.Window = &w
	}

	s.mu.Lock()
	s.view = v
	fn := s.onRender
	s.mu.Unlock()

	if fn != nil {
		fn(v)
	}
	return v
}

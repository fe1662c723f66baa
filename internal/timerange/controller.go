// ABOUTME: Dual-handle temporal range controller
// ABOUTME: State machine for drag, track click, and accelerating key repeat over [min, max]

package timerange

import (
	"math"
	"sync"
	"time"

	"github.com/harper/footprints/internal/models"
	"github.com/harper/footprints/internal/schedule"
)

const (
	// BaseStep is the keyboard step before acceleration: one hour.
	BaseStep int64 = 3_600_000

	// AccelerationFactor grows the step by 15% of BaseStep per repeat tick.
	AccelerationFactor = 0.15

	// MaxStepMultiplier caps the accelerated step at 8x BaseStep.
	MaxStepMultiplier = 8.0

	// DefaultRepeatInterval is the key-repeat tick.
	DefaultRepeatInterval = 100 * time.Millisecond
)

// Sink receives every handle-value change. immediate is true when a gesture
// has concluded and false for intermediate updates that may be debounced.
type Sink func(r models.Range, immediate bool)

// Options configures a Controller.
type Options struct {
	Scheduler      schedule.Scheduler
	RepeatInterval time.Duration
	Sink           Sink
}

// Controller owns the two handle values and the interaction state. It is
// safe for concurrent use; the sink is always called without locks held.
type Controller struct {
	sink     Sink
	repeater *schedule.Repeater

	mu           sync.Mutex
	min, max     int64
	start, end   int64
	populated    bool
	trackLeft    float64
	trackWidth   float64
	state        State
	handle       Handle
	direction    Direction
	acceleration int
	repeatGen    uint64
}

// New creates a controller over the empty-store sentinel extent.
func New(opts Options) *Controller {
	if opts.RepeatInterval <= 0 {
		opts.RepeatInterval = DefaultRepeatInterval
	}
	c := &Controller{
		sink:       opts.Sink,
		repeater:   schedule.NewRepeater(opts.Scheduler, opts.RepeatInterval),
		trackWidth: 100,
	}
	c.Reset(0, 86_400_000, false)
	return c
}

// Reset adopts a new extent, puts both handles at its ends, and returns to
// Idle. A degenerate extent is widened by 1 ms so start < end still holds.
func (c *Controller) Reset(min, max int64, populated bool) {
	c.repeater.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	if max <= min {
		max = min + 1
	}
	c.min, c.max = min, max
	c.start, c.end = min, max
	c.populated = populated
	c.state = Idle
	c.acceleration = 0
	c.direction = 0
	c.repeatGen++
}

// SetTrack sets the track geometry used to map pointer X to values.
func (c *Controller) SetTrack(left, width float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trackLeft, c.trackWidth = left, width
}

// ValueAt maps a pointer X coordinate to a timestamp.
func (c *Controller) ValueAt(x float64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valueAt(x)
}

func (c *Controller) valueAt(x float64) int64 {
	ratio := 0.0
	if c.trackWidth > 0 {
		ratio = clamp01((x - c.trackLeft) / c.trackWidth)
	}
	return c.min + int64(math.Round(ratio*float64(c.max-c.min)))
}

// Position maps a timestamp to a percentage along the track.
func (c *Controller) Position(v int64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position(v)
}

func (c *Controller) position(v int64) float64 {
	if c.max == c.min {
		return 0
	}
	return float64(v-c.min) / float64(c.max-c.min) * 100
}

// SetHandleValue moves one handle, clamping so that start < end always holds
// without the handles ever swapping. The sink sees an immediate change.
func (c *Controller) SetHandleValue(h Handle, v int64) models.Range {
	c.mu.Lock()
	c.setHandle(h, v)
	r := c.rangeLocked()
	c.mu.Unlock()

	c.emit(r, true)
	return r
}

func (c *Controller) setHandle(h Handle, v int64) {
	if h == Start {
		c.start = max(c.min, min(v, c.end-1))
		return
	}
	c.end = min(c.max, max(v, c.start+1))
}

// SetRange moves both handles; the result is clamped like SetHandleValue and
// emitted once as an immediate change.
func (c *Controller) SetRange(start, end int64) models.Range {
	c.mu.Lock()
	c.setHandle(End, c.max)
	c.setHandle(Start, start)
	c.setHandle(End, end)
	r := c.rangeLocked()
	c.mu.Unlock()

	c.emit(r, true)
	return r
}

// Range returns the current selection.
func (c *Controller) Range() models.Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rangeLocked()
}

func (c *Controller) rangeLocked() models.Range {
	return models.Range{Start: c.start, End: c.end}
}

// Extent returns the full [min, max] domain.
func (c *Controller) Extent() models.Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Range{Start: c.min, End: c.max}
}

// State returns the current interaction state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns everything a view needs to draw the control.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Min:          c.min,
		Max:          c.max,
		Start:        c.start,
		End:          c.end,
		Populated:    c.populated,
		State:        c.state,
		Handle:       c.handle,
		Direction:    c.direction,
		Acceleration: c.acceleration,
		StartPercent: c.position(c.start),
		EndPercent:   c.position(c.end),
	}
}

// Close stops any running key repeat.
func (c *Controller) Close() {
	c.repeater.Stop()
}

func (c *Controller) emit(r models.Range, immediate bool) {
	c.mu.Lock()
	sink := c.sink
	c.mu.Unlock()

	if sink != nil {
		sink(r, immediate)
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

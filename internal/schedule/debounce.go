// ABOUTME: Debouncer with at-most-one pending action
// ABOUTME: Each trigger replaces the pending action and restarts the quiet period

package schedule

import (
	"sync"
	"time"
)

// Debouncer delays an action until no new trigger has arrived for the
// configured quiet period.
type Debouncer struct {
	sched Scheduler
	delay time.Duration

	mu      sync.Mutex
	timer   Timer
	pending func()
	gen     uint64
}

// NewDebouncer creates a debouncer. A nil scheduler means System.
func NewDebouncer(sched Scheduler, delay time.Duration) *Debouncer {
	if sched == nil {
		sched = System
	}
	return &Debouncer{sched: sched, delay: delay}
}

// Trigger schedules f, cancelling any action that is still pending.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.pending = f
	d.timer = d.sched.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	f := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	f()
}

// Cancel drops the pending action. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	had := d.pending != nil
	d.stopLocked()
	return had
}

// Flush runs the pending action immediately, if any.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	f := d.pending
	d.stopLocked()
	d.mu.Unlock()

	if f == nil {
		return false
	}
	f()
	return true
}

// Pending reports whether an action is waiting for its quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// stopLocked must be called with mu held.
func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.gen++
}

// ABOUTME: Fixed-interval repeating task that can be started and cancelled
// ABOUTME: Starting a new loop cancels the previous one

package schedule

import (
	"sync"
	"time"
)

// Repeater runs an action every interval until stopped.
type Repeater struct {
	sched    Scheduler
	interval time.Duration

	mu    sync.Mutex
	timer Timer
	gen   uint64
	on    bool
}

// NewRepeater creates a repeater. A nil scheduler means System.
func NewRepeater(sched Scheduler, interval time.Duration) *Repeater {
	if sched == nil {
		sched = System
	}
	return &Repeater{sched: sched, interval: interval}
}

// Start begins calling f every interval, replacing any running loop. The
// first call happens one interval from now.
func (r *Repeater) Start(f func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.on = true
	r.armLocked(r.gen, f)
}

func (r *Repeater) armLocked(gen uint64, f func()) {
	r.timer = r.sched.AfterFunc(r.interval, func() {
		r.mu.Lock()
		if gen != r.gen || !r.on {
			r.mu.Unlock()
			return
		}
		r.armLocked(gen, f)
		r.mu.Unlock()

		f()
	})
}

// Stop cancels the loop. It reports whether a loop was running.
func (r *Repeater) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	was := r.on
	r.stopLocked()
	return was
}

// Running reports whether a loop is active.
func (r *Repeater) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.on
}

// stopLocked must be called with mu held.
func (r *Repeater) stopLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.on = false
	r.gen++
}

// ABOUTME: Cancellable scheduled actions for debouncing and key repeat
// ABOUTME: Abstracts timers so tests and headless callers can drive a virtual clock

package schedule

import "time"

// Timer is a pending scheduled call.
type Timer interface {
	// Stop prevents the call from running. It reports whether the call was
	// still pending.
	Stop() bool
}

// Scheduler runs functions after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// System schedules on the wall clock via time.AfterFunc.
var System Scheduler = systemScheduler{}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

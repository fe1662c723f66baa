// ABOUTME: Pointer and keyboard gestures for the range controller
// ABOUTME: Drag, click-to-nearest-handle, and accelerating key repeat

package timerange

import (
	"math"
)

// PointerDown starts dragging h. It is a no-op on an empty dataset.
func (c *Controller) PointerDown(h Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.populated {
		return false
	}
	if c.state == KeyRepeating {
		c.stopRepeatLocked()
	}
	c.state = Dragging
	c.handle = h
	return true
}

// PointerMove moves the dragged handle to the value under x.
func (c *Controller) PointerMove(x float64) {
	c.mu.Lock()
	if c.state != Dragging {
		c.mu.Unlock()
		return
	}
	before := c.rangeLocked()
	c.setHandle(c.handle, c.valueAt(x))
	after := c.rangeLocked()
	c.mu.Unlock()

	if after != before {
		c.emit(after, false)
	}
}

// PointerUp ends a drag and requests an immediate recompute.
func (c *Controller) PointerUp() {
	c.endDrag()
}

// PointerCancel ends a drag the same way as PointerUp.
func (c *Controller) PointerCancel() {
	c.endDrag()
}

func (c *Controller) endDrag() {
	c.mu.Lock()
	if c.state != Dragging {
		c.mu.Unlock()
		return
	}
	c.state = Idle
	r := c.rangeLocked()
	c.mu.Unlock()

	c.emit(r, true)
}

// TrackClick moves whichever handle is numerically closer to the value under
// x. Ties go to the end handle. Ignored while dragging or when empty.
func (c *Controller) TrackClick(x float64) {
	c.mu.Lock()
	if c.state == Dragging || !c.populated {
		c.mu.Unlock()
		return
	}
	v := c.valueAt(x)
	h := End
	if abs(v-c.start) < abs(v-c.end) {
		h = Start
	}
	c.setHandle(h, v)
	r := c.rangeLocked()
	c.mu.Unlock()

	c.emit(r, true)
}

// KeyDown steps h once in dir and starts the accelerating repeat. Repeated
// key-downs for the handle and direction already repeating are ignored, which
// absorbs terminal and OS auto-repeat.
func (c *Controller) KeyDown(h Handle, dir Direction) {
	c.mu.Lock()
	if !c.populated || c.state == Dragging {
		c.mu.Unlock()
		return
	}
	if c.state == KeyRepeating && c.handle == h && c.direction == dir {
		c.mu.Unlock()
		return
	}

	c.stopRepeatLocked()
	c.state = KeyRepeating
	c.handle = h
	c.direction = dir
	c.acceleration = 0
	gen := c.repeatGen
	c.stepLocked()
	r := c.rangeLocked()
	c.repeater.Start(func() { c.repeatTick(gen) })
	c.mu.Unlock()

	c.emit(r, false)
}

func (c *Controller) repeatTick(gen uint64) {
	c.mu.Lock()
	if c.state != KeyRepeating || gen != c.repeatGen {
		c.mu.Unlock()
		return
	}
	c.acceleration++
	c.stepLocked()
	r := c.rangeLocked()
	c.mu.Unlock()

	c.emit(r, false)
}

// KeyUp cancels any key repeat, resets acceleration, and requests an
// immediate recompute.
func (c *Controller) KeyUp() {
	c.mu.Lock()
	c.stopRepeatLocked()
	populated := c.populated
	r := c.rangeLocked()
	c.mu.Unlock()

	if populated {
		c.emit(r, true)
	}
}

// stopRepeatLocked must be called with mu held.
func (c *Controller) stopRepeatLocked() {
	c.repeater.Stop()
	c.repeatGen++
	c.acceleration = 0
	c.direction = 0
	if c.state == KeyRepeating {
		c.state = Idle
	}
}

// stepLocked must be called with mu held.
func (c *Controller) stepLocked() {
	current := c.end
	if c.handle == Start {
		current = c.start
	}
	c.setHandle(c.handle, current+StepSize(c.acceleration)*int64(c.direction))
}

// StepSize returns the unsigned keyboard step after acceleration ticks.
func StepSize(acceleration int) int64 {
	mult := math.Min(1+float64(acceleration)*AccelerationFactor, MaxStepMultiplier)
	return int64(math.Round(float64(BaseStep) * mult))
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// ABOUTME: Handle, direction, and interaction state types
// ABOUTME: Snapshot of controller state for rendering and labels

package timerange

// Handle identifies one end of the range.
type Handle int

const (
	Start Handle = iota
	End
)

func (h Handle) String() string {
	if h == Start {
		return "start"
	}
	return "end"
}

// Direction is the sign of a keyboard step.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// State is the interaction state of the controller.
type State int

const (
	Idle State = iota
	Dragging
	KeyRepeating
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case KeyRepeating:
		return "key-repeating"
	default:
		return "idle"
	}
}

// Snapshot is a consistent copy of the controller's state.
type Snapshot struct {
	Min          int64
	Max          int64
	Start        int64
	End          int64
	Populated    bool
	State        State
	Handle       Handle
	Direction    Direction
	Acceleration int
	StartPercent float64
	EndPercent   float64
}

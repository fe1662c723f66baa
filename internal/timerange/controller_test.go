// ABOUTME: Tests for the dual-handle range controller
// ABOUTME: Drives drag, click, and key repeat against a virtual clock

package timerange

import (
	"math/rand"
	"testing"
	"time"

	"github.com/harper/footprints/internal/models"
	"github.com/harper/footprints/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emission struct {
	r         models.Range
	immediate bool
}

type recorder struct {
	got []emission
}

func (r *recorder) sink(rg models.Range, immediate bool) {
	r.got = append(r.got, emission{rg, immediate})
}

func (r *recorder) last() emission {
	return r.got[len(r.got)-1]
}

func newController(t *testing.T, min, max int64) (*Controller, *schedule.Manual, *recorder) {
	t.Helper()
	clock := schedule.NewManual()
	rec := &recorder{}
	c := New(Options{Scheduler: clock, Sink: rec.sink})
	c.Reset(min, max, true)
	c.SetTrack(0, 1000)
	t.Cleanup(c.Close)
	return c, clock, rec
}

func TestController_Defaults(t *testing.T) {
	c := New(Options{})
	defer c.Close()

	snap := c.Snapshot()
	assert.Equal(t, int64(0), snap.Min)
	assert.Equal(t, int64(86_400_000), snap.Max)
	assert.Equal(t, models.Range{Start: 0, End: 86_400_000}, c.Range())
	assert.False(t, snap.Populated)
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, 0.0, snap.StartPercent)
	assert.Equal(t, 100.0, snap.EndPercent)
}

func TestController_DegenerateExtentIsWidened(t *testing.T) {
	c, _, _ := newController(t, 5000, 5000)

	assert.Equal(t, models.Range{Start: 5000, End: 5001}, c.Extent())
	r := c.Range()
	assert.Less(t, r.Start, r.End)
}

func TestController_SetHandleValueClamps(t *testing.T) {
	c, _, _ := newController(t, 0, 1000)

	assert.Equal(t, models.Range{Start: 999, End: 1000}, c.SetHandleValue(Start, 5000))
	assert.Equal(t, models.Range{Start: 999, End: 1000}, c.SetHandleValue(End, 10))

	c.Reset(0, 1000, true)
	assert.Equal(t, models.Range{Start: 0, End: 1000}, c.SetHandleValue(Start, -50))
	assert.Equal(t, models.Range{Start: 0, End: 1}, c.SetHandleValue(End, -50))
	assert.Equal(t, models.Range{Start: 0, End: 1000}, c.SetHandleValue(End, 2000))
}

func TestController_SetRange(t *testing.T) {
	c, _, _ := newController(t, 0, 1000)

	assert.Equal(t, models.Range{Start: 200, End: 800}, c.SetRange(200, 800))
	assert.Equal(t, models.Range{Start: 900, End: 950}, c.SetRange(900, 950))
	assert.Equal(t, models.Range{Start: 100, End: 200}, c.SetRange(100, 200))
	assert.Equal(t, models.Range{Start: 500, End: 501}, c.SetRange(500, 300))
}

func TestController_ProgrammaticMovesEmitImmediately(t *testing.T) {
	c, _, rec := newController(t, 0, 1000)

	c.SetHandleValue(Start, 250)
	require.Len(t, rec.got, 1)
	assert.Equal(t, emission{models.Range{Start: 250, End: 1000}, true}, rec.last())

	c.SetRange(100, 300)
	require.Len(t, rec.got, 2)
	assert.Equal(t, emission{models.Range{Start: 100, End: 300}, true}, rec.last())

	c.SetHandleValue(End, 50)
	assert.Equal(t, emission{models.Range{Start: 100, End: 101}, true}, rec.last())
}

func TestController_ValueAtAndPosition(t *testing.T) {
	c, _, _ := newController(t, 1000, 2000)
	c.SetTrack(50, 200)

	assert.Equal(t, int64(1000), c.ValueAt(0))
	assert.Equal(t, int64(1000), c.ValueAt(50))
	assert.Equal(t, int64(1500), c.ValueAt(150))
	assert.Equal(t, int64(2000), c.ValueAt(250))
	assert.Equal(t, int64(2000), c.ValueAt(900))

	assert.Equal(t, 0.0, c.Position(1000))
	assert.Equal(t, 50.0, c.Position(1500))
	assert.Equal(t, 100.0, c.Position(2000))
}

func TestController_Drag(t *testing.T) {
	c, _, rec := newController(t, 0, 1000)

	require.True(t, c.PointerDown(Start))
	assert.Equal(t, Dragging, c.State())

	c.PointerMove(300)
	c.PointerMove(300)
	c.PointerMove(400)
	require.Len(t, rec.got, 2)
	assert.Equal(t, emission{models.Range{Start: 300, End: 1000}, false}, rec.got[0])
	assert.Equal(t, emission{models.Range{Start: 400, End: 1000}, false}, rec.got[1])

	c.PointerUp()
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, emission{models.Range{Start: 400, End: 1000}, true}, rec.last())
}

func TestController_DragPastOtherHandleDoesNotSwap(t *testing.T) {
	c, _, _ := newController(t, 0, 1000)
	c.SetRange(200, 600)

	c.PointerDown(Start)
	c.PointerMove(900)
	c.PointerCancel()
	assert.Equal(t, models.Range{Start: 599, End: 600}, c.Range())

	c.PointerDown(End)
	c.PointerMove(0)
	c.PointerUp()
	assert.Equal(t, models.Range{Start: 599, End: 600}, c.Range())
}

func TestController_PointerIgnoredWhenEmpty(t *testing.T) {
	clock := schedule.NewManual()
	rec := &recorder{}
	c := New(Options{Scheduler: clock, Sink: rec.sink})
	defer c.Close()

	assert.False(t, c.PointerDown(Start))
	c.PointerMove(10)
	c.PointerUp()
	c.TrackClick(50)
	c.KeyDown(End, Backward)
	clock.Advance(time.Second)
	c.KeyUp()

	assert.Empty(t, rec.got)
	assert.Equal(t, models.Range{Start: 0, End: 86_400_000}, c.Range())
}

func TestController_MoveWithoutDragIsIgnored(t *testing.T) {
	c, _, rec := newController(t, 0, 1000)
	c.PointerMove(500)
	c.PointerUp()
	assert.Empty(t, rec.got)
}

func TestController_TrackClickPicksNearestHandle(t *testing.T) {
	c, _, rec := newController(t, 0, 1000)
	c.SetRange(200, 600)

	c.TrackClick(100)
	assert.Equal(t, models.Range{Start: 100, End: 600}, c.Range())
	assert.True(t, rec.last().immediate)

	c.TrackClick(700)
	assert.Equal(t, models.Range{Start: 100, End: 700}, c.Range())

	// Equidistant clicks move the end handle.
	c.TrackClick(400)
	assert.Equal(t, models.Range{Start: 100, End: 400}, c.Range())
}

func TestController_TrackClickIgnoredWhileDragging(t *testing.T) {
	c, _, _ := newController(t, 0, 1000)
	c.PointerDown(End)
	c.TrackClick(100)
	assert.Equal(t, models.Range{Start: 0, End: 1000}, c.Range())
}

func TestStepSize(t *testing.T) {
	assert.Equal(t, int64(3_600_000), StepSize(0))
	assert.Equal(t, int64(4_140_000), StepSize(1))
	assert.Equal(t, int64(6_840_000), StepSize(6))
	assert.Equal(t, int64(28_800_000), StepSize(47))
	assert.Equal(t, int64(28_800_000), StepSize(500))
}

func TestController_KeyRepeatAccelerates(t *testing.T) {
	const hour = int64(3_600_000)
	c, clock, rec := newController(t, 0, 1000*hour)
	c.SetRange(0, 1000*hour)

	c.KeyDown(End, Backward)
	assert.Equal(t, KeyRepeating, c.State())
	assert.Equal(t, 999*hour, c.Range().End)
	assert.False(t, rec.last().immediate)

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 999*hour-StepSize(1), c.Range().End)
	assert.Equal(t, 1, c.Snapshot().Acceleration)

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 999*hour-StepSize(1)-StepSize(2), c.Range().End)

	c.KeyUp()
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 0, c.Snapshot().Acceleration)
	assert.True(t, rec.last().immediate)

	end := c.Range().End
	clock.Advance(time.Second)
	assert.Equal(t, end, c.Range().End)
}

func TestController_KeyRepeatCapsAtMaxMultiplier(t *testing.T) {
	const hour = int64(3_600_000)
	c, clock, _ := newController(t, 0, 100_000*hour)

	c.KeyDown(Start, Forward)
	for i := 0; i < 60; i++ {
		clock.Advance(100 * time.Millisecond)
	}
	before := c.Range().Start
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 8*hour, c.Range().Start-before)
}

func TestController_RepeatedKeyDownSameDirectionIsNoop(t *testing.T) {
	const hour = int64(3_600_000)
	c, clock, _ := newController(t, 0, 100*hour)

	c.KeyDown(Start, Forward)
	clock.Advance(100 * time.Millisecond)
	c.KeyDown(Start, Forward)
	c.KeyDown(Start, Forward)

	assert.Equal(t, hour+StepSize(1), c.Range().Start)
	assert.Equal(t, 1, c.Snapshot().Acceleration)
}

func TestController_DirectionChangeRestartsRepeat(t *testing.T) {
	const hour = int64(3_600_000)
	c, clock, _ := newController(t, 0, 100*hour)
	c.SetRange(50*hour, 100*hour)

	c.KeyDown(Start, Forward)
	clock.Advance(200 * time.Millisecond)
	c.KeyDown(Start, Backward)

	assert.Equal(t, 0, c.Snapshot().Acceleration)
	assert.Equal(t, Backward, c.Snapshot().Direction)
	assert.Equal(t, 50*hour+StepSize(1)+StepSize(2), c.Range().Start)
}

func TestController_KeyStepStopsAtBounds(t *testing.T) {
	const hour = int64(3_600_000)
	c, clock, _ := newController(t, 0, 10*hour)

	c.KeyDown(End, Forward)
	clock.Advance(time.Second)
	assert.Equal(t, 10*hour, c.Range().End)
	c.KeyUp()

	c.KeyDown(Start, Forward)
	clock.Advance(5 * time.Second)
	assert.Equal(t, models.Range{Start: 10*hour - 1, End: 10 * hour}, c.Range())
}

func TestController_PointerDownCancelsKeyRepeat(t *testing.T) {
	const hour = int64(3_600_000)
	c, clock, _ := newController(t, 0, 100*hour)

	c.KeyDown(Start, Forward)
	require.True(t, c.PointerDown(End))
	start := c.Range().Start

	clock.Advance(time.Second)
	assert.Equal(t, start, c.Range().Start)
	assert.Equal(t, Dragging, c.State())

	c.KeyDown(Start, Forward)
	assert.Equal(t, start, c.Range().Start)
}

func TestController_ResetStopsRepeat(t *testing.T) {
	c, clock, _ := newController(t, 0, 1_000_000_000)

	c.KeyDown(End, Backward)
	c.Reset(10, 20, true)
	clock.Advance(time.Second)

	assert.Equal(t, models.Range{Start: 10, End: 20}, c.Range())
	assert.Equal(t, Idle, c.State())
}

func TestController_StartAlwaysBeforeEnd(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	c, clock, _ := newController(t, 0, 50_000_000)

	for i := 0; i < 2000; i++ {
		switch rng.Intn(8) {
		case 0:
			c.PointerDown(Handle(rng.Intn(2)))
		case 1:
			c.PointerMove(rng.Float64()*1200 - 100)
		case 2:
			c.PointerUp()
		case 3:
			c.TrackClick(rng.Float64() * 1000)
		case 4:
			dir := Forward
			if rng.Intn(2) == 0 {
				dir = Backward
			}
			c.KeyDown(Handle(rng.Intn(2)), dir)
		case 5:
			c.KeyUp()
		case 6:
			clock.Advance(time.Duration(rng.Intn(500)) * time.Millisecond)
		case 7:
			c.SetHandleValue(Handle(rng.Intn(2)), rng.Int63n(60_000_000)-5_000_000)
		}

		r := c.Range()
		ext := c.Extent()
		require.Less(t, r.Start, r.End, "step %d", i)
		require.GreaterOrEqual(t, r.Start, ext.Start, "step %d", i)
		require.LessOrEqual(t, r.End, ext.End, "step %d", i)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "key-repeating", KeyRepeating.String())
	assert.Equal(t, "start", Start.String())
	assert.Equal(t, "end", End.String())
}

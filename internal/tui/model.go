// ABOUTME: Interactive terminal browser driving the range controller
// ABOUTME: Maps keys and mouse events to handle gestures and shows the filtered view

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harper/footprints/internal/ingest"
	"github.com/harper/footprints/internal/schedule"
	"github.com/harper/footprints/internal/timerange"
	"github.com/harper/footprints/internal/viewer"
)

// DefaultReleaseAfter is how long after the last key event a held key is
// considered released. Terminals report no key-up, but auto-repeat keeps
// arriving faster than this while a key is held.
const DefaultReleaseAfter = 90 * time.Millisecond

// trackMargin is the column where the track starts.
const trackMargin = 2

// trackRow is the screen row of the track.
const trackRow = 3

// Options configures the browser.
type Options struct {
	Sources      []ingest.Source
	Scheduler    schedule.Scheduler
	ReleaseAfter time.Duration
}

type (
	renderMsg   struct{}
	progressMsg float64
	loadedMsg   struct {
		report *ingest.Report
		err    error
	}
)

// Model is the bubbletea model of the browser.
type Model struct {
	session *viewer.Session
	ctrl    *timerange.Controller
	sources []ingest.Source
	events  chan tea.Msg
	release *schedule.Debouncer

	width, height int
	focus         timerange.Handle
	pressed       bool
	loading       bool
	progress      float64
	report        *ingest.Report
	err           error
}

// New creates a browser over session. Renders from the session are
// forwarded into the program as messages.
func New(session *viewer.Session, opts Options) *Model {
	if opts.ReleaseAfter <= 0 {
		opts.ReleaseAfter = DefaultReleaseAfter
	}
	m := &Model{
		session: session,
		ctrl:    session.Controller(),
		sources: opts.Sources,
		events:  make(chan tea.Msg, 64),
		release: schedule.NewDebouncer(opts.Scheduler, opts.ReleaseAfter),
		width:   80,
		height:  24,
		focus:   timerange.Start,
		loading: len(opts.Sources) > 0,
	}
	session.SetOnRender(func(viewer.View) { m.send(renderMsg{}) })
	m.resizeTrack()
	return m
}

// send delivers msg without blocking; renders are coalesced by the view
// reading the session's latest state.
func (m *Model) send(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

// Init starts loading the sources, if any, and listening for renders.
func (m *Model) Init() tea.Cmd {
	if len(m.sources) == 0 {
		return m.waitForEvent()
	}
	return tea.Batch(m.waitForEvent(), m.load())
}

func (m *Model) load() tea.Cmd {
	sources := m.sources
	return func() tea.Msg {
		report, err := m.session.Load(context.Background(), sources, func(f float64) {
			m.send(progressMsg(f))
		})
		return loadedMsg{report: report, err: err}
	}
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeTrack()
		return m, nil

	case renderMsg:
		return m, m.waitForEvent()

	case progressMsg:
		m.progress = float64(msg)
		return m, m.waitForEvent()

	case loadedMsg:
		m.loading = false
		m.progress = 1
		m.report = msg.report
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.release.Cancel()
		m.session.Close()
		return m, tea.Quit
	case "tab", "shift+tab":
		m.releaseKey()
		if m.focus == timerange.Start {
			m.focus = timerange.End
		} else {
			m.focus = timerange.Start
		}
	case "left", "h":
		m.pressKey(timerange.Backward)
	case "right", "l":
		m.pressKey(timerange.Forward)
	case "r":
		m.releaseKey()
		ext := m.ctrl.Extent()
		m.session.SetRange(ext.Start, ext.End)
	}
	return m, nil
}

// pressKey forwards a key event and re-arms release detection.
func (m *Model) pressKey(dir timerange.Direction) {
	m.ctrl.KeyDown(m.focus, dir)
	m.release.Trigger(m.ctrl.KeyUp)
}

func (m *Model) releaseKey() {
	if m.release.Cancel() {
		m.ctrl.KeyUp()
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x := float64(msg.X)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y != trackRow {
			return
		}
		m.releaseKey()
		if h, ok := m.handleAt(msg.X); ok {
			m.focus = h
			m.pressed = m.ctrl.PointerDown(h)
			return
		}
		m.ctrl.TrackClick(x)

	case tea.MouseActionMotion:
		if m.pressed {
			m.ctrl.PointerMove(x)
		}

	case tea.MouseActionRelease:
		if m.pressed {
			m.pressed = false
			m.ctrl.PointerMove(x)
			m.ctrl.PointerUp()
		}
	}
}

// handleAt returns the handle drawn at column x, preferring the focused one
// when both overlap.
func (m *Model) handleAt(x int) (timerange.Handle, bool) {
	snap := m.ctrl.Snapshot()
	startCol := m.column(snap.StartPercent)
	endCol := m.column(snap.EndPercent)

	near := func(col int) bool { return x >= col-1 && x <= col+1 }
	switch {
	case near(startCol) && near(endCol):
		return m.focus, true
	case near(startCol):
		return timerange.Start, true
	case near(endCol):
		return timerange.End, true
	}
	return 0, false
}

func (m *Model) trackWidth() int {
	return max(m.width-2*trackMargin, 10)
}

// column maps a percentage along the track to a screen column.
func (m *Model) column(pct float64) int {
	w := m.trackWidth()
	col := trackMargin + int(pct/100*float64(w-1)+0.5)
	return min(max(col, trackMargin), trackMargin+w-1)
}

func (m *Model) resizeTrack() {
	m.ctrl.SetTrack(trackMargin, float64(m.trackWidth()-1))
}

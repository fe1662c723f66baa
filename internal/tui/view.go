// ABOUTME: Rendering of the browser screen with lipgloss
// ABOUTME: Extent labels, the dual-handle track, filter message, and view window

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harper/footprints/internal/timerange"
	"github.com/harper/footprints/internal/ui"
	"github.com/harper/footprints/internal/viewer"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	fillStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	handleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	focusedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// View renders the screen. The track is always on trackRow.
func (m *Model) View() string {
	v := m.session.View()
	snap := m.ctrl.Snapshot()
	pad := strings.Repeat(" ", trackMargin)

	lines := []string{
		titleStyle.Render("footprints") + " " + faintStyle.Render(m.stateLine(snap)),
		"",
		pad + m.extentLine(v),
		m.trackLine(snap),
		pad + m.handleLabels(snap),
		"",
		pad + m.messageLine(v),
		pad + m.windowLine(v),
		"",
	}
	if m.err != nil {
		lines = append(lines, pad+errorStyle.Render(m.err.Error()))
	}
	if m.report != nil {
		for _, f := range m.report.Failed() {
			lines = append(lines, pad+errorStyle.Render(f.Err.Error()))
		}
	}
	lines = append(lines, faintStyle.Render(pad+"←/→ move handle • tab switch handle • drag or click the track • r reset • q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) stateLine(snap timerange.Snapshot) string {
	if m.loading {
		return fmt.Sprintf("loading %3.0f%%", m.progress*100)
	}
	if snap.State == timerange.KeyRepeating {
		return fmt.Sprintf("%s ×%d", snap.State, snap.Acceleration)
	}
	return snap.State.String()
}

func (m *Model) extentLine(v viewer.View) string {
	w := m.trackWidth()
	lo, hi := v.Labels.ExtentStart, v.Labels.ExtentEnd
	gap := max(w-lipgloss.Width(lo)-lipgloss.Width(hi), 1)
	return lo + strings.Repeat(" ", gap) + hi
}

func (m *Model) trackLine(snap timerange.Snapshot) string {
	w := m.trackWidth()
	startCol := m.column(snap.StartPercent) - trackMargin
	endCol := m.column(snap.EndPercent) - trackMargin

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", trackMargin))
	for i := 0; i < w; i++ {
		switch {
		case i == startCol:
			b.WriteString(m.handleGlyph(timerange.Start, "◆"))
		case i == endCol:
			b.WriteString(m.handleGlyph(timerange.End, "◆"))
		case i > startCol && i < endCol:
			b.WriteString(fillStyle.Render("━"))
		default:
			b.WriteString(faintStyle.Render("─"))
		}
	}
	return b.String()
}

func (m *Model) handleGlyph(h timerange.Handle, glyph string) string {
	if h == m.focus {
		return focusedStyle.Render(glyph)
	}
	return handleStyle.Render(glyph)
}

func (m *Model) handleLabels(snap timerange.Snapshot) string {
	if !snap.Populated {
		return ""
	}
	loc := m.session.Location()
	start := ui.FormatDateTime(snap.Start, loc)
	end := ui.FormatDateTime(snap.End, loc)
	if m.focus == timerange.Start {
		start = focusedStyle.Render(start)
	} else {
		end = focusedStyle.Render(end)
	}
	return start + faintStyle.Render(" → ") + end
}

func (m *Model) messageLine(v viewer.View) string {
	if v.Labels.Message == "" {
		if m.loading {
			return faintStyle.Render("loading…")
		}
		return faintStyle.Render("no points loaded")
	}
	return v.Labels.Message
}

func (m *Model) windowLine(v viewer.View) string {
	if v.Window == nil {
		return ""
	}
	w := v.Window
	return faintStyle.Render(fmt.Sprintf("center %.4f, %.4f • span %s",
		w.Center.Lat, w.Center.Lng, ui.FormatDistance(w.SpanMeters)))
}

// ABOUTME: Entry point running the browser as a full-screen program
// ABOUTME: Enables mouse cell motion so handles can be dragged

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harper/footprints/internal/viewer"
)

// Run starts the browser and blocks until the user quits.
func Run(session *viewer.Session, opts Options) error {
	m := New(session, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

// ABOUTME: Browse command for the interactive terminal viewer
// ABOUTME: Loads files in the background while the range control is already live

package main

import (
	"github.com/harper/footprints/internal/ingest"
	"github.com/harper/footprints/internal/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:     "browse <file>...",
	Aliases: []string{"b"},
	Short:   "Browse history interactively",
	Long: `Open an interactive viewer over location history files.

Drag either handle of the time range with the mouse or click the track to
move the nearest one. Left/right (or h/l) step the focused handle; holding
the key accelerates. Tab switches handles, r resets, q quits.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}
		defer session.Close()

		return tui.Run(session, tui.Options{
			Sources: ingest.FileSources(args),
		})
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

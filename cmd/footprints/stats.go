// ABOUTME: Stats command for summarizing location history files
// ABOUTME: Loads files and prints per-file results, extent, point count, and view window

package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/harper/footprints/internal/ui"
	"github.com/harper/footprints/internal/viewer"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:     "stats <file>...",
	Aliases: []string{"s"},
	Short:   "Summarize location history files",
	Long: `Load one or more location history files and summarize them.

Files may be standard or delta-compressed JSON, optionally gzipped.
A file that fails to load is reported and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}
		defer session.Close()

		out := cmd.OutOrStdout()
		if _, err := loadFiles(cmd.Context(), out, session, args); err != nil {
			return err
		}
		printView(out, session.View())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// printView writes the extent, filter message, and view window of v.
func printView(w io.Writer, v viewer.View) {
	faint := color.New(color.Faint)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s - %s\n", faint.Sprint("extent:"), v.Labels.ExtentStart, v.Labels.ExtentEnd)
	fmt.Fprintf(w, "%s %s\n", faint.Sprint("points:"), humanize.Comma(int64(v.Size)))
	if v.Labels.Message != "" {
		fmt.Fprintln(w, v.Labels.Message)
	}
	fmt.Fprintln(w, ui.FormatViewWindow(v.Window))
}

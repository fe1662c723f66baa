// ABOUTME: Filter command for narrowing history to a time range
// ABOUTME: Applies --from/--to and prints the matching count and view window

package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	filterFrom string
	filterTo   string
)

var filterCmd = &cobra.Command{
	Use:     "filter <file>... [--from <time>] [--to <time>]",
	Aliases: []string{"f"},
	Short:   "Filter history to a time range",
	Long: `Load location history files and report the points inside a time range.

Bounds accept epoch milliseconds, YYYY-MM-DD, RFC3339, or a duration
before now (24h, 7d, 2w, 3m). A missing bound keeps the end of the data.

Examples:
  footprints filter Records.json --from 2023-06-01 --to 2023-06-30
  footprints filter Records.json --from 7d`,
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
		view, err := applyRange(session, filterFrom, filterTo, time.Now())
		if err != nil {
			return err
		}
		printView(out, view)
		return nil
	},
}

func init() {
	filterCmd.Flags().StringVar(&filterFrom, "from", "", "start of the range")
	filterCmd.Flags().StringVar(&filterTo, "to", "", "end of the range")
	rootCmd.AddCommand(filterCmd)
}

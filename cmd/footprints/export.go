// ABOUTME: Export command for GeoJSON, YAML snapshot, and delta JSON output
// ABOUTME: Loads files, applies an optional time range, and writes the filtered points

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harper/footprints/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export <file>...",
	Aliases: []string{"e"},
	Short:   "Export filtered points in various formats",
	Long: `Export the points inside a time range as GeoJSON, a YAML snapshot,
a markdown table, or delta-compressed JSON that footprints can load back.

Examples:
  # Everything as GeoJSON on stdout
  footprints export Records.json --format geojson

  # One month as a track
  footprints export Records.json --from 2023-06-01 --to 2023-06-30 --geometry line

  # The last week, re-encoded compactly
  footprints export Records.json --from 7d --format delta -o week.json

  # Summary of the view
  footprints export Records.json --format yaml

  # Table of one day
  footprints export Records.json --from 2023-06-01 --to 2023-06-02 --format markdown`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}
		geometryName, _ := cmd.Flags().GetString("geometry")
		geometry, err := export.ParseGeometry(geometryName)
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		output, _ := cmd.Flags().GetString("output")

		session, err := newSession()
		if err != nil {
			return err
		}
		defer session.Close()

		// Keep stdout clean for the export itself.
		if _, err := loadFiles(cmd.Context(), cmd.ErrOrStderr(), session, args); err != nil {
			return err
		}
		view, err := applyRange(session, from, to, time.Now())
		if err != nil {
			return err
		}

		in := export.Input{
			Sources:  args,
			Extent:   view.Extent,
			Filter:   view.Range,
			Total:    view.Size,
			Records:  session.Store().Records(view.Range),
			Window:   view.Window,
			Message:  view.Labels.Message,
			Location: session.Location(),
			Geometry: geometry,
		}

		var w io.Writer = cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output) // #nosec G304 - user-provided output path
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}

		if err := export.Write(w, format, in); err != nil {
			return err
		}

		if output != "" {
			color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "✓ Exported %d points to %s\n", len(in.Records), output)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "geojson", "output format: geojson, yaml, delta, or markdown")
	exportCmd.Flags().String("geometry", "multipoint", "GeoJSON geometry: multipoint, points, or line")
	exportCmd.Flags().String("from", "", "start of the range")
	exportCmd.Flags().String("to", "", "end of the range")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

// ABOUTME: Tests for CLI commands
// ABOUTME: Tests stats, filter, export, config, and flag parsing end to end in-process

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/harper/footprints/internal/decoder"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const historyA = `{"locations": [
	{"latitudeE7": 419000000, "longitudeE7": -876000000, "timestamp": "2023-06-01T10:00:00Z"},
	{"latitudeE7": 419100000, "longitudeE7": -876100000, "timestamp": "2023-06-01T11:00:00Z"},
	{"latitudeE7": 419200000, "longitudeE7": -876200000, "timestamp": "2023-06-01T12:00:00Z"}
]}`

const historyB = `{"locations": [
	{"latitudeE7": 419300000, "longitudeE7": -876300000, "timestamp": "2023-06-01T13:00:00Z"}
]}`

func init() {
	color.NoColor = true
}

// writeFile writes content into the test's temp dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// resetFlags restores every flag in the tree to its default between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command with args and returns combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// Tests for rootCmd

func TestRootCmd_Metadata(t *testing.T) {
	if rootCmd.Use != "footprints" {
		t.Errorf("expected Use 'footprints', got %q", rootCmd.Use)
	}
	if rootCmd.Short != "Explore exported location history" {
		t.Errorf("unexpected Short: %q", rootCmd.Short)
	}
	if !strings.Contains(rootCmd.Long, "see where you have been") {
		t.Error("expected description in Long")
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "log-level", "tz"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag --%s", name)
		}
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	want := []string{"stats", "filter", "export", "browse", "mcp", "config", "install-skill"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q", name)
		}
	}
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)

	_, err := run(t, "--log-level", "loud", "stats", a)
	if err == nil {
		t.Fatal("expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRootCmd_InvalidTimezone(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)

	if _, err := run(t, "--tz", "Mars/Olympus", "stats", a); err == nil {
		t.Fatal("expected error for unknown time zone")
	}
}

// Tests for statsCmd

func TestStatsCmd_Metadata(t *testing.T) {
	if statsCmd.Use != "stats <file>..." {
		t.Errorf("unexpected Use: %q", statsCmd.Use)
	}
	if !contains(statsCmd.Aliases, "s") {
		t.Error("expected alias 's'")
	}
}

func TestStatsCmd_RequiresFiles(t *testing.T) {
	if _, err := run(t, "stats"); err == nil {
		t.Error("expected error without files")
	}
}

func TestStatsCmd_TwoFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)
	b := writeFile(t, dir, "b.json", historyB)

	output, err := run(t, "stats", a, b)
	if err != nil {
		t.Fatalf("stats failed: %v\n%s", err, output)
	}

	for _, want := range []string{
		"loaded 4 points from 2/2 files",
		"2023-06-01 10:00 - 2023-06-01 13:00",
		"4 / 4 points • Filter: 2023-06-01 10:00 - 2023-06-01 13:00",
		"center:",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestStatsCmd_TimezoneFlag(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)

	output, err := run(t, "--tz", "America/Chicago", "stats", a)
	if err != nil {
		t.Fatalf("stats failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "2023-06-01 05:00 - 2023-06-01 07:00") {
		t.Errorf("expected Chicago labels in output:\n%s", output)
	}
}

func TestStatsCmd_FailedFileIsReported(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)
	bad := writeFile(t, dir, "bad.json", `{"nope": true}`)

	output, err := run(t, "stats", a, bad)
	if err != nil {
		t.Fatalf("one good file should succeed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "✗ "+bad) {
		t.Errorf("expected failed file in output:\n%s", output)
	}
	if !strings.Contains(output, "from 1/2 files") {
		t.Errorf("expected partial totals in output:\n%s", output)
	}
}

func TestStatsCmd_AllFailed(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.json")

	_, err := run(t, "stats", missing)
	if err == nil {
		t.Fatal("expected error when every file fails")
	}
	if !strings.Contains(err.Error(), "no file could be loaded") {
		t.Errorf("unexpected error: %v", err)
	}
}

// Tests for filterCmd

func TestFilterCmd_Flags(t *testing.T) {
	for _, name := range []string{"from", "to"} {
		if filterCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag", name)
		}
	}
}

func TestFilterCmd_Range(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)
	b := writeFile(t, dir, "b.json", historyB)

	output, err := run(t, "filter", a, b, "--from", "2023-06-01T10:30:00Z", "--to", "2023-06-01T12:30:00Z")
	if err != nil {
		t.Fatalf("filter failed: %v\n%s", err, output)
	}
	want := "2 / 4 points • Filter: 2023-06-01 10:30 - 2023-06-01 12:30"
	if !strings.Contains(output, want) {
		t.Errorf("expected %q in output:\n%s", want, output)
	}
}

func TestFilterCmd_ClampsToExtent(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)

	output, err := run(t, "filter", a, "--from", "2020-01-01", "--to", "2030-01-01")
	if err != nil {
		t.Fatalf("filter failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "3 / 3 points • Filter: 2023-06-01 10:00 - 2023-06-01 12:00") {
		t.Errorf("expected clamped range in output:\n%s", output)
	}
}

func TestFilterCmd_FromAfterTo(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)

	if _, err := run(t, "filter", a, "--from", "2023-06-02", "--to", "2023-06-01"); err == nil {
		t.Error("expected error when --from is after --to")
	}
}

func TestFilterCmd_InvalidBound(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)

	_, err := run(t, "filter", a, "--from", "yesterday-ish")
	if err == nil || !strings.Contains(err.Error(), "--from") {
		t.Errorf("expected --from error, got %v", err)
	}
}

// Tests for exportCmd

func TestExportCmd_Flags(t *testing.T) {
	format := exportCmd.Flags().Lookup("format")
	if format == nil {
		t.Fatal("expected --format flag")
	}
	if format.Shorthand != "f" {
		t.Errorf("expected -f shorthand, got %q", format.Shorthand)
	}
	if format.DefValue != "geojson" {
		t.Errorf("expected default format geojson, got %q", format.DefValue)
	}
	if exportCmd.Flags().Lookup("output") == nil {
		t.Error("expected --output flag")
	}
	if !contains(exportCmd.Aliases, "e") {
		t.Error("expected alias 'e'")
	}
}

func TestExportCmd_GeoJSONFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)
	out := filepath.Join(dir, "out.geojson")

	output, err := run(t, "export", a, "--from", "2023-06-01T10:30:00Z", "-o", out)
	if err != nil {
		t.Fatalf("export failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Exported 2 points") {
		t.Errorf("expected confirmation in output:\n%s", output)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string       `json:"type"`
				Coordinates [][2]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("invalid GeoJSON: %v", err)
	}
	if fc.Type != "FeatureCollection" {
		t.Errorf("expected FeatureCollection, got %q", fc.Type)
	}
	if len(fc.Features) != 1 || len(fc.Features[0].Geometry.Coordinates) != 2 {
		t.Errorf("expected one MultiPoint with 2 coordinates, got %+v", fc.Features)
	}
}

func TestExportCmd_DeltaLoadsBack(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)
	b := writeFile(t, dir, "b.json", historyB)
	out := filepath.Join(dir, "out.json")

	if output, err := run(t, "export", a, b, "--format", "delta", "-o", out); err != nil {
		t.Fatalf("export failed: %v\n%s", err, output)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	records, err := decoder.Decode(data, out)
	if err != nil {
		t.Fatalf("delta export did not decode: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[0].Timestamp != time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC).UnixMilli() {
		t.Errorf("unexpected first timestamp %d", records[0].Timestamp)
	}
}

func TestExportCmd_YAMLStdout(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)

	output, err := run(t, "export", a, "--format", "yaml")
	if err != nil {
		t.Fatalf("export failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "tool: footprints") {
		t.Errorf("expected snapshot in output:\n%s", output)
	}
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", historyA)

	if _, err := run(t, "export", a, "--format", "kml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

// Tests for configCmd

func TestConfigPathCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")

	output, err := run(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if strings.TrimSpace(output) != path {
		t.Errorf("expected %q, got %q", path, output)
	}
}

func TestConfigShowCmd(t *testing.T) {
	output, err := run(t, "--tz", "Europe/Berlin", "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(output, `"timezone": "Europe/Berlin"`) {
		t.Errorf("expected flag override in output:\n%s", output)
	}
	if !strings.Contains(output, `"chunk_size": 10000`) {
		t.Errorf("expected default chunk size in output:\n%s", output)
	}
}

func TestConfigInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "footprints", "config.json")

	if output, err := run(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v\n%s", err, output)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := run(t, "--config", path, "config", "init"); err == nil {
		t.Error("expected error when config already exists")
	}
	if _, err := run(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("--force should overwrite: %v", err)
	}
}

// Tests for parseBound

func TestParseBound(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want int64
	}{
		{"1700000000000", 1_700_000_000_000},
		{"2023-06-01", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli()},
		{"2023-06-01T10:30:00Z", time.Date(2023, 6, 1, 10, 30, 0, 0, time.UTC).UnixMilli()},
		{"24h", now.Add(-24 * time.Hour).UnixMilli()},
		{"7d", now.Add(-7 * 24 * time.Hour).UnixMilli()},
		{"2w", now.Add(-14 * 24 * time.Hour).UnixMilli()},
		{"1m", now.Add(-30 * 24 * time.Hour).UnixMilli()},
	}

	for _, tt := range tests {
		got, err := parseBound(tt.in, now)
		if err != nil {
			t.Errorf("parseBound(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseBound(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseBound_Invalid(t *testing.T) {
	for _, in := range []string{"", "7y", "June", "2023-13-01"} {
		if _, err := parseBound(in, time.Now()); err == nil {
			t.Errorf("parseBound(%q) should fail", in)
		}
	}
}

// Tests for browseCmd and mcpCmd

func TestBrowseCmd_Metadata(t *testing.T) {
	if browseCmd.Use != "browse <file>..." {
		t.Errorf("unexpected Use: %q", browseCmd.Use)
	}
	if browseCmd.Args == nil {
		t.Error("expected argument validation")
	}
}

func TestMcpCmd_Metadata(t *testing.T) {
	if mcpCmd.Use != "mcp [file]..." {
		t.Errorf("unexpected Use: %q", mcpCmd.Use)
	}
	if mcpCmd.RunE == nil {
		t.Fatal("mcpCmd.RunE should not be nil")
	}
}

// contains checks if a string slice contains a value.
func contains(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}

// ABOUTME: Config subcommand for inspecting and creating the config file
// ABOUTME: Provides show, path, and init commands

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/harper/footprints/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage footprints configuration",
	Long: `Inspect or create the footprints config file.

Commands:
  show  - Print the effective configuration
  path  - Print the config file location
  init  - Write a config file with default values

Environment variables FOOTPRINTS_CHUNK_SIZE, FOOTPRINTS_WORKERS,
FOOTPRINTS_DEBOUNCE_MS, FOOTPRINTS_KEY_REPEAT_MS, FOOTPRINTS_TIMEZONE,
FOOTPRINTS_LOG_LEVEL, and FOOTPRINTS_LOG_FORMAT override the file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after the file, environment, and flags are applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), resolvedConfigPath())
		return nil
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Long: `Create the config file with every setting at its default.

An existing file is left alone unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolvedConfigPath()
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if err := config.Default().Save(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// resolvedConfigPath returns --config, or the default location.
func resolvedConfigPath() string {
	if configPath != "" {
		return config.ExpandPath(configPath)
	}
	return config.GetConfigPath()
}

// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads configuration and builds the logger shared by every subcommand

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harper/footprints/internal/config"
	"github.com/harper/footprints/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	timezone   string

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "footprints",
	Short: "Explore exported location history",
	Long: `
███████╗ ██████╗  ██████╗ ████████╗██████╗ ██████╗ ██╗███╗   ██╗████████╗███████╗
██╔════╝██╔═══██╗██╔═══██╗╚══██╔══╝██╔══██╗██╔══██╗██║████╗  ██║╚══██╔══╝██╔════╝
█████╗  ██║   ██║██║   ██║   ██║   ██████╔╝██████╔╝██║██╔██╗ ██║   ██║   ███████╗
██╔══╝  ██║   ██║██║   ██║   ██║   ██╔═══╝ ██╔══██╗██║██║╚██╗██║   ██║   ╚════██║
██║     ╚██████╔╝╚██████╔╝   ██║   ██║     ██║  ██║██║██║ ╚████║   ██║   ███████║
╚═╝      ╚═════╝  ╚═════╝    ╚═╝   ╚═╝     ╚═╝  ╚═╝╚═╝╚═╝  ╚═══╝   ╚═╝   ╚══════╝

       Load location history exports and see where you have been

Examples:
  footprints stats Records.json
  footprints filter Records.json --from 2023-06-01 --to 2023-06-30
  footprints export Records.json.gz --format geojson -o june.geojson
  footprints browse Records.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if timezone != "" {
			cfg.Timezone = timezone
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = logging.New(os.Stderr, logging.Options{
			Level:  cfg.GetLogLevel(),
			Format: cfg.GetLogFormat(),
		})
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/footprints/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&timezone, "tz", "", "time zone for labels, e.g. Europe/Berlin or Local")
}

/*
main.go - CLI entry point

PURPOSE:
  The frontdesk binary drives everything: the HTTP server for the
  reception terminal, plus offline commands for the operations that
  must work even when the server is down (season reset, report
  generation at end of shift).

COMMANDS:
  frontdesk serve          Start the HTTP server
  frontdesk export ...     Write an export artifact to a file
  frontdesk reset-season   Archive the charge ledger and start empty
  frontdesk version        Print the build version

CONFIGURATION:
  --config names a YAML file; every field has a default, and a missing
  file just means "run with defaults" (data under ./data, reference
  53-room layout).
*/
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warp/frontdesk/config"
	"github.com/warp/frontdesk/export"
	"github.com/warp/frontdesk/hotel"
	"github.com/warp/frontdesk/store"
)

var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "frontdesk",
	Short: "Hotel front-desk administration: room status, charges, end-of-day reports",
	Long: `frontdesk tracks room occupancy and per-room charges for a small hotel.
State lives in two plain CSV files (guest registry and charge ledger) that
operators can open, back up, and replace with ordinary spreadsheet tooling.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg.Log)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
}

// loadConfig reads the configured file, or falls back to defaults when
// no --config was given and no ./frontdesk.yaml exists.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = "frontdesk.yaml"
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func setupLogging(cfg config.LogConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// newDesk wires the two tables and the floor layout from config.
func newDesk(cfg *config.Config) *hotel.Desk {
	registry := hotel.NewRegistry(store.NewTable(cfg.Data.GuestsFile))
	ledger := hotel.NewLedger(store.NewTable(cfg.Data.ChargesFile))
	return hotel.NewDesk(registry, ledger, cfg.Hotel.FloorLayout())
}

func newExporter(cfg *config.Config) *export.Exporter {
	return export.New(newDesk(cfg))
}

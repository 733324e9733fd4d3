package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/pkg/config"
	"github.com/spf13/cobra"
)

var (
	appConfig *config.Config
	appLogger *slog.Logger
)

// NewRootCmd builds the command tree. Each call returns fresh commands and
// flags.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "autocut",
		Short: "Remove silent segments from recorded video",
		Long: `autocut - removes silent segments from recorded video

It analyses one audio track, drops the video frames that fall in silence,
re-slices every audio track so it stays aligned with the kept frames, and
muxes the result.

Features:
  • One-shot cuts with a progress bar
  • Interval analysis without re-encoding
  • Directory watching for new recordings
  • HTTP job API backed by a sqlite queue`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().String("config", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")

	rootCmd.AddCommand(
		newCutCmd(),
		newAnalyzeCmd(),
		newWatchCmd(),
		newServeCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger for every command
// except version and help.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	path, _ := cmd.Flags().GetString("config")
	if err := config.InitFrom(path); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if jsonLogs, _ := cmd.Flags().GetBool("json-logs"); jsonLogs {
		cfg.Logging.Format = "json"
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	appConfig = cfg
	appLogger = logger
	return nil
}

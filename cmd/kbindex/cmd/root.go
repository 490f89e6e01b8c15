// Package cmd provides the CLI commands for kbindex.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptops/kbindex/internal/config"
	"github.com/promptops/kbindex/internal/logging"
	"github.com/promptops/kbindex/pkg/version"
)

var (
	configPath     string
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the kbindex CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kbindex",
		Short: "Local TF-IDF retrieval over a documentation corpus",
		Long: `kbindex builds a lexical retrieval index over a directory of
documentation and code, then answers queries with ranked, scored
fragments suitable for prompt context assembly.

Everything runs locally: no network access, no model downloads.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("kbindex version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "kbindex.yaml", "Path to config file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = teardownLogging

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newStatsCmd())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

func setupLogging(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.FilePath = cfg.Logging.FilePath
	if debugMode {
		logCfg.Level = "debug"
		logCfg.WriteToStderr = true
	}

	cleanup, err := logging.SetupDefault(logCfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	loggingCleanup = cleanup
	return nil
}

func teardownLogging(cmd *cobra.Command, args []string) {
	if loggingCleanup != nil {
		loggingCleanup()
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return nil, err
	}
	return cfg, nil
}

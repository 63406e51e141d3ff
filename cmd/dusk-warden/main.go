package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/dusk-labs/dusk-warden/cmd/dusk-warden/commands"
	"github.com/dusk-labs/dusk-warden/internal/config"
	"github.com/dusk-labs/dusk-warden/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	memguard.CatchInterrupt()

	err := run()
	// Wipe any sealed token before the process goes away.
	memguard.Purge()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile  string
		metricsFile string
		noColor     bool
		debug       bool
	)

	cfg := &config.Config{}
	deps := commands.DefaultDeps()

	rootCmd := &cobra.Command{
		Use:   "dusk-warden",
		Short: "Sync secrets between Bitwarden Secrets Manager and local files",
		Long: `dusk-warden pulls secret values from Bitwarden Secrets Manager into local
files and pushes local files back up, using the bws CLI.

Mappings between files and secret ids live in dusk-warden.yaml.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.MetricsFile = metricsFile
			cfg.Logger = logging.New(debug, noColor)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewSyncCommand(cfg, deps),
		commands.NewPushCommand(cfg, deps),
		commands.NewStatusCommand(cfg, deps),
		commands.NewLoginCommand(cfg, deps),
		commands.NewUpdateCommand(cfg, deps, version),
	)

	return rootCmd.Execute()
}

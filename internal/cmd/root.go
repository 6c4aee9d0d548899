// Package cmd implements the aduana CLI commands using Cobra.
// It provides commands for enumerating the repositories on a Docker
// registry and inspecting per-tag image metadata.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fdeantoni/aduana/internal/config"
	"github.com/fdeantoni/aduana/internal/slogger"
)

// appConfig holds the loaded application configuration.
var appConfig *config.Config

// configLoader is used for reading and writing configuration keys.
var configLoader *config.Loader

var rootCmd = &cobra.Command{
	Use:   "aduana",
	Short: "Inspect the images hosted on a Docker registry",
	Long: `Aduana is a read-only client for the Docker Registry HTTP API v2.

It enumerates the repositories hosted on a registry, lists their tags, and
resolves per-tag image metadata (entrypoint, environment, labels,
architecture, creation time) by following a tag's manifest to its
configuration blob. It never pushes, deletes, or mutates anything.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, err := cmd.Flags().GetCount("verbose")
		if err != nil {
			return fmt.Errorf("get verbose flag: %w", err)
		}

		logger := slogger.New(slogger.Config{Verbosity: verbosity})

		// Store dependencies in context for subcommands
		ctx := cmd.Context()
		ctx = slogger.WithLogger(ctx, logger)
		ctx = WithConfig(ctx, appConfig)
		ctx = WithLoader(ctx, configLoader)
		cmd.SetContext(ctx)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// Main runs the CLI and returns a process exit code.
func Main() int {
	if err := Execute(); err != nil {
		return 1
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("registry", "r", "", "registry base URL (overrides configured registry.url)")
	rootCmd.PersistentFlags().String("cert", "", "path to a PEM CA certificate to trust (overrides registry.cert)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
}

func initConfig() {
	loader, err := config.NewLoader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
		return
	}

	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config validation failed: %v\n", err)
	}

	appConfig = cfg
	configLoader = loader
}

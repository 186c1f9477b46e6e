package app

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/specmap/specmap/internal/cmd/cmdutil"
	"github.com/specmap/specmap/pkg/logging"
)

// Execute runs the specmap CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "specmap",
		Short:   "API description collection CLI",
		Version: a.version,
		Long: `Specmap maintains a curated collection of API description documents
normalized to Swagger 2.0.

Sources in any supported dialect (Swagger 2.0, OpenAPI 3.x, Google API
Discovery) are fetched, converted, overlaid with curated patches and
recorded hand edits, then validated and auto-fixed until clean. The
collection publishes a version-list index, a CSV export, and a directory
document.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "collection",
		Title: "Collection Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "publish",
		Title: "Publishing Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "curation",
		Title: "Curation Commands:",
	})

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.specmap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&a.config.Format, "format", "o", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().StringVar(&a.config.Dir, "dir", a.config.Dir, "collection root directory")
	rootCmd.PersistentFlags().StringVar(&a.config.BaseURL, "base-url", a.config.BaseURL, "public URL prefix for generated artifact links")
	rootCmd.PersistentFlags().IntVar(&a.config.ErrorExitCode, "error-exit-code", a.config.ErrorExitCode, "exit code when documents fail (0 always exits successfully)")

	rootCmd.SetVersionTemplate("specmap {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// Update config from parsed flags. These flags are defined as
	// persistent flags in createRootCommand, so errors indicate
	// programming errors.
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	if err := a.config.Validate(); err != nil {
		return err
	}

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	return nil
}

// ExitOnError is a helper that prints an error and exits. It honors an
// ExitError's code; anything else exits with status 1. This is meant to be
// used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	var exitErr *cmdutil.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			_, _ = os.Stderr.WriteString(exitErr.Err.Error() + "\n")
		}
		os.Exit(exitErr.Code)
	}
	_, _ = os.Stderr.WriteString(err.Error() + "\n")
	os.Exit(1)
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't
// exist. This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't
// exist. This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

package app

import (
	"github.com/spf13/cobra"

	"github.com/specmap/specmap/cmd/specmap/cmd/add"
	"github.com/specmap/specmap/cmd/specmap/cmd/discovery"
	"github.com/specmap/specmap/cmd/specmap/cmd/fix"
	"github.com/specmap/specmap/cmd/specmap/cmd/index"
	"github.com/specmap/specmap/cmd/specmap/cmd/logos"
	"github.com/specmap/specmap/cmd/specmap/cmd/patch"
	"github.com/specmap/specmap/cmd/specmap/cmd/update"
	"github.com/specmap/specmap/cmd/specmap/cmd/urls"
	"github.com/specmap/specmap/cmd/specmap/cmd/validate"
	"github.com/specmap/specmap/cmd/specmap/cmd/version"
)

// registerCommands registers all subcommands with the root command.
// This is where we wire up all the command handlers.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Collection commands
	rootCmd.AddCommand(urls.NewCommand(a))
	rootCmd.AddCommand(update.NewCommand(a))
	rootCmd.AddCommand(validate.NewCommand(a))
	rootCmd.AddCommand(add.NewCommand(a))
	rootCmd.AddCommand(discovery.NewCommand(a))

	// Publishing commands
	rootCmd.AddCommand(index.NewListCommand(a))
	rootCmd.AddCommand(index.NewCSVCommand(a))
	rootCmd.AddCommand(index.NewDirectoryCommand(a))
	rootCmd.AddCommand(logos.NewCommand(a))

	// Curation commands
	rootCmd.AddCommand(fix.NewCommand(a))
	rootCmd.AddCommand(patch.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}

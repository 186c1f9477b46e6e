// Package validate implements the validate command.
package validate

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/specmap/specmap/internal/appcontext"
	"github.com/specmap/specmap/internal/cmd/cmdutil"
)

// NewCommand creates the validate command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "validate",
		GroupID: "collection",
		Short:   "Validate every stored document",
		Long: `Validate checks every stored document against the Swagger 2.0 schema and
the semantic sweeps without rewriting anything. Each failing document is
reported with its findings; the exit code reflects whether any document
failed (configurable with --error-exit-code).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.Collection()
			if err != nil {
				return err
			}
			res, err := c.Validate(cmd.Context())
			if res != nil {
				res.Render(os.Stderr)
			}
			if err != nil {
				return err
			}
			return cmdutil.BatchExit(app.ErrorExitCode(), len(res.Failures))
		},
	}
}

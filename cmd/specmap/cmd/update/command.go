// Package update implements the update command.
package update

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/specmap/specmap/internal/appcontext"
	"github.com/specmap/specmap/internal/cmd/cmdutil"
)

// NewCommand creates the update command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "update",
		GroupID: "collection",
		Short:   "Re-fetch and rewrite every stored document",
		Long: `Update re-runs the full pipeline for every document in the collection:
fetch from the recorded origin, convert to Swagger 2.0, apply curated
patches and recorded hand edits, then validate and auto-fix until clean.

Documents are processed one at a time. A document that fails conversion or
never converges is reported and skipped; a patch conflict or a metadata
invariant violation aborts the whole run, since those mean the stored
collection itself needs fixing.`,
		Example: `  specmap update                  # Refresh the whole collection
  specmap update --error-exit-code=0   # Report failures but exit 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.Collection()
			if err != nil {
				return err
			}
			res, err := c.Update(cmd.Context())
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

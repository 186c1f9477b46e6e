// Package discovery implements the discovery command.
package discovery

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/specmap/specmap/internal/appcontext"
	"github.com/specmap/specmap/internal/cmd/cmdutil"
)

// NewCommand creates the discovery command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "discovery",
		GroupID: "collection",
		Short:   "Bulk refresh from the Google API Discovery directory",
		Long: `Discovery fetches the Google API Discovery directory listing and runs the
pipeline for every API it names, carrying the directory's preferred flags
into the stored documents. APIs are processed one at a time; a failing API
is reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.Collection()
			if err != nil {
				return err
			}
			res, err := c.RefreshDiscovery(cmd.Context())
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

// Package logos implements the logos command.
package logos

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/specmap/specmap/internal/appcontext"
	"github.com/specmap/specmap/internal/cmd/cmdutil"
)

// NewCommand creates the logos command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "logos",
		GroupID: "publish",
		Short:   "Cache external logo images locally",
		Long: `Logos downloads each document's external logo image (info x-logo) into
the cache directory, picking the file extension from the sniffed content
type, and rewrites the logo URL in the stored document to the cached copy.
Logos already served from the collection's base URL are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.Collection()
			if err != nil {
				return err
			}
			res, err := c.CacheLogos(cmd.Context())
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

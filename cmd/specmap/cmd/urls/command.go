// Package urls implements the urls command.
package urls

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specmap/specmap/internal/appcontext"
	"github.com/specmap/specmap/internal/cmd/output"
)

// NewCommand creates the urls command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "urls",
		GroupID: "collection",
		Short:   "List origin URLs of every stored document",
		Long: `Urls lists the recorded origin URL of every document in the collection,
sorted and deduplicated. The list is the source of truth for what a full
update re-fetches.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := app.Collection()
			if err != nil {
				return err
			}
			urls, err := c.URLs()
			if err != nil {
				return err
			}
			switch format := output.Format(app.OutputFormat()); format {
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(os.Stdout, urls)
			default:
				for _, u := range urls {
					fmt.Println(u)
				}
				return nil
			}
		},
	}
}

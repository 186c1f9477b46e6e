// Package add implements the add command.
package add

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specmap/specmap/internal/appcontext"
	"github.com/specmap/specmap/pkg/convert"
)

// Flags holds the add command flags.
type Flags struct {
	Service   string
	Preferred bool
}

// NewCommand creates the add command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "add <format> <url>",
		GroupID: "collection",
		Short:   "Fetch one source and add it to the collection",
		Long: fmt.Sprintf(`Add fetches a source document, converts it to Swagger 2.0, and stores it
at provider[/service]/version. The provider name derives from the source
URL host with any leading "www." stripped.

Supported formats: %v. An empty format ("") auto-detects.`, convert.Formats()),
		Example: `  specmap add swagger_2 https://api.example.com/swagger.json
  specmap add openapi_3 https://api.example.com/openapi.yaml --service billing
  specmap add google https://www.googleapis.com/discovery/v1/apis/drive/v3/rest --preferred`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Collection()
			if err != nil {
				return err
			}
			wr, err := c.Add(cmd.Context(), args[0], args[1], flags.Service, flags.Preferred)
			if err != nil {
				if wr != nil {
					wr.Diagnose(os.Stderr)
				}
				return err
			}
			fmt.Printf("added %s\n", wr.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.Service, "service", "", "service name for providers with multiple APIs")
	cmd.Flags().BoolVar(&flags.Preferred, "preferred", false, "mark this version as the preferred one")

	return cmd
}

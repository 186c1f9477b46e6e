// Package fix implements the fix command.
package fix

import (
	"github.com/spf13/cobra"

	"github.com/specmap/specmap/internal/appcontext"
)

// NewCommand creates the fix command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "fix <provider[/service]/version>",
		GroupID: "curation",
		Short:   "Hand-edit a stored document and record the change",
		Long: `Fix opens the stored canonical document in your editor ($VISUAL or
$EDITOR) as YAML. When you save and exit, the difference against the
stored form is recorded as a fixup diff and replayed on every future
refresh of that document. Exiting without changes records nothing.

Successive edit sessions compose: the recorded diff is always computed
against the document as the pipeline regenerates it, not against your
previous edit.`,
		Example: `  specmap fix stripe.com/2020-08-27
  specmap fix googleapis.com/drive/v3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Collection()
			if err != nil {
				return err
			}
			return c.Fix(cmd.Context(), args[0])
		},
	}
}

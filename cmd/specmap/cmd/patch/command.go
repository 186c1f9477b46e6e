// Package patch implements the patch command group.
package patch

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/specmap/specmap/internal/appcontext"
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

// NewCommand creates the patch command group using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patch",
		GroupID: "curation",
		Short:   "Manage curated patch layers",
		Long: `Patch manages the persisted patch layers that overlay every converted
document. Layers live as patch.json files along the identity path; outer
layers apply to every document below them, inner layers win on conflicts.`,
	}
	cmd.AddCommand(newAddCommand(app))
	return cmd
}

// newAddCommand creates the patch add subcommand.
func newAddCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "add <provider[/service]/version> <file>",
		Short: "Fold curated data into a document's patch layer",
		Long: `Add reads a JSON or YAML patch document and composes it into the
persisted patch layer at the identity path. Composition uses merge-patch
semantics: re-adding the same data is a no-op and new values win on leaf
conflicts. Deleting fields through a patch is not possible; patches are
strictly additive when applied.`,
		Example: `  specmap patch add stripe.com/2020-08-27 contact.json
  specmap patch add googleapis.com/drive/v3 logo.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := app.Collection()
			if err != nil {
				return err
			}
			doc, err := readPatchFile(args[1])
			if err != nil {
				return err
			}
			if err := c.AddPatch(args[0], doc); err != nil {
				return err
			}
			fmt.Printf("patched %s\n", args[0])
			return nil
		},
	}
}

// readPatchFile parses a JSON or YAML patch document from disk.
func readPatchFile(path string) (specs.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	// YAML is a superset of JSON, so one parse path covers both.
	jsonRaw, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	var doc specs.Document
	if err := json.Unmarshal(jsonRaw, &doc); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return doc, nil
}

// Package index implements the list, csv, and directory commands that
// publish aggregate artifacts of the collection.
package index

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/specmap/specmap/internal/appcontext"
	"github.com/specmap/specmap/internal/cmd/output"
	"github.com/specmap/specmap/pkg/constants"
)

// NewListCommand creates the list command using app context.
func NewListCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		GroupID: "publish",
		Short:   "Build and write the version-list index",
		Long: `List builds the version-list index of the collection and writes it as
list.json at the collection root. The index is keyed by
provider[:service]; each API carries its stored versions with added and
updated dates, artifact URLs, and an extract of the document info.

Among several versions of one API exactly one must be preferred: a single
version is preferred automatically, multiple versions need exactly one
explicit preferred flag.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := app.Collection()
			if err != nil {
				return err
			}
			list, err := c.WriteList()
			if err != nil {
				return err
			}
			switch format := output.Format(app.OutputFormat()); format {
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(os.Stdout, list)
			default:
				data := output.Data{Headers: []string{"API", "Preferred", "Versions", "Added"}}
				for _, key := range list.Keys() {
					api := list[key]
					data.Rows = append(data.Rows, []string{
						key,
						api.Preferred,
						strconv.Itoa(len(api.Versions)),
						api.Added.Format("2006-01-02"),
					})
				}
				return output.NewFormatter(format).Format(os.Stdout, data)
			}
		},
	}
}

// NewCSVCommand creates the csv command using app context.
func NewCSVCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "csv",
		GroupID: "publish",
		Short:   "Write the tabular CSV export",
		Long: `Csv writes a flat tabular export of the collection, one row per preferred
version, as ` + constants.CSVFile + ` at the collection root.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := app.Collection()
			if err != nil {
				return err
			}
			if err := c.WriteCSV(); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", constants.CSVFile)
			return nil
		},
	}
}

// NewDirectoryCommand creates the directory command using app context.
func NewDirectoryCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "directory",
		GroupID: "publish",
		Short:   "Write the directory aggregation document",
		Long: `Directory writes a directory-style aggregation of the collection, one
entry per preferred version with name, description, image, homepage, base
URL, and version, as ` + constants.DirectoryFile + ` at the collection root.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := app.Collection()
			if err != nil {
				return err
			}
			entries, err := c.WriteDirectory()
			if err != nil {
				return err
			}
			return output.NewFormatter(output.Format(app.OutputFormat())).Format(os.Stdout, entries)
		},
	}
}

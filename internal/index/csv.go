package index

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/specmap/specmap/pkg/errors"
)

// csvColumns is the fixed column set of the tabular export.
var csvColumns = []string{
	"provider",
	"service",
	"version",
	"title",
	"added",
	"updated",
	"swagger_url",
	"swagger_yaml_url",
	"origin_url",
}

// WriteCSV emits the tabular export: one row per preferred version, fixed
// columns, sorted by index key.
func WriteCSV(w io.Writer, list List) error {
	out := csv.NewWriter(w)
	if err := out.Write(csvColumns); err != nil {
		return errors.WrapResource("write", "index", "csv header", err)
	}
	for _, entry := range preferredEntries(list) {
		title, _ := entry.Info["title"].(string)
		row := []string{
			entry.identity.Provider,
			entry.identity.Service,
			entry.identity.Version,
			title,
			entry.Added.Format(time.RFC3339),
			entry.Updated.Format(time.RFC3339),
			entry.SwaggerURL,
			entry.SwaggerYAMLURL,
			entry.originURL,
		}
		if err := out.Write(row); err != nil {
			return errors.WrapResource("write", "index", "csv row", err)
		}
	}
	out.Flush()
	return errors.WrapResource("write", "index", "csv", out.Error())
}

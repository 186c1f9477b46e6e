package specmap

import (
	"bytes"

	"github.com/specmap/specmap/internal/index"
	"github.com/specmap/specmap/pkg/constants"
)

// List builds the version-list index from the stored collection.
func (c *collection) List() (index.List, error) {
	return index.New(c.store, c.dates, c.cfg.baseURL).Build()
}

// WriteList builds the version-list index and persists it as list.json at
// the collection root.
func (c *collection) WriteList() (index.List, error) {
	list, err := c.List()
	if err != nil {
		return nil, err
	}
	if err := c.store.WriteJSON(constants.ListFile, list); err != nil {
		return nil, err
	}
	c.log.Info().Int("apis", len(list)).Str("path", constants.ListFile).Msg("wrote list index")
	return list, nil
}

// WriteCSV persists the tabular export, one row per preferred version.
func (c *collection) WriteCSV() error {
	list, err := c.List()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := index.WriteCSV(&buf, list); err != nil {
		return err
	}
	if err := c.store.WriteBytes(constants.CSVFile, buf.Bytes()); err != nil {
		return err
	}
	c.log.Info().Int("apis", len(list)).Str("path", constants.CSVFile).Msg("wrote CSV export")
	return nil
}

// WriteDirectory builds the directory aggregation and persists it as
// directory.json at the collection root.
func (c *collection) WriteDirectory() ([]index.DirectoryEntry, error) {
	list, err := c.List()
	if err != nil {
		return nil, err
	}
	entries := index.Directory(list)
	if err := c.store.WriteJSON(constants.DirectoryFile, entries); err != nil {
		return nil, err
	}
	c.log.Info().Int("entries", len(entries)).Str("path", constants.DirectoryFile).Msg("wrote directory")
	return entries, nil
}

// Package store persists collection artifacts on disk. The layout mirrors
// document identity: provider[/service]/version/<artifact>. JSON artifacts
// are written pretty-printed with sorted keys so regeneration produces
// stable diffs.
package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/karrick/godirwalk"

	"github.com/specmap/specmap/pkg/constants"
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

// Store reads and writes artifacts under one collection root.
type Store struct {
	dir string
}

// New returns a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the collection root.
func (s *Store) Dir() string {
	return s.dir
}

// Abs returns the absolute path of a collection-relative artifact path.
func (s *Store) Abs(rel string) string {
	return filepath.Join(s.dir, filepath.FromSlash(rel))
}

// Exists reports whether an artifact exists.
func (s *Store) Exists(rel string) bool {
	_, err := os.Stat(s.Abs(rel))
	return err == nil
}

// Read decodes a JSON artifact into v. It reports found=false without error
// when the artifact does not exist.
func (s *Store) Read(rel string, v any) (found bool, err error) {
	raw, err := os.ReadFile(s.Abs(rel))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.WrapIO("read", rel, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, errors.WrapParse("json", rel, err)
	}
	return true, nil
}

// ReadJSON reads a JSON document artifact. A missing artifact yields a nil
// document and no error.
func (s *Store) ReadJSON(rel string) (specs.Document, error) {
	var doc specs.Document
	found, err := s.Read(rel, &doc)
	if err != nil || !found {
		return nil, err
	}
	return doc, nil
}

// WriteJSON writes v as pretty-printed JSON with sorted keys, creating
// parent directories as needed.
func (s *Store) WriteJSON(rel string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.WrapParse("json", rel, err)
	}
	return s.WriteBytes(rel, buf.Bytes())
}

// WriteYAML writes v as YAML, creating parent directories as needed.
func (s *Store) WriteYAML(rel string, v any) error {
	raw, err := yaml.MarshalWithOptions(v, yaml.Indent(2))
	if err != nil {
		return errors.WrapParse("yaml", rel, err)
	}
	return s.WriteBytes(rel, raw)
}

// WriteBytes writes raw bytes, creating parent directories as needed.
func (s *Store) WriteBytes(rel string, raw []byte) error {
	abs := s.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(rel), err)
	}
	if err := os.WriteFile(abs, raw, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", rel, err)
	}
	return nil
}

// Remove deletes an artifact if it exists.
func (s *Store) Remove(rel string) error {
	err := os.Remove(s.Abs(rel))
	if err != nil && !os.IsNotExist(err) {
		return errors.WrapIO("delete", rel, err)
	}
	return nil
}

// FindSpecs returns the collection-relative paths of every canonical
// document artifact, sorted for deterministic iteration order.
func (s *Store) FindSpecs() ([]string, error) {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return nil, nil
	}
	var found []string
	err := godirwalk.Walk(s.dir, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			name := de.Name()
			if de.IsDir() {
				if strings.HasPrefix(name, ".") && osPathname != s.dir {
					return filepath.SkipDir
				}
				return nil
			}
			if name != constants.SwaggerJSON {
				return nil
			}
			rel, err := filepath.Rel(s.dir, osPathname)
			if err != nil {
				return err
			}
			found = append(found, filepath.ToSlash(rel))
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, errors.WrapIO("walk", s.dir, err)
	}
	sort.Strings(found)
	return found, nil
}

// PatchLayers reads every persisted patch layer along an identity path, in
// outward-to-inward order: the collection root, then each directory level
// down to the version. Missing layers are skipped.
func (s *Store) PatchLayers(id specs.Identity) ([]specs.Document, error) {
	var layers []specs.Document
	prefix := ""
	dirs := append([]string{""}, id.PathComponents()...)
	for _, component := range dirs {
		if component != "" {
			prefix += component + "/"
		}
		layer, err := s.ReadJSON(prefix + constants.PatchFile)
		if err != nil {
			return nil, err
		}
		if layer != nil {
			layers = append(layers, layer)
		}
	}
	return layers, nil
}

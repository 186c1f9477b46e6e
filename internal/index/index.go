// Package index derives the published aggregate artifacts from a stored
// collection: the version-list index, the tabular CSV export, and the
// directory aggregation document. Preferred-version selection lives here
// and is strict: among several versions of one API, exactly one must carry
// the explicit preferred flag.
package index

import (
	"fmt"
	"sort"

	"github.com/agentstation/utc"

	"github.com/specmap/specmap/internal/gitlog"
	"github.com/specmap/specmap/internal/store"
	"github.com/specmap/specmap/pkg/constants"
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

// VersionEntry describes one stored version of an API.
type VersionEntry struct {
	Added          utc.Time       `json:"added"`
	Updated        utc.Time       `json:"updated"`
	SwaggerURL     string         `json:"swaggerUrl"`
	SwaggerYAMLURL string         `json:"swaggerYamlUrl"`
	Info           specs.Document `json:"info"`

	// Derived fields used by the exports, not part of the list artifact.
	identity  specs.Identity
	originURL string
	baseURL   string
	homepage  string
}

// API groups the stored versions of one provider[:service] key.
type API struct {
	Added     utc.Time                `json:"added"`
	Preferred string                  `json:"preferred"`
	Versions  map[string]VersionEntry `json:"versions"`
}

// List is the version-list index, keyed by provider[:service].
type List map[string]*API

// Keys returns the index keys in sorted order.
func (l List) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Builder assembles aggregate artifacts from a stored collection.
type Builder struct {
	store   *store.Store
	dates   gitlog.Dater
	baseURL string
}

// New creates a Builder. baseURL prefixes every artifact link in generated
// output.
func New(s *store.Store, dates gitlog.Dater, baseURL string) *Builder {
	return &Builder{store: s, dates: dates, baseURL: baseURL}
}

// Build scans every stored document and assembles the version-list index.
// A provider+version stored twice, or an ambiguous preferred selection, is
// an invariant violation that fails the build.
func (b *Builder) Build() (List, error) {
	paths, err := b.store.FindSpecs()
	if err != nil {
		return nil, err
	}

	list := List{}
	for _, rel := range paths {
		doc, err := b.store.ReadJSON(rel)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		id, err := doc.Identity()
		if err != nil {
			return nil, err
		}

		entry, err := b.entry(doc, id, rel)
		if err != nil {
			return nil, err
		}

		key := id.Key()
		api, ok := list[key]
		if !ok {
			api = &API{Versions: map[string]VersionEntry{}}
			list[key] = api
		}
		if _, dup := api.Versions[id.Version]; dup {
			return nil, &errors.MetadataError{
				Field:  "version",
				Reason: fmt.Sprintf("stored twice for %s: %s", key, id.Version),
			}
		}
		api.Versions[id.Version] = entry
	}

	for key, api := range list {
		if err := selectPreferred(key, api); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (b *Builder) entry(doc specs.Document, id specs.Identity, rel string) (VersionEntry, error) {
	added, updated := b.dates.Dates(rel)
	info, _ := doc["info"].(map[string]any)

	entry := VersionEntry{
		Added:          added,
		Updated:        updated,
		SwaggerURL:     b.artifactURL(id, constants.SwaggerJSON),
		SwaggerYAMLURL: b.artifactURL(id, constants.SwaggerYAML),
		Info:           specs.Document(info),
		identity:       id,
		baseURL:        baseURLOf(doc),
		homepage:       homepageOf(doc),
	}
	if originURL, err := doc.OriginURL(); err == nil {
		entry.originURL = originURL
	}
	return entry, nil
}

func (b *Builder) artifactURL(id specs.Identity, filename string) string {
	return b.baseURL + "/" + id.Dir() + "/" + filename
}

// selectPreferred applies the preferred-version rule: a single stored
// version is preferred by itself; among several, exactly one must carry an
// explicit preferred flag.
func selectPreferred(key string, api *API) error {
	versions := make([]string, 0, len(api.Versions))
	for v := range api.Versions {
		versions = append(versions, v)
	}
	sort.Strings(versions)

	first := true
	for _, v := range versions {
		added := api.Versions[v].Added
		if first || added.Before(api.Added) {
			api.Added = added
		}
		first = false
	}

	if len(versions) == 1 {
		api.Preferred = versions[0]
		return nil
	}

	var flagged []string
	for _, v := range versions {
		if preferred, _ := api.Versions[v].Info[specs.XPreferred].(bool); preferred {
			flagged = append(flagged, v)
		}
	}
	if len(flagged) != 1 {
		return &errors.MetadataError{
			Field: specs.XPreferred,
			Reason: fmt.Sprintf(
				"must flag exactly one of %d versions of %s, found %d",
				len(versions), key, len(flagged),
			),
		}
	}
	api.Preferred = flagged[0]
	return nil
}

// preferredEntries returns the preferred entry per key, sorted by key.
func preferredEntries(list List) []VersionEntry {
	var entries []VersionEntry
	for _, key := range list.Keys() {
		api := list[key]
		if entry, ok := api.Versions[api.Preferred]; ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func baseURLOf(doc specs.Document) string {
	scheme := "https"
	if schemes, ok := doc["schemes"].([]any); ok && len(schemes) > 0 {
		if s, ok := schemes[0].(string); ok {
			scheme = s
		}
	}
	host, _ := doc["host"].(string)
	if host == "" {
		return ""
	}
	basePath, _ := doc["basePath"].(string)
	return scheme + "://" + host + basePath
}

func homepageOf(doc specs.Document) string {
	if ext, ok := doc["externalDocs"].(map[string]any); ok {
		if u, _ := ext["url"].(string); u != "" {
			return u
		}
	}
	if info, ok := doc["info"].(map[string]any); ok {
		if contact, ok := info["contact"].(map[string]any); ok {
			if u, _ := contact["url"].(string); u != "" {
				return u
			}
		}
	}
	return ""
}

// Package specmap maintains a curated collection of API description
// documents normalized to Swagger 2.0. Each document flows through a
// convergence loop: convert from its source dialect, apply curated patches,
// replay recorded hand edits, then validate and auto-fix until clean. The
// collection also publishes aggregate artifacts: a version-list index, a
// CSV export, and a directory document.
package specmap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/specmap/specmap/internal/gitlog"
	"github.com/specmap/specmap/internal/index"
	"github.com/specmap/specmap/internal/store"
	"github.com/specmap/specmap/internal/transport"
	"github.com/specmap/specmap/pkg/specs"
)

// Collection is a stored set of canonical API description documents and the
// operations that maintain it.
type Collection interface {
	// Dir returns the collection root directory.
	Dir() string

	// WriteSpec runs the full pipeline for one source: fetch, convert,
	// patch, replay recorded hand edits, then validate and auto-fix until
	// clean, persisting the canonical artifacts on success.
	WriteSpec(ctx context.Context, source, format string, extraPatch specs.Document) (*WriteResult, error)

	// URLs lists the origin URL of every stored document, sorted.
	URLs() ([]string, error)

	// Update re-runs the pipeline for every stored document from its
	// recorded origin.
	Update(ctx context.Context) (*UpdateResult, error)

	// Validate checks every stored document without rewriting anything.
	Validate(ctx context.Context) (*UpdateResult, error)

	// Add fetches one new source and stores its canonical form. The
	// provider name derives from the source URL host; service and
	// preferred seed the caller patch.
	Add(ctx context.Context, format, source, service string, preferred bool) (*WriteResult, error)

	// RefreshDiscovery bulk-refreshes every API listed by the Google API
	// Discovery directory, carrying over its preferred flags.
	RefreshDiscovery(ctx context.Context) (*UpdateResult, error)

	// CacheLogos downloads each document's external logo into the cache
	// directory and rewrites the logo URL to the cached copy.
	CacheLogos(ctx context.Context) (*UpdateResult, error)

	// List builds the version-list index.
	List() (index.List, error)

	// WriteList builds the version-list index and persists list.json.
	WriteList() (index.List, error)

	// WriteCSV persists the tabular export, one row per preferred version.
	WriteCSV() error

	// WriteDirectory builds and persists the directory aggregation.
	WriteDirectory() ([]index.DirectoryEntry, error)

	// Fix opens a stored document in the external editor and records the
	// resulting hand edit as a replayable diff.
	Fix(ctx context.Context, idPath string) error

	// RecordFixup computes and persists the diff between a document's
	// regenerated form and its hand-edited form.
	RecordFixup(preEdit, postEdit specs.Document) error

	// AddPatch folds new curated data into a persisted patch layer.
	AddPatch(idPath string, patch specs.Document) error
}

// collection is the internal implementation of the Collection interface.
type collection struct {
	cfg    *config
	store  *store.Store
	client *transport.Client
	dates  gitlog.Dater
	log    zerolog.Logger
}

// New creates a Collection with the given options.
func New(opts ...Option) (Collection, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	topts := []transport.Option{transport.WithUserAgent(cfg.userAgent)}
	if cfg.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(cfg.httpClient))
	}

	dates := cfg.dates
	if dates == nil {
		dates = gitlog.New(cfg.dir)
	}

	return &collection{
		cfg:    cfg,
		store:  store.New(cfg.dir),
		client: transport.New(topts...),
		dates:  dates,
		log:    *cfg.logger,
	}, nil
}

// Dir returns the collection root directory.
func (c *collection) Dir() string {
	return c.store.Dir()
}

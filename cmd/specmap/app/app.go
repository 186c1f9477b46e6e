// Package app provides the application context and dependency management
// for the specmap CLI. It follows idiomatic Go patterns for CLI applications
// by centralizing configuration, dependency injection, and lifecycle management.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/specmap/specmap"
	"github.com/specmap/specmap/internal/cmd/output"
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/logging"
)

// App represents the specmap application with all its dependencies.
// It provides a centralized place for configuration, logging, and the
// collection instance, following the dependency injection pattern.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Collection instance (lazy-initialized, singleton)
	mu         sync.RWMutex
	collection specmap.Collection
}

// New creates a new App instance with the given version information.
// The app is initialized with default configuration that can be
// customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	// Library code falling back to logging.Default gets the configured
	// logger instead of the package bootstrap one.
	logging.SetDefault(*app.logger)

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the output format commands should render with. An
// explicit --format wins; otherwise the format is detected from the
// terminal, tables for humans and JSON for pipes and redirects.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// ErrorExitCode returns the exit code for batch operations that report
// document failures.
func (a *App) ErrorExitCode() int {
	return a.config.ErrorExitCode
}

// Collection returns the collection instance, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Collection() (specmap.Collection, error) {
	a.mu.RLock()
	if a.collection != nil {
		c := a.collection
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.collection != nil {
		return a.collection, nil
	}

	c, err := specmap.New(a.buildCollectionOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "collection", "", err)
	}

	a.collection = c
	return c, nil
}

// CollectionWithOptions returns a new collection instance with the given
// options layered on top of the configured ones. This is useful for
// commands that need specific configurations different from the default
// app instance.
func (a *App) CollectionWithOptions(opts ...specmap.Option) (specmap.Collection, error) {
	c, err := specmap.New(append(a.buildCollectionOptions(), opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "collection", "with custom options", err)
	}
	return c, nil
}

// buildCollectionOptions constructs collection options from the app
// configuration.
func (a *App) buildCollectionOptions() []specmap.Option {
	opts := []specmap.Option{
		specmap.WithDir(a.config.Dir),
		specmap.WithCacheDir(a.config.CacheDir),
		specmap.WithLogger(a.logger),
	}
	if a.config.BaseURL != "" {
		opts = append(opts, specmap.WithBaseURL(a.config.BaseURL))
	}
	if a.config.DiscoveryURL != "" {
		opts = append(opts, specmap.WithDiscoveryURL(a.config.DiscoveryURL))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithCollection sets a custom collection instance (useful for testing).
func WithCollection(c specmap.Collection) Option {
	return func(a *App) error {
		a.collection = c
		return nil
	}
}

// Package appcontext provides the shared application context interface
// used by all commands. This eliminates interface duplication across
// command packages and provides a single source of truth for app dependencies.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/specmap/specmap"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/specmap/app automatically implements this
// interface, providing dependency injection for commands while maintaining
// testability.
//
// Commands should accept this interface rather than the concrete App type,
// allowing for easier testing with mock implementations.
type Interface interface {
	// Collection returns the configured collection instance, creating it
	// lazily if needed.
	Collection() (specmap.Collection, error)

	// CollectionWithOptions creates a new collection instance with custom
	// options layered on top of the configured ones. Use this when a
	// command needs specific configuration (e.g. an alternate directory).
	CollectionWithOptions(...specmap.Option) (specmap.Collection, error)

	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// ErrorExitCode returns the process exit code to use when a batch
	// operation reports document failures. Zero disables failure exits.
	ErrorExitCode() int

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

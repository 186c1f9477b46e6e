// Package constants provides shared constants used throughout the specmap codebase.
// This includes timeouts, limits, file permissions, and the canonical artifact
// names that define the on-disk collection layout.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to spec sources
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// UpdateContextTimeout is the timeout for a full collection update run
	UpdateContextTimeout = 30 * time.Minute

	// FetchTimeout is the timeout for fetching a single source document
	FetchTimeout = 2 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Artifact names define the fixed on-disk layout of a collection entry:
// provider[/service]/version/<artifact>.
const (
	// SwaggerJSON is the canonical document artifact name
	SwaggerJSON = "swagger.json"

	// SwaggerYAML is the YAML rendering written alongside the canonical document
	SwaggerYAML = "swagger.yaml"

	// PatchFile is the persisted curated patch artifact name, one per directory level
	PatchFile = "patch.json"

	// FixupFile is the persisted manual-edit diff artifact name
	FixupFile = "fixup.json"

	// ListFile is the version-list index artifact name
	ListFile = "list.json"

	// CSVFile is the tabular export artifact name
	CSVFile = "apis.csv"

	// DirectoryFile is the directory aggregation artifact name
	DirectoryFile = "directory.json"
)

// Limit constants define various limits and capacities
const (
	// MaxFixIterations caps the validate-fix loop. The fixer only loops while it
	// reports progress, but two rules re-triggering each other could otherwise
	// spin forever; exceeding the cap fails the document with a distinct
	// diagnostic.
	MaxFixIterations = 50

	// MaxResponseSize caps the size of a fetched source document (64 MiB)
	MaxResponseSize = 64 << 20
)

// Exit codes used by the CLI.
const (
	// DefaultErrorExitCode is the process exit status when any document in a
	// batch fails. Set --error-exit-code=0 to always exit successfully.
	DefaultErrorExitCode = 255
)

// CanonicalFormat is the dialect every source is converted into.
const CanonicalFormat = "swagger_2"

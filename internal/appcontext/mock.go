package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/specmap/specmap"
	"github.com/specmap/specmap/pkg/logging"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	CollectionFunc            func() (specmap.Collection, error)
	CollectionWithOptionsFunc func(...specmap.Option) (specmap.Collection, error)
	LoggerFunc                func() *zerolog.Logger
	OutputFormatFunc          func() string
	ErrorExitCodeFunc         func() int
	VersionFunc               func() string
	CommitFunc                func() string
	DateFunc                  func() string
	BuiltByFunc               func() string
}

// Collection returns a collection using the mock function or nil.
func (m *Mock) Collection() (specmap.Collection, error) {
	if m.CollectionFunc != nil {
		return m.CollectionFunc()
	}
	return nil, nil
}

// CollectionWithOptions returns a collection using the mock function or nil.
func (m *Mock) CollectionWithOptions(opts ...specmap.Option) (specmap.Collection, error) {
	if m.CollectionWithOptionsFunc != nil {
		return m.CollectionWithOptionsFunc(opts...)
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return &logging.Nop
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// ErrorExitCode returns the exit code using the mock function or zero.
func (m *Mock) ErrorExitCode() int {
	if m.ErrorExitCodeFunc != nil {
		return m.ErrorExitCodeFunc()
	}
	return 0
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)

// Package cmdutil provides small helpers shared by command packages.
package cmdutil

import "fmt"

// ExitError carries a specific process exit code through cobra's error
// return path. Batch commands use it with the configured error exit code
// when documents fail.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap implements errors.Unwrap.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// BatchExit converts a batch failure count into an ExitError carrying the
// configured code. A zero code or a clean batch returns nil, so
// --error-exit-code=0 forces a successful exit.
func BatchExit(code, failed int) error {
	if failed == 0 || code == 0 {
		return nil
	}
	return &ExitError{Code: code, Err: fmt.Errorf("%d document(s) failed", failed)}
}

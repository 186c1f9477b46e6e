// Package errors provides custom error types for the specmap system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
//
// The taxonomy follows the pipeline's failure policy: conversion and
// validation failures are scoped to a single document and reported without
// aborting the batch; patch-merge conflicts and metadata invariant
// violations indicate corrupted durable state and abort the whole batch.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the specmap system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrConversion indicates a source could not be converted to the canonical format
	ErrConversion = errors.New("conversion failed")

	// ErrValidation indicates a document failed validation after the fix loop
	ErrValidation = errors.New("validation failed")

	// ErrPatchConflict indicates a curated patch conflicts with source data
	ErrPatchConflict = errors.New("patch conflict")

	// ErrMissingMetadata indicates a required identity or provenance field is absent
	ErrMissingMetadata = errors.New("missing metadata")

	// ErrEditAborted indicates the user abandoned an external editor session
	ErrEditAborted = errors.New("edit aborted")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// ConversionError represents a failure to fetch, parse, or convert a source
// document. It is fatal for the affected document only.
type ConversionError struct {
	Source string // URL or file path of the source
	Format string // dialect name, if known
	Err    error
}

// Error implements the error interface
func (e *ConversionError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("converting %s from %s: %v", e.Source, e.Format, e.Err)
	}
	return fmt.Sprintf("converting %s: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// NewConversionError creates a new ConversionError
func NewConversionError(source, format string, err error) *ConversionError {
	return &ConversionError{Source: source, Format: format, Err: err}
}

// ValidationFailedError reports that a document still failed validation after
// the fix loop reached a fixed point (or the iteration cap). The individual
// error records travel on the write result; this type carries only enough to
// classify and log the failure.
type ValidationFailedError struct {
	Source     string // URL or identity path of the document
	ErrorCount int
	CapReached bool // the fix loop hit its safety iteration cap
}

// Error implements the error interface
func (e *ValidationFailedError) Error() string {
	if e.CapReached {
		return fmt.Sprintf("validation of %s did not converge: fix iteration cap reached with %d errors remaining", e.Source, e.ErrorCount)
	}
	return fmt.Sprintf("validation of %s failed with %d errors", e.Source, e.ErrorCount)
}

// Is implements errors.Is support
func (e *ValidationFailedError) Is(target error) bool {
	return target == ErrValidation
}

// ProtectedFieldError reports a curated patch that tries to delete a field.
// Deletion through the additive patch layer is forbidden; the patch file must
// be corrected by hand.
type ProtectedFieldError struct {
	Field string
}

// Error implements the error interface
func (e *ProtectedFieldError) Error() string {
	return fmt.Sprintf("patch tries to delete protected field %q", e.Field)
}

// Is implements errors.Is support
func (e *ProtectedFieldError) Is(target error) bool {
	return target == ErrPatchConflict
}

// OverwriteError reports a curated patch that collides with a value the
// source already provides. Patches may only add, never override: the source
// may have since added the same field, and silently clobbering it would hide
// fresher data.
type OverwriteError struct {
	Field string
	Path  string // dotted location of the collision, for diagnostics
}

// Error implements the error interface
func (e *OverwriteError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("patch tries to overwrite existing field %q at %s", e.Field, e.Path)
	}
	return fmt.Sprintf("patch tries to overwrite existing field %q", e.Field)
}

// Is implements errors.Is support
func (e *OverwriteError) Is(target error) bool {
	return target == ErrPatchConflict
}

// MetadataError reports a missing or malformed identity/provenance field on a
// canonical document. Post-conversion this should be impossible, so it is
// treated as an invariant violation rather than a user error.
type MetadataError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *MetadataError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("metadata field %q %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("metadata field %q is missing", e.Field)
}

// Is implements errors.Is support
func (e *MetadataError) Is(target error) bool {
	return target == ErrMissingMetadata
}

// NewMetadataError creates a MetadataError for an absent field
func NewMetadataError(field string) *MetadataError {
	return &MetadataError{Field: field}
}

// TypeError reports a tree node of the wrong kind handed to a structural
// operation (merge target that is not a mapping, index into a scalar, ...).
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

// Error implements the error interface
func (e *TypeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("expected %s at %s, got %s", e.Expected, e.Path, e.Actual)
	}
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

// FixupError reports a persisted fixup diff that no longer applies cleanly to
// the regenerated document. Fatal for the affected document only; the fixup
// must be re-recorded against the current source.
type FixupError struct {
	Path string // identity path of the document
	Err  error
}

// Error implements the error interface
func (e *FixupError) Error() string {
	return fmt.Sprintf("replaying fixup for %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *FixupError) Unwrap() error {
	return e.Err
}

// FetchError represents an HTTP failure while retrieving a remote resource
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "update", "delete", "fetch", "load"
	Resource  string // "collection", "spec", "index", "patch", "fixup"
	ID        string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %v", e.Operation, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Resource, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConversion checks if an error is a per-document conversion failure
func IsConversion(err error) bool {
	return errors.Is(err, ErrConversion)
}

// IsValidation checks if an error is a per-document validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsPatchConflict checks if an error is a patch-merge conflict.
// Patch conflicts abort the whole batch: they signal a curation
// inconsistency that must be corrected by hand.
func IsPatchConflict(err error) bool {
	return errors.Is(err, ErrPatchConflict)
}

// IsMissingMetadata checks if an error is a metadata invariant violation.
// Like patch conflicts, these abort the whole batch.
func IsMissingMetadata(err error) bool {
	return errors.Is(err, ErrMissingMetadata)
}

// IsEditAborted checks if an error came from an abandoned editor session
func IsEditAborted(err error) bool {
	return errors.Is(err, ErrEditAborted)
}

// Fatal reports whether an error must abort the whole batch rather than
// just the document that produced it.
func Fatal(err error) bool {
	return IsPatchConflict(err) || IsMissingMetadata(err)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

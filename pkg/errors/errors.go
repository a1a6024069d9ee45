// Package errors provides custom error types for the sunpy toolkit.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the library and CLI.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// As is an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the sunpy toolkit
var (
	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoMirror indicates that no data-provider mirror responded
	ErrNoMirror = errors.New("no reachable mirror")

	// ErrUnsupportedQuery indicates a query the provider cannot service
	ErrUnsupportedQuery = errors.New("unsupported query")

	// ErrProviderUnavailable indicates that a provider is temporarily unavailable
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// CollisionError reports an attempt to AND two attributes of a type that
// admits at most one value per conjunction.
type CollisionError struct {
	Kind string
}

// Error implements the error interface
func (e *CollisionError) Error() string {
	return fmt.Sprintf("conjunction already holds a %s attribute", e.Kind)
}

// Is implements errors.Is support
func (e *CollisionError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewCollisionError creates a new CollisionError
func NewCollisionError(kind string) *CollisionError {
	return &CollisionError{Kind: kind}
}

// DispatchError reports an attribute kind the walker has no handler for.
// Silently skipping an attribute would corrupt the query, so dispatch
// failures are always hard errors.
type DispatchError struct {
	Operation string // "apply" or "create"
	Kind      string
}

// Error implements the error interface
func (e *DispatchError) Error() string {
	return fmt.Sprintf("no %s handler registered for attribute kind %q", e.Operation, e.Kind)
}

// Is implements errors.Is support
func (e *DispatchError) Is(target error) bool {
	return target == ErrUnsupportedQuery
}

// NewDispatchError creates a new DispatchError
func NewDispatchError(operation, kind string) *DispatchError {
	return &DispatchError{Operation: operation, Kind: kind}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// RecordError reports a provider record that cannot be constructed because
// a required identity field (fileid, source, instrument, provider) is absent.
type RecordError struct {
	Field  string
	FileID string
}

// Error implements the error interface
func (e *RecordError) Error() string {
	if e.FileID != "" {
		return fmt.Sprintf("record %s is missing required field %s", e.FileID, e.Field)
	}
	return fmt.Sprintf("record is missing required field %s", e.Field)
}

// Is implements errors.Is support
func (e *RecordError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewRecordError creates a new RecordError
func NewRecordError(field, fileID string) *RecordError {
	return &RecordError{Field: field, FileID: fileID}
}

// APIError represents an error from a provider endpoint
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Provider, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode >= 500 {
		return target == ErrProviderUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(provider string, statusCode int, message string) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConnectionError reports that no candidate mirror for a provider accepted
// a connection. It is fatal at client construction; there is no degraded mode.
type ConnectionError struct {
	Provider string
	Mirrors  []string
	Err      error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	if len(e.Mirrors) > 0 {
		return fmt.Sprintf("no reachable %s mirror among %v", e.Provider, e.Mirrors)
	}
	return fmt.Sprintf("no reachable %s mirror", e.Provider)
}

// Unwrap implements errors.Unwrap
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConnectionError) Is(target error) bool {
	return target == ErrNoMirror
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(provider string, mirrors []string, err error) *ConnectionError {
	return &ConnectionError{Provider: provider, Mirrors: mirrors, Err: err}
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

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "xml", "yaml", "time", etc.
	Input   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%s parse error for %q: %s", e.Format, e.Input, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, input, message string, err error) *ParseError {
	return &ParseError{Format: format, Input: input, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "download"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{Operation: operation, Path: path, Message: message, Err: err}
}

// Helper functions for error checking

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNoMirror checks if an error indicates no reachable mirror
func IsNoMirror(err error) bool {
	return errors.Is(err, ErrNoMirror)
}

// IsUnsupportedQuery checks if an error indicates an unsupported query
func IsUnsupportedQuery(err error) bool {
	return errors.Is(err, ErrUnsupportedQuery)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsProviderUnavailable checks if an error indicates provider unavailability
func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, input string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, input, err.Error(), err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(provider string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

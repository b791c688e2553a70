package cierrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrLookup indicates a path expression did not resolve.
	ErrLookup = errors.New("lookup error")

	// ErrMalformedInclude indicates an include entry lacks a required field.
	ErrMalformedInclude = errors.New("malformed include")

	// ErrExtract indicates a resolved node is not a list of version strings.
	ErrExtract = errors.New("extract error")

	// ErrParse indicates a document could not be parsed.
	ErrParse = errors.New("parse error")

	// ErrFetch indicates a remote document or tag list could not be retrieved.
	ErrFetch = errors.New("fetch error")

	// ErrInsufficientMajors indicates fewer major lines exist than were requested.
	ErrInsufficientMajors = errors.New("insufficient major versions")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// LookupError represents a failure to resolve a path expression against a document.
type LookupError struct {
	// Path is the full path expression being resolved
	Path string
	// Step is the step that failed (empty when the expression itself is invalid)
	Step string
	// Message describes why the step failed
	Message string
}

// Error returns a human-readable error message.
func (e *LookupError) Error() string {
	msg := "lookup error"
	if e.Path != "" {
		msg += fmt.Sprintf(" in path %q", e.Path)
	}
	if e.Step != "" {
		msg += fmt.Sprintf(" at step %q", e.Step)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as LookupError has no underlying cause.
func (e *LookupError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}

// MalformedIncludeError represents an include entry missing project, file or ref.
type MalformedIncludeError struct {
	// Index is the position of the entry in the include sequence
	Index int
	// Missing lists the required fields that were absent or not strings
	Missing []string
}

// Error returns a human-readable error message.
func (e *MalformedIncludeError) Error() string {
	msg := fmt.Sprintf("malformed include[%d]", e.Index)
	if len(e.Missing) > 0 {
		msg += ": missing or non-string field(s): " + strings.Join(e.Missing, ", ")
	}
	return msg
}

// Unwrap returns nil as MalformedIncludeError has no underlying cause.
func (e *MalformedIncludeError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *MalformedIncludeError) Is(target error) bool {
	return target == ErrMalformedInclude
}

// ExtractError represents a resolved node that cannot be read as a version list.
type ExtractError struct {
	// Index is the offending element position, or -1 when the node itself is wrong
	Index int
	// Message describes the problem
	Message string
}

// Error returns a human-readable error message.
func (e *ExtractError) Error() string {
	msg := "extract error"
	if e.Index >= 0 {
		msg += fmt.Sprintf(" at element %d", e.Index)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ExtractError has no underlying cause.
func (e *ExtractError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ExtractError) Is(target error) bool {
	return target == ErrExtract
}

// ParseError represents a failure to parse a YAML document.
type ParseError struct {
	// Source identifies the document (file path, project/file@ref, ...)
	Source string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// FetchError represents a failed request to the remote document store.
type FetchError struct {
	// URL is the requested URL, if known
	URL string
	// StatusCode is the HTTP status code (0 if the request never completed)
	StatusCode int
	// Message provides additional context
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *FetchError) Error() string {
	msg := "fetch error"
	if e.URL != "" {
		msg += " for " + e.URL
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// InsufficientMajorsError is returned when a caller asks for the N latest
// major lines and fewer than N exist.
type InsufficientMajorsError struct {
	// Want is the number of major lines requested
	Want int
	// Got is the number of major lines available
	Got int
	// Majors holds the representatives that were available
	Majors []string
}

// Error returns a human-readable error message.
func (e *InsufficientMajorsError) Error() string {
	msg := fmt.Sprintf("insufficient major versions: want %d, got %d", e.Want, e.Got)
	if len(e.Majors) > 0 {
		msg += " (" + strings.Join(e.Majors, ", ") + ")"
	}
	return msg
}

// Unwrap returns nil as InsufficientMajorsError has no underlying cause.
func (e *InsufficientMajorsError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *InsufficientMajorsError) Is(target error) bool {
	return target == ErrInsufficientMajors
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// Package errors provides a lightweight structured error type (LinkerError)
// for category-based classification across configuration, rule compilation,
// template rendering, and repository access.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a linker error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig ErrorCategory = "config"
	CategoryRule   ErrorCategory = "rule"

	// Per-match rendering errors
	CategoryTemplate ErrorCategory = "template"

	// External system integration errors
	CategoryRepository ErrorCategory = "repository"

	// Runtime and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// LinkerError is a structured error with category, severity, and context
type LinkerError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for LinkerError
type ContextFields map[string]any

// Error implements the error interface
func (e *LinkerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *LinkerError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *LinkerError) WithContext(key string, value any) *LinkerError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new LinkerError
func New(category ErrorCategory, severity ErrorSeverity, message string) *LinkerError {
	return &LinkerError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new LinkerError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *LinkerError {
	return &LinkerError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var le *LinkerError
	if errors.As(err, &le) {
		return le.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if the error is not a LinkerError
func GetCategory(err error) ErrorCategory {
	var le *LinkerError
	if errors.As(err, &le) {
		return le.Category
	}
	return CategoryInternal
}

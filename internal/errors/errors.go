// Package errors provides the structured error type (NavError) used to
// classify fatal build failures and map them to CLI exit codes.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a docnav error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Docs tree shape and content errors
	CategoryTopology   ErrorCategory = "topology"
	CategoryVersion    ErrorCategory = "version"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Page generation errors
	CategoryGenerate ErrorCategory = "generate"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

// SeverityFatal stops the run. Every condition docnav reports aborts it.
const SeverityFatal ErrorSeverity = "fatal"

// Sentinel kinds, matched with errors.Is against any NavError carrying them.
var (
	ErrTopologyInconsistent = stdErrors.New("inconsistent site topology")
	ErrMissingRoot          = stdErrors.New("no sites to redirect to")
	ErrMalformedVersion     = stdErrors.New("malformed release version")
	ErrMissingRepositoryRef = stdErrors.New("missing repository reference")
	ErrNoRedirectTarget     = stdErrors.New("no redirect target")
)

// NavError is a structured error with category, severity and context
type NavError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Kind     error         `json:"-"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for NavError
type ContextFields map[string]any

// Error implements the error interface
func (e *NavError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *NavError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel kind of this error.
func (e *NavError) Is(target error) bool {
	return e.Kind != nil && e.Kind == target
}

// WithContext adds context information to the error
func (e *NavError) WithContext(key string, value any) *NavError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithKind tags the error with a sentinel kind.
func (e *NavError) WithKind(kind error) *NavError {
	e.Kind = kind
	return e
}

// New creates a new NavError
func New(category ErrorCategory, severity ErrorSeverity, message string) *NavError {
	return &NavError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new NavError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *NavError {
	return &NavError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the first NavError in err's chain.
func As(err error) (*NavError, bool) {
	var ne *NavError
	if stdErrors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if ne, ok := As(err); ok {
		return ne.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a NavError
func GetCategory(err error) ErrorCategory {
	if ne, ok := As(err); ok {
		return ne.Category
	}
	return CategoryInternal
}

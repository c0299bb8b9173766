package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// API errors, one per response classification (API-xxx mirrors the HTTP status class)
	ErrCodeNetwork      ErrorCode = "API-000"
	ErrCodeAuthExpired  ErrorCode = "API-401"
	ErrCodeForbidden    ErrorCode = "API-403"
	ErrCodeNotFound     ErrorCode = "API-404"
	ErrCodeValidation   ErrorCode = "API-422"
	ErrCodeServer       ErrorCode = "API-500"
	ErrCodeUnclassified ErrorCode = "API-999"

	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeNotLoggedIn    ErrorCode = "SESSION-001"
	ErrCodeSessionInvalid ErrorCode = "SESSION-002"
	ErrCodeSessionWrite   ErrorCode = "SESSION-003"

	// Input errors, raised before any request is sent (INPUT-001 to INPUT-099)
	ErrCodeMissingFields    ErrorCode = "INPUT-001"
	ErrCodePasswordMismatch ErrorCode = "INPUT-002"
	ErrCodePasswordTooShort ErrorCode = "INPUT-003"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigLoad    ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
	ErrCodeFileMarshal     ErrorCode = "IO-006"
)

// IsAPI reports whether the code belongs to the API-xxx family.
func (c ErrorCode) IsAPI() bool {
	return strings.HasPrefix(string(c), "API-")
}

// CodedError represents an enhanced error with code, suggestions, and documentation
type CodedError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *CodedError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *CodedError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the error's code. It lets loggers and exit-code mapping
// treat CodedError and other coded types uniformly.
func (e *CodedError) ErrorCode() ErrorCode {
	return e.Code
}

// Is matches any CodedError with the same code, so sentinel values built
// with New can be used with errors.Is.
func (e *CodedError) Is(target error) bool {
	t, ok := target.(*CodedError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Coded is implemented by errors that carry an ErrorCode.
type Coded interface {
	error
	ErrorCode() ErrorCode
}

// New creates a new CodedError
func New(code ErrorCode, message string) *CodedError {
	return &CodedError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new CodedError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *CodedError {
	return &CodedError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *CodedError) WithSuggestion(suggestion string) *CodedError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *CodedError) WithSuggestions(suggestions ...string) *CodedError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *CodedError) WithDocs(url string) *CodedError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewNotLoggedInError creates an error for commands that need a session
func NewNotLoggedInError() *CodedError {
	return New(ErrCodeNotLoggedIn, "not logged in").
		WithSuggestion("Run 'evolvedu auth login' to sign in").
		WithSuggestion("Run 'evolvedu auth signup' to create an account")
}

// NewSessionInvalidError creates an error for a session that cannot be stored
func NewSessionInvalidError(details string) *CodedError {
	return New(ErrCodeSessionInvalid, fmt.Sprintf("invalid session: %s", details))
}

// NewSessionWriteError creates an error for a failed write to session storage
func NewSessionWriteError(key string, cause error) *CodedError {
	return Wrap(ErrCodeSessionWrite, fmt.Sprintf("failed to persist session key %q", key), cause).
		WithSuggestion("Check permissions on the evolvedu data directory").
		WithSuggestion("Set EVOLVEDU_DATA_DIR to a writable location")
}

// NewInputError creates an error for input rejected before any request is sent
func NewInputError(code ErrorCode, message string) *CodedError {
	return New(code, message)
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(field string, details string) *CodedError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration for %s: %s", field, details)).
		WithSuggestion("Run 'evolvedu config view' to inspect the effective configuration").
		WithSuggestion("Check EVOLVEDU_* environment variables and your .env file")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *CodedError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *CodedError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}

package platform

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/evolvedu/internal/errors"
)

// APIError is returned for every failed gateway call.
type APIError struct {
	Code        errors.ErrorCode
	Status      int
	Method      string
	Path        string
	Messages    []string
	FieldErrors map[string][]string
	Body        []byte
	RequestID   string
	Cause       error
}

// Sentinels for errors.Is. They match any *APIError with the same code.
var (
	ErrAuthExpired  = &APIError{Code: errors.ErrCodeAuthExpired}
	ErrForbidden    = &APIError{Code: errors.ErrCodeForbidden}
	ErrNotFound     = &APIError{Code: errors.ErrCodeNotFound}
	ErrValidation   = &APIError{Code: errors.ErrCodeValidation}
	ErrServer       = &APIError{Code: errors.ErrCodeServer}
	ErrNetwork      = &APIError{Code: errors.ErrCodeNetwork}
	ErrUnclassified = &APIError{Code: errors.ErrCodeUnclassified}
)

// Error implements the error interface.
func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", e.Code)
	if e.Method != "" {
		fmt.Fprintf(&b, " %s %s", e.Method, e.Path)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if msg := e.Message(); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	} else if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Message returns the user-facing messages joined into one line.
func (e *APIError) Message() string {
	return strings.Join(e.Messages, "; ")
}

// Unwrap returns the transport error, if any.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// ErrorCode implements errors.Coded.
func (e *APIError) ErrorCode() errors.ErrorCode {
	return e.Code
}

// Is matches any coded error with the same code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(errors.Coded)
	if !ok {
		return false
	}
	return t.ErrorCode() == e.Code
}

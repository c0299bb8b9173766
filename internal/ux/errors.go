package ux

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/evolvedu/internal/errors"
	"github.com/felixgeelhaar/evolvedu/internal/platform"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// Suggestion returns a recovery hint for err, or "" when there is none.
func Suggestion(err error) string {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return ""
	}

	var ws *ErrorWithSuggestion
	if stderrors.As(err, &ws) {
		return ws.Suggestion
	}

	var apiErr *platform.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case errors.ErrCodeAuthExpired:
			return "Run 'evolvedu auth login' to sign in again"
		case errors.ErrCodeForbidden:
			return "Your account is not allowed to do this; check your role with 'evolvedu auth whoami'"
		case errors.ErrCodeNetwork:
			return "Check that the EvolvEd API is running and that EVOLVEDU_ORIGIN and EVOLVEDU_API_URL point to it"
		case errors.ErrCodeServer:
			return "The server failed to handle the request; try again in a moment"
		}
		return ""
	}

	var coded *errors.CodedError
	if stderrors.As(err, &coded) && len(coded.Suggestions) > 0 {
		return coded.Suggestions[0]
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "permission denied"):
		return "Check permissions on the evolvedu data directory or set EVOLVEDU_DATA_DIR"
	case strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no route to host"):
		return "Check your network connection and firewall settings"
	}
	return ""
}

// EnhanceError analyzes an error and adds contextual suggestions
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var coded *errors.CodedError
	if stderrors.As(err, &coded) && len(coded.Suggestions) > 0 {
		// Already carries its own suggestions
		return err
	}

	if s := Suggestion(err); s != "" {
		return NewErrorWithSuggestion(err, s)
	}
	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}

// Report writes err for the user. Gateway and input errors were already
// shown as notifications, so only their suggestion is printed. A cancelled
// command prints nothing.
func Report(w io.Writer, err error, noColor bool) {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return
	}

	errStyle := lipgloss.NewStyle()
	hintStyle := lipgloss.NewStyle()
	if !noColor {
		errStyle = errStyle.Foreground(lipgloss.Color("196")).Bold(true)
		hintStyle = hintStyle.Foreground(lipgloss.Color("245"))
	}

	if notified(err) {
		if s := Suggestion(err); s != "" {
			fmt.Fprintln(w, "💡 "+hintStyle.Render(s))
		}
		return
	}

	fmt.Fprintln(w, errStyle.Render("Error:")+" "+headline(err))

	var coded *errors.CodedError
	if stderrors.As(err, &coded) {
		for _, s := range coded.Suggestions {
			fmt.Fprintln(w, "  • "+hintStyle.Render(s))
		}
		return
	}
	if s := Suggestion(err); s != "" {
		fmt.Fprintln(w, "💡 "+hintStyle.Render(s))
	}
}

func notified(err error) bool {
	var apiErr *platform.APIError
	if stderrors.As(err, &apiErr) {
		return true
	}
	var coded *errors.CodedError
	return stderrors.As(err, &coded) && strings.HasPrefix(string(coded.Code), "INPUT-")
}

// headline is the error text without the suggestion block a CodedError
// appends to Error().
func headline(err error) string {
	var coded *errors.CodedError
	if stderrors.As(err, &coded) {
		msg := coded.Message
		if coded.Cause != nil {
			msg += ": " + coded.Cause.Error()
		}
		return msg
	}
	return err.Error()
}

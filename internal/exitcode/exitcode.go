package exitcode

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/evolvedu/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing fields, etc.)
	UsageError = 2

	// AuthError indicates an authentication or authorization failure
	AuthError = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// Interrupted indicates the command was cancelled, usually by Ctrl-C
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code.
// Coded errors are mapped by code; anything else falls back to the message.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if stderrors.Is(err, context.Canceled) {
		return Interrupted
	}

	var coded errors.Coded
	if stderrors.As(err, &coded) {
		return fromCode(coded.ErrorCode())
	}

	return fromMessage(strings.ToLower(err.Error()))
}

func fromCode(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeAuthExpired, errors.ErrCodeForbidden,
		errors.ErrCodeNotLoggedIn, errors.ErrCodeSessionInvalid:
		return AuthError
	case errors.ErrCodeNetwork:
		return NetworkError
	}

	s := string(code)
	if strings.HasPrefix(s, "INPUT-") || strings.HasPrefix(s, "CONFIG-") {
		return UsageError
	}
	return GeneralError
}

func fromMessage(errMsg string) int {
	// Authentication errors
	if strings.Contains(errMsg, "authentication") || strings.Contains(errMsg, "unauthorized") {
		return AuthError
	}
	if strings.Contains(errMsg, "not logged in") {
		return AuthError
	}

	// Network errors
	if strings.Contains(errMsg, "network") || strings.Contains(errMsg, "connection") {
		return NetworkError
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}

	// Usage errors, mostly from cobra
	usage := []string{
		"invalid flag", "unknown flag", "unknown shorthand flag", "unknown command",
		"required flag", "missing argument", "invalid argument", "accepts ",
	}
	for _, s := range usage {
		if strings.Contains(errMsg, s) {
			return UsageError
		}
	}

	// Default to general error
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags, arguments or input)"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}

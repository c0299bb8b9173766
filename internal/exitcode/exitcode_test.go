package exitcode

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/felixgeelhaar/evolvedu/internal/errors"
	"github.com/felixgeelhaar/evolvedu/internal/platform"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"AuthError", AuthError, 5},
		{"NetworkError", NetworkError, 6},
		{"Interrupted", Interrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode_Coded(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "expired session",
			err:      &platform.APIError{Code: errors.ErrCodeAuthExpired, Status: 401},
			expected: AuthError,
		},
		{
			name:     "forbidden",
			err:      &platform.APIError{Code: errors.ErrCodeForbidden, Status: 403},
			expected: AuthError,
		},
		{
			name:     "no response",
			err:      &platform.APIError{Code: errors.ErrCodeNetwork, Cause: stderrors.New("dial tcp: refused")},
			expected: NetworkError,
		},
		{
			name:     "cancelled request",
			err:      &platform.APIError{Code: errors.ErrCodeNetwork, Cause: context.Canceled},
			expected: Interrupted,
		},
		{
			name:     "server error",
			err:      &platform.APIError{Code: errors.ErrCodeServer, Status: 500},
			expected: GeneralError,
		},
		{
			name:     "validation failure",
			err:      &platform.APIError{Code: errors.ErrCodeValidation, Status: 422},
			expected: GeneralError,
		},
		{
			name:     "not logged in",
			err:      errors.NewNotLoggedInError(),
			expected: AuthError,
		},
		{
			name:     "missing fields",
			err:      errors.NewInputError(errors.ErrCodeMissingFields, "Please fill in all fields"),
			expected: UsageError,
		},
		{
			name:     "bad config",
			err:      errors.NewConfigInvalidError("api_url", "bad"),
			expected: UsageError,
		},
		{
			name:     "wrapped coded error",
			err:      fmt.Errorf("whoami: %w", &platform.APIError{Code: errors.ErrCodeAuthExpired}),
			expected: AuthError,
		},
		{
			name:     "code wins over message",
			err:      errors.New(errors.ErrCodeSessionWrite, "connection to disk lost"),
			expected: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := DetermineExitCode(tt.err)
			if code != tt.expected {
				t.Errorf("DetermineExitCode(%v) = %d, want %d", tt.err, code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode_Message(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			expected: Success,
		},
		{
			name:     "authentication error",
			err:      stderrors.New("authentication failed"),
			expected: AuthError,
		},
		{
			name:     "unauthorized error",
			err:      stderrors.New("unauthorized access"),
			expected: AuthError,
		},
		{
			name:     "network error",
			err:      stderrors.New("network error: connection timeout"),
			expected: NetworkError,
		},
		{
			name:     "connection error",
			err:      stderrors.New("connection refused"),
			expected: NetworkError,
		},
		{
			name:     "timeout error",
			err:      stderrors.New("request timeout"),
			expected: NetworkError,
		},
		{
			name:     "plain context cancel",
			err:      fmt.Errorf("prompt: %w", context.Canceled),
			expected: Interrupted,
		},
		{
			name:     "unknown command",
			err:      stderrors.New(`unknown command "foo" for "evolvedu"`),
			expected: UsageError,
		},
		{
			name:     "unknown flag",
			err:      stderrors.New("unknown flag: --bar"),
			expected: UsageError,
		},
		{
			name:     "required flag",
			err:      stderrors.New(`required flag(s) "email" not set`),
			expected: UsageError,
		},
		{
			name:     "arg count",
			err:      stderrors.New("accepts 0 arg(s), received 1"),
			expected: UsageError,
		},
		{
			name:     "generic error",
			err:      stderrors.New("something went wrong"),
			expected: GeneralError,
		},
		{
			name:     "uppercase UNAUTHORIZED",
			err:      stderrors.New("UNAUTHORIZED access"),
			expected: AuthError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := DetermineExitCode(tt.err)
			if code != tt.expected {
				t.Errorf("DetermineExitCode(%v) = %d, want %d", tt.err, code, tt.expected)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{UsageError, "Usage error (invalid flags, arguments or input)"},
		{AuthError, "Authentication error"},
		{NetworkError, "Network error"},
		{Interrupted, "Interrupted"},
		{99, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := GetExitCodeDescription(tt.code)
			if result != tt.expected {
				t.Errorf("GetExitCodeDescription(%d) = %s, want %s", tt.code, result, tt.expected)
			}
		})
	}
}

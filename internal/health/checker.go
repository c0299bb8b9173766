// Package health runs the diagnostics behind `evolvedu doctor`.
//
// Each Checker verifies one thing the client depends on: the API being
// reachable, the session storage being writable and the stored session
// still being usable. A Manager runs them in parallel and reports the
// results in registration order.
package health

import (
	"context"
	"time"
)

// Checker verifies one dependency.
type Checker interface {
	// Name is lowercase with hyphens, e.g. "api-reachable".
	Name() string

	// Check must respect the context deadline.
	Check(ctx context.Context) *Result
}

// Status is the outcome of a check.
type Status string

const (
	StatusHealthy Status = "healthy"

	// StatusDegraded means the client works but something needs attention,
	// e.g. an expired session.
	StatusDegraded Status = "degraded"

	StatusUnhealthy Status = "unhealthy"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Symbol returns the one-character marker used in text output.
func (s Status) Symbol() string {
	switch s {
	case StatusHealthy:
		return "✓"
	case StatusDegraded:
		return "!"
	default:
		return "✗"
	}
}

// Result is what a Checker reports.
type Result struct {
	Status  Status            `json:"status" yaml:"status"`
	Message string            `json:"message" yaml:"message"`
	Details map[string]string `json:"details,omitempty" yaml:"details,omitempty"`

	// Hint tells the user how to fix a non-healthy result.
	Hint    string        `json:"hint,omitempty" yaml:"hint,omitempty"`
	Latency time.Duration `json:"latency" yaml:"latency"`
}

// NewResult creates a result with the given status and message.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]string),
	}
}

// WithDetail adds a detail and returns the result for chaining.
func (r *Result) WithDetail(key, value string) *Result {
	r.Details[key] = value
	return r
}

// WithHint sets the fix-it hint.
func (r *Result) WithHint(hint string) *Result {
	r.Hint = hint
	return r
}

// WithLatency sets the latency and returns the result for chaining.
func (r *Result) WithLatency(latency time.Duration) *Result {
	r.Latency = latency
	return r
}

func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}

// Package notify shows short, transient messages to the user, the terminal
// counterpart of toast notifications.
package notify

import (
	"sync"
)

// Notifier shows user-facing messages. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// Kind is the severity of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Toast is one message shown to the user.
type Toast struct {
	Kind    Kind
	Message string
}

// Discard drops every message.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Success(string) {}
func (discard) Error(string) {}
func (discard) Info(string) {}

// Recorder keeps every message in order. It is used when output is
// collected instead of printed, e.g. for --format json.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Kind: kind, Message: message})
}

// Success records a success message.
func (r *Recorder) Success(message string) { r.add(KindSuccess, message) }

// Error records an error message.
func (r *Recorder) Error(message string) { r.add(KindError, message) }

// Info records an informational message.
func (r *Recorder) Info(message string) { r.add(KindInfo, message) }

// Toasts returns a copy of the recorded messages.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}

// Messages returns the recorded messages of the given kind.
func (r *Recorder) Messages(kind Kind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, t := range r.toasts {
		if t.Kind == kind {
			out = append(out, t.Message)
		}
	}
	return out
}

// Reset forgets all recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = nil
}

var (
	_ Notifier = discard{}
	_ Notifier = (*Recorder)(nil)
	_ Notifier = (*Toaster)(nil)
)

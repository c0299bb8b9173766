package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles for each toast kind.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

// DefaultStyles returns the colored toast styles.
func DefaultStyles() Styles {
	return Styles{
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")), // Cyan
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	return Styles{
		Success: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Info:    lipgloss.NewStyle(),
	}
}

// Toaster prints one line per message, prefixed with an icon.
type Toaster struct {
	mu     sync.Mutex
	out    io.Writer
	styles Styles
	quiet  bool
}

// ToasterOption configures a Toaster.
type ToasterOption func(*Toaster)

// WithWriter sets the destination. Defaults to stderr.
func WithWriter(w io.Writer) ToasterOption {
	return func(t *Toaster) {
		t.out = w
	}
}

// WithNoColor disables styling.
func WithNoColor(noColor bool) ToasterOption {
	return func(t *Toaster) {
		if noColor {
			t.styles = PlainStyles()
		}
	}
}

// WithQuiet suppresses success and info messages. Errors are always shown.
func WithQuiet(quiet bool) ToasterOption {
	return func(t *Toaster) {
		t.quiet = quiet
	}
}

// NewToaster creates a Toaster.
func NewToaster(opts ...ToasterOption) *Toaster {
	t := &Toaster{
		out:    os.Stderr,
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Success prints a success toast.
func (t *Toaster) Success(message string) {
	if t.quiet {
		return
	}
	t.print(t.styles.Success, "✓", message)
}

// Error prints an error toast.
func (t *Toaster) Error(message string) {
	t.print(t.styles.Error, "✗", message)
}

// Info prints an informational toast.
func (t *Toaster) Info(message string) {
	if t.quiet {
		return
	}
	t.print(t.styles.Info, "ℹ", message)
}

func (t *Toaster) print(style lipgloss.Style, icon, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, style.Render(icon+" "+message))
}

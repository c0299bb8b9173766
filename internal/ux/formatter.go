package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Formatter defines the interface for output formatters.
// This enables consistent output formatting across all commands.
type Formatter interface {
	// Format writes the given data to the output writer
	Format(data any) error
}

// FormatterOptions contains configuration for formatters
type FormatterOptions struct {
	// Writer is where output is written (defaults to os.Stdout)
	Writer io.Writer
	// NoColor disables colored output for text formatters
	NoColor bool
	// Compact enables compact output (no indentation for JSON/YAML)
	Compact bool
}

// Formats lists the accepted values of --format.
var Formats = []string{"text", "json", "yaml"}

// NewFormatter creates a formatter based on the format string
func NewFormatter(format string, opts *FormatterOptions) (Formatter, error) {
	if opts == nil {
		opts = &FormatterOptions{Writer: os.Stdout}
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch format {
	case "json":
		return &JSONFormatter{opts: opts}, nil
	case "yaml":
		return &YAMLFormatter{opts: opts}, nil
	case "text", "":
		return &TextFormatter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	opts *FormatterOptions
}

// Format writes data as JSON
func (f *JSONFormatter) Format(data any) error {
	encoder := json.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	opts *FormatterOptions
}

// Format writes data as YAML
func (f *YAMLFormatter) Format(data any) error {
	encoder := yaml.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent(2)
	}
	defer encoder.Close()
	return encoder.Encode(data)
}

// Field is one labelled line of text output.
type Field struct {
	Label string
	Value string
}

// Panel is a titled list of fields. Text output draws it in a box.
type Panel struct {
	Title  string
	Fields []Field
}

// Add appends a field and returns the panel. Empty values are skipped.
func (p *Panel) Add(label, value string) *Panel {
	if value != "" {
		p.Fields = append(p.Fields, Field{Label: label, Value: value})
	}
	return p
}

// Texter is implemented by values with their own text rendering.
type Texter interface {
	Text() Panel
}

// TextFormatter formats output as human-readable text
type TextFormatter struct {
	opts *FormatterOptions
}

// Format writes data as formatted text. It accepts strings, Panels, Texters
// and fmt.Stringers.
func (f *TextFormatter) Format(data any) error {
	switch v := data.(type) {
	case string:
		_, err := fmt.Fprintln(f.opts.Writer, v)
		return err
	case Panel:
		return f.panel(v)
	case *Panel:
		return f.panel(*v)
	case Texter:
		return f.panel(v.Text())
	case fmt.Stringer:
		_, err := fmt.Fprintln(f.opts.Writer, v.String())
		return err
	default:
		return fmt.Errorf("text formatter cannot render %T; use --format json or yaml", data)
	}
}

func (f *TextFormatter) panel(p Panel) error {
	width := 0
	for _, field := range p.Fields {
		width = max(width, lipgloss.Width(field.Label))
	}

	labelStyle := lipgloss.NewStyle().Width(width + 2)
	titleStyle := lipgloss.NewStyle()
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if !f.opts.NoColor {
		labelStyle = labelStyle.Foreground(lipgloss.Color("245"))
		titleStyle = titleStyle.Bold(true).Foreground(lipgloss.Color("86"))
		boxStyle = boxStyle.BorderForeground(lipgloss.Color("240"))
	}

	lines := make([]string, 0, len(p.Fields)+2)
	if p.Title != "" {
		lines = append(lines, titleStyle.Render(p.Title), "")
	}
	for _, field := range p.Fields {
		lines = append(lines, labelStyle.Render(field.Label+":")+field.Value)
	}

	body := strings.Join(lines, "\n")
	if f.opts.NoColor {
		_, err := fmt.Fprintln(f.opts.Writer, body)
		return err
	}
	_, err := fmt.Fprintln(f.opts.Writer, boxStyle.Render(body))
	return err
}

// Compile-time verification that formatters implement Formatter
var _ Formatter = (*JSONFormatter)(nil)
var _ Formatter = (*YAMLFormatter)(nil)
var _ Formatter = (*TextFormatter)(nil)

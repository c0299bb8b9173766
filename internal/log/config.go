package log

import (
	"io"
	"os"
)

// Format represents the output format for logs
type Format int

const (
	// FormatJSON outputs logs in JSON format
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format
	FormatText
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	default:
		return "json"
	}
}

// ParseFormat parses a string into a Format
func ParseFormat(s string) Format {
	switch s {
	case "text", "TEXT", "console":
		return FormatText
	default:
		return FormatJSON
	}
}

// Output represents where logs should be written
type Output struct {
	writer io.Writer
}

// Writer returns the underlying io.Writer
func (o Output) Writer() io.Writer {
	if o.writer == nil {
		return os.Stderr
	}
	return o.writer
}

// NewOutput creates an Output from an io.Writer
func NewOutput(w io.Writer) Output {
	return Output{writer: w}
}

// OutputStderr creates an Output that writes to stderr
func OutputStderr() Output {
	return Output{writer: os.Stderr}
}

// Config holds configuration for the logger
type Config struct {
	// Level is the minimum log level to output
	Level Level

	// Format is the output format (JSON or Text)
	Format Format

	// Output is where logs should be written. Defaults to stderr so that
	// command output on stdout stays machine readable.
	Output Output

	// AddSource includes source file and line number in logs
	AddSource bool

	// ServiceName is attached to every entry as "service"
	ServiceName string

	// ServiceVersion is the version of the client
	ServiceVersion string
}

// DefaultConfig returns the CLI default: warnings and errors only, as text on stderr.
// Gateway failures log at error level, so they stay visible without
// cluttering successful runs.
func DefaultConfig() Config {
	return Config{
		Level:          LevelWarn,
		Format:         FormatText,
		Output:         OutputStderr(),
		AddSource:      false,
		ServiceName:    "evolvedu",
		ServiceVersion: "dev",
	}
}

// FromSettings builds a Config from the string settings found in
// configuration files, environment variables and flags.
func FromSettings(level, format, version string, w io.Writer) Config {
	cfg := DefaultConfig()
	if level != "" {
		cfg.Level = ParseLevel(level)
	}
	if format != "" {
		cfg.Format = ParseFormat(format)
	}
	if version != "" {
		cfg.ServiceVersion = version
	}
	if w != nil {
		cfg.Output = NewOutput(w)
	}
	cfg.AddSource = cfg.Level == LevelDebug
	return cfg
}

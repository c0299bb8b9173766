package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// CommandContext holds the global command-line flags.
type CommandContext struct {
	// Output control
	Quiet   bool
	Format  string
	NoColor bool

	// Configuration
	APIURL     string
	ConfigPath string
	LogLevel   string
}

// NewCommandContext extracts command context from cobra.Command flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return nil, err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	apiURL, err := cmd.Flags().GetString("api-url")
	if err != nil {
		return nil, err
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// The level flag only overrides configuration when given explicitly.
	var logLevel string
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		logLevel = strings.ToLower(f.Value.String())
	}

	return &CommandContext{
		Quiet:      quiet,
		Format:     format,
		NoColor:    noColor,
		APIURL:     apiURL,
		ConfigPath: configPath,
		LogLevel:   logLevel,
	}, nil
}

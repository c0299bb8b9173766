package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/evolvedu/internal/storage"
	"github.com/felixgeelhaar/evolvedu/internal/ux"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration evolvedu runs with.

Values come from, lowest to highest precedence: built-in defaults, the config
file, a .env file in the working directory, EVOLVEDU_* environment variables
and command-line flags.

Examples:
  # View the effective configuration
  evolvedu config view --format yaml

  # Show where the config file and session storage live
  evolvedu config path`,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "view",
			Short: "Display the effective configuration",
			Args:  cobra.NoArgs,
			RunE:  runConfigView,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the config file and session storage paths",
			Args:  cobra.NoArgs,
			RunE:  runConfigPath,
		},
	)
	return configCmd
}

func runConfigView(cmd *cobra.Command, _ []string) error {
	r, err := mustRuntime(cmd)
	if err != nil {
		return err
	}

	cfg := r.cfg
	baseURL, err := cfg.BaseURL()
	if err != nil {
		return err
	}

	p := ux.Panel{Title: "Configuration"}
	p.Add("API URL", baseURL).
		Add("HTTP timeout", cfg.HTTPTimeout.String()).
		Add("Data dir", cfg.DataDir).
		Add("Log level", cfg.Log.Level).
		Add("Log format", cfg.Log.Format)
	if cfg.NoColor {
		p.Add("No color", "true")
	}
	return r.render(cfg, p)
}

// Paths lists where evolvedu keeps its files.
type Paths struct {
	Config  string `json:"config" yaml:"config"`
	Storage string `json:"storage" yaml:"storage"`
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	r, err := mustRuntime(cmd)
	if err != nil {
		return err
	}

	baseURL, err := r.cfg.BaseURL()
	if err != nil {
		return err
	}
	root, err := r.cfg.StorageRoot()
	if err != nil {
		return err
	}
	kv, err := storage.OpenOrigin(root, baseURL)
	if err != nil {
		return err
	}

	paths := Paths{Config: r.configPath, Storage: kv.Dir()}
	p := ux.Panel{}
	p.Add("Config", paths.Config).Add("Session", paths.Storage)
	return r.render(paths, p)
}

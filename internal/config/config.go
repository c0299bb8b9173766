// Package config loads the evolvedu client configuration.
//
// Values come from, in increasing precedence: built-in defaults, the YAML
// file at Path(), a .env file in the working directory, EVOLVEDU_*
// environment variables and finally command-line flags (applied by the
// caller through Overrides).
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/evolvedu/internal/errors"
	"github.com/felixgeelhaar/evolvedu/internal/platform"
)

const (
	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "EVOLVEDU_"

	appDir   = "evolvedu"
	fileName = "config.yaml"

	maxHTTPTimeout = 5 * time.Minute
)

// Config is the effective client configuration.
type Config struct {
	// APIURL is the API base. A relative value is resolved against Origin.
	APIURL string `env:"API_URL" envDefault:"/api/" yaml:"api_url" json:"api_url"`

	// Origin is the site the API is served from.
	Origin string `env:"ORIGIN" envDefault:"http://localhost:8000" yaml:"origin" json:"origin"`

	// HTTPTimeout bounds every request.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s" yaml:"http_timeout" json:"http_timeout"`

	// DataDir holds the per-origin session storage. Empty means the
	// user config directory.
	DataDir string `env:"DATA_DIR" yaml:"data_dir" json:"data_dir"`

	Log LogConfig `envPrefix:"LOG_" yaml:"log" json:"log"`

	// NoColor disables styled output.
	NoColor bool `env:"NO_COLOR" envDefault:"false" yaml:"no_color" json:"no_color"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"warn" yaml:"level" json:"level"`
	Format string `env:"FORMAT" envDefault:"text" yaml:"format" json:"format"`
}

// Overrides carries values set on the command line. Empty fields are ignored.
type Overrides struct {
	APIURL   string
	LogLevel string
	NoColor  bool
}

// Path returns the location of the configuration file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Load builds the configuration from the file at path, the .env file and the
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !stderrors.As(err, &pathErr) {
			return nil, errors.Wrap(errors.ErrCodeConfigLoad, "failed to load .env file", err)
		}
	}

	var fromEnv Config
	if err := env.ParseWithOptions(&fromEnv, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigLoad, "failed to parse environment", err)
	}

	cfg := fromEnv
	if path != "" {
		fromFile, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if fromFile != nil {
			cfg = merge(fromEnv, *fromFile)
		}
	}

	cfg.Sanitize()
	return &cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is the user's own config file
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read config file: %s", path), err)
	}

	var fc Config
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "YAML", err)
	}
	return &fc, nil
}

// merge applies file values to every field whose environment variable is
// unset or empty. fromEnv already carries defaults for those.
func merge(fromEnv, fromFile Config) Config {
	out := fromEnv
	pick := func(name string, set func()) {
		if os.Getenv(EnvPrefix+name) == "" {
			set()
		}
	}

	if fromFile.APIURL != "" {
		pick("API_URL", func() { out.APIURL = fromFile.APIURL })
	}
	if fromFile.Origin != "" {
		pick("ORIGIN", func() { out.Origin = fromFile.Origin })
	}
	if fromFile.HTTPTimeout != 0 {
		pick("HTTP_TIMEOUT", func() { out.HTTPTimeout = fromFile.HTTPTimeout })
	}
	if fromFile.DataDir != "" {
		pick("DATA_DIR", func() { out.DataDir = fromFile.DataDir })
	}
	if fromFile.Log.Level != "" {
		pick("LOG_LEVEL", func() { out.Log.Level = fromFile.Log.Level })
	}
	if fromFile.Log.Format != "" {
		pick("LOG_FORMAT", func() { out.Log.Format = fromFile.Log.Format })
	}
	if fromFile.NoColor {
		pick("NO_COLOR", func() { out.NoColor = true })
	}
	return out
}

// Apply layers command-line overrides on top of c.
func (c *Config) Apply(o Overrides) {
	if o.APIURL != "" {
		c.APIURL = o.APIURL
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.NoColor {
		c.NoColor = true
	}
	c.Sanitize()
}

// Sanitize applies guardrails to loaded values.
func (c *Config) Sanitize() {
	c.APIURL = strings.TrimSpace(c.APIURL)
	c.Origin = strings.TrimRight(strings.TrimSpace(c.Origin), "/")
	c.DataDir = strings.TrimSpace(c.DataDir)

	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = platform.DefaultTimeout
	}
	if c.HTTPTimeout > maxHTTPTimeout {
		c.HTTPTimeout = maxHTTPTimeout
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Log.Level = "warn"
	}

	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format != "json" {
		c.Log.Format = "text"
	}
}

// BaseURL resolves the API base URL.
func (c *Config) BaseURL() (string, error) {
	u, err := platform.ResolveBaseURL(c.Origin, c.APIURL)
	if err != nil {
		return "", errors.NewConfigInvalidError("api_url", err.Error())
	}
	return u, nil
}

// StorageRoot returns the directory holding per-origin session storage.
func (c *Config) StorageRoot() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to locate user config dir", err).
			WithSuggestion("Set EVOLVEDU_DATA_DIR to a writable directory")
	}
	return filepath.Join(dir, appDir, "storage"), nil
}

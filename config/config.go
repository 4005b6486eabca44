// Package config loads the settings of the budget command line.
//
// Settings are layered: built-in defaults, then the YAML file, then a .env
// file, then the process environment. Command line flags are applied last by
// the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/budget"
	"github.com/etnz/budget/api"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvAPIURL    = "BUDGET_API_URL"
	EnvTokenFile = "BUDGET_TOKEN_FILE"
	EnvTimeout   = "BUDGET_TIMEOUT"
	EnvCurrency  = "BUDGET_CURRENCY"
	EnvLogLevel  = "BUDGET_LOG_LEVEL"
)

// DefaultTimeout bounds every API call.
const DefaultTimeout = 30 * time.Second

// Config holds the settings of the command line.
type Config struct {
	API struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`

	// TokenFile is where the session token is persisted.
	TokenFile string `yaml:"token_file"`

	// Currency, when set, overrides the server preference for display.
	Currency budget.Currency `yaml:"currency"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{}
	cfg.API.URL = api.DefaultBaseURL
	cfg.API.Timeout = DefaultTimeout
	cfg.TokenFile = api.DefaultTokenPath()
	cfg.Logging.Level = "info"
	return cfg
}

// DefaultPath is the YAML file read when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "budget", "config.yaml")
}

// Load reads the settings from the YAML file and the .env file, then the environment.
// A missing file is not an error, so that both can be left out.
//
// Load does not validate the result: callers apply their own overrides, then call Validate.
func Load(file, envFile string) (*Config, error) {
	cfg := Default()
	if file != "" {
		data, err := os.ReadFile(file)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("cannot read config %q: %w", file, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cannot parse config %q: %w", file, err)
			}
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		var err error
		dotenv, err = godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot read %q: %w", envFile, err)
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.override(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

// override applies the environment variables found by lookup.
func (c *Config) override(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIURL); ok {
		c.API.URL = v
	}
	if v, ok := lookup(EnvTokenFile); ok {
		c.TokenFile = v
	}
	if v, ok := lookup(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.API.Timeout = d
	}
	if v, ok := lookup(EnvCurrency); ok {
		c.Currency = budget.Currency(strings.ToUpper(strings.TrimSpace(v)))
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q", c.API.URL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.API.Timeout)
	}
	if c.TokenFile == "" {
		return errors.New("token file is required")
	}
	if c.Currency != "" && !c.Currency.IsSupported() {
		return fmt.Errorf("unsupported currency %q", c.Currency)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured logging level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return level, fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	return level, nil
}

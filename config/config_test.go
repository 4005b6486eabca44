package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/budget"
	"github.com/etnz/budget/api"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.API.URL != api.DefaultBaseURL || cfg.API.Timeout != DefaultTimeout {
		t.Errorf("got %+v, want the defaults", cfg.API)
	}
}

func TestLoadLayers(t *testing.T) {
	file := write(t, "config.yaml", `
api:
  url: http://budget.local:9000/api
  timeout: 5s
currency: EUR
logging:
  level: warn
`)
	env := write(t, ".env", "BUDGET_TOKEN_FILE=/tmp/from-dotenv\nBUDGET_TIMEOUT=7s\n")
	t.Setenv(EnvTimeout, "9s")

	cfg, err := Load(file, env)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.API.URL != "http://budget.local:9000/api" {
		t.Errorf("URL = %q, want the file value", cfg.API.URL)
	}
	if cfg.TokenFile != "/tmp/from-dotenv" {
		t.Errorf("TokenFile = %q, want the .env value", cfg.TokenFile)
	}
	if cfg.API.Timeout != 9*time.Second {
		t.Errorf("Timeout = %v, want the environment to win over .env", cfg.API.Timeout)
	}
	if cfg.Currency != budget.EUR {
		t.Errorf("Currency = %q, want EUR", cfg.Currency)
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelWarn {
		t.Errorf("LogLevel() = %v, want WARN", level)
	}
}

func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "timeout", env: map[string]string{EnvTimeout: "soon"}},
		{name: "yaml", yaml: "api: [\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(write(t, "config.yaml", tc.yaml), ""); err == nil {
				t.Errorf("Load() expected an error")
			}
		})
	}
}

func TestLoadDoesNotValidate(t *testing.T) {
	t.Setenv(EnvAPIURL, "not a url")
	cfg, err := Load(write(t, "config.yaml", "logging:\n  level: loud\n"), "")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.API.URL != "not a url" {
		t.Errorf("URL = %q, want the environment value", cfg.API.URL)
	}
	if err := cfg.Validate(); err == nil {
		t.Errorf("Validate() expected an error")
	}

	cfg.API.URL = "http://localhost:8000/api"
	cfg.Logging.Level = "debug"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after the overrides unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		change  func(*Config)
		wantErr bool
	}{
		{name: "defaults", change: func(*Config) {}},
		{name: "https", change: func(c *Config) { c.API.URL = "https://budget.example.com/api" }},
		{name: "url without scheme", change: func(c *Config) { c.API.URL = "localhost" }, wantErr: true},
		{name: "url without host", change: func(c *Config) { c.API.URL = "http:///api" }, wantErr: true},
		{name: "zero timeout", change: func(c *Config) { c.API.Timeout = 0 }, wantErr: true},
		{name: "no token file", change: func(c *Config) { c.TokenFile = "" }, wantErr: true},
		{name: "currency", change: func(c *Config) { c.Currency = "JPY" }, wantErr: true},
		{name: "level", change: func(c *Config) { c.Logging.Level = "loud" }, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.change(cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

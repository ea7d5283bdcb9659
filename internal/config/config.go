// Package config resolves runtime settings: built-in defaults, then an
// optional YAML file, then SAAD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/saad/internal/llm"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the saad binary reads at startup.
type Config struct {
	// DBPath is the SQLite database file (default ~/.saad/saad.db).
	DBPath string `yaml:"db_path"`

	// HTTPAddr is the listen address for `saad serve` (default ":8080").
	HTTPAddr string `yaml:"http_addr"`

	// LogLevel is one of debug, info, warn, error (default "warn").
	LogLevel string `yaml:"log_level"`

	LLM llm.LLMConfig `yaml:"llm"`
}

// Default returns the configuration used when no file or env var is set.
// home may be empty, in which case the database lands in the working
// directory.
func Default(home string) Config {
	return Config{
		DBPath:   filepath.Join(home, ".saad", "saad.db"),
		HTTPAddr: ":8080",
		LogLevel: "warn",
		LLM:      llm.DefaultConfig(),
	}
}

// Path returns the config file location: $SAAD_CONFIG or ~/.saad/config.yaml.
func Path(home string) string {
	if p := os.Getenv("SAAD_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(home, ".saad", "config.yaml")
}

// Load resolves the full configuration. A missing config file is not an
// error; a malformed one is.
func Load() (Config, error) {
	home, _ := os.UserHomeDir()
	cfg := Default(home)

	if err := cfg.mergeFile(Path(home)); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	// Unmarshalling into the populated struct keeps defaults for absent keys.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SAAD_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("SAAD_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("SAAD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	llm.ApplyEnv(&c.LLM)
}

// ParseLevel maps a config log level to slog.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", s)
	}
}

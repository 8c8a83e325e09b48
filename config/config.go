// Package config loads the fsmlint configuration from a YAML file. All
// settings have working defaults; a missing config file is not an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Parser ParserConfig `yaml:"parser"`
	Log    LogConfig    `yaml:"log"`
}

// StoreConfig selects and locates the document store backend.
type StoreConfig struct {
	// Backend is "file" or "sqlite".
	Backend string `yaml:"backend"`
	// Path is the document file path (file backend) or the database DSN
	// (sqlite backend).
	Path string `yaml:"path"`
}

// ParserConfig tunes DSL parsing behavior.
type ParserConfig struct {
	// Redeclare is "overwrite" or "merge". Overwrite replicates the
	// historical behavior: redeclaring a state in STATE_LIST resets its
	// transitions.
	Redeclare string `yaml:"redeclare"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Backend: "file", Path: "state_machine.json"},
		Parser: ParserConfig{Redeclare: "overwrite"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML configuration file, applies defaults for unset fields,
// and validates the result. An empty path or missing file yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = def.Store.Backend
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = def.Store.Path
	}
	if cfg.Parser.Redeclare == "" {
		cfg.Parser.Redeclare = def.Parser.Redeclare
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}

func validate(cfg *Config) error {
	switch cfg.Store.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown store backend %q (use file or sqlite)", cfg.Store.Backend)
	}
	switch cfg.Parser.Redeclare {
	case "overwrite", "merge":
	default:
		return fmt.Errorf("unknown redeclare policy %q (use overwrite or merge)", cfg.Parser.Redeclare)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (use text or json)", cfg.Log.Format)
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fsmlint/go-fsmlint/config"
	"github.com/fsmlint/go-fsmlint/dsl"
	"github.com/fsmlint/go-fsmlint/store"
)

// setup loads configuration and installs the default logger.
func setup(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(newLogger(cfg.Log, os.Stderr))
	return cfg, nil
}

// newLogger builds a leveled slog.Logger from the log configuration.
func newLogger(cfg config.LogConfig, out io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// openStore builds the configured document store backend.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		return store.NewSQLiteStore(cfg.Store.Path)
	case "file":
		return store.NewFileStore(cfg.Store.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// redeclarePolicy maps the config value onto the parser option.
func redeclarePolicy(cfg *config.Config) dsl.RedeclarePolicy {
	if cfg.Parser.Redeclare == "merge" {
		return dsl.RedeclareMerge
	}
	return dsl.RedeclareOverwrite
}

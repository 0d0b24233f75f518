// Package config handles loading the todo config.toml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables that override file locations.
const (
	EnvConfig = "TODO_CONFIG"
	EnvFile   = "TODO_FILE"
)

const defaultAutosave = 30 * time.Second

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config represents the config.toml file.
type Config struct {
	// DataFile is the store file. Empty means the default location.
	DataFile string `toml:"data-file"`

	// PerProject keeps a separate store per git repository.
	PerProject bool `toml:"per-project"`

	// AutosaveInterval is how often the shell saves unsaved changes.
	AutosaveInterval Duration `toml:"autosave-interval"`

	// DefaultSort is the list sort key when --sort is not given.
	DefaultSort string `toml:"default-sort"`

	// ShowCompleted controls whether list includes crossed tasks by default.
	ShowCompleted bool `toml:"show-completed"`

	// Color enables terminal colors when stdout is a terminal.
	Color bool `toml:"color"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log-level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		AutosaveInterval: Duration{defaultAutosave},
		DefaultSort:      "date",
		ShowCompleted:    true,
		Color:            true,
		LogLevel:         "warn",
	}
}

// Path returns the config file location: $TODO_CONFIG, else
// ~/.config/todo/config.toml.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "todo", "config.toml"), nil
}

// Load reads the config file at path over the defaults. A missing file
// yields the defaults. $TODO_FILE overrides data-file.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	default:
		var fileCfg Config
		meta, err := toml.Decode(string(data), &fileCfg)
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse config file %s: unknown key %q", path, undecoded[0].String())
		}
		merge(cfg, &fileCfg, meta)
	}

	if f := strings.TrimSpace(os.Getenv(EnvFile)); f != "" {
		cfg.DataFile = f
	}
	return cfg, nil
}

// merge copies only the keys the file defines, so an explicit false or
// empty value still overrides a default.
func merge(dst, src *Config, meta toml.MetaData) {
	if meta.IsDefined("data-file") {
		dst.DataFile = strings.TrimSpace(src.DataFile)
	}
	if meta.IsDefined("per-project") {
		dst.PerProject = src.PerProject
	}
	if meta.IsDefined("autosave-interval") {
		dst.AutosaveInterval = src.AutosaveInterval
	}
	if meta.IsDefined("default-sort") {
		dst.DefaultSort = strings.TrimSpace(src.DefaultSort)
	}
	if meta.IsDefined("show-completed") {
		dst.ShowCompleted = src.ShowCompleted
	}
	if meta.IsDefined("color") {
		dst.Color = src.Color
	}
	if meta.IsDefined("log-level") {
		dst.LogLevel = strings.TrimSpace(src.LogLevel)
	}
}

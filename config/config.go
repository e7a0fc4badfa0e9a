package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Dir returns the rune configuration directory.
// Respects XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "rune")
}

// InitFile returns the path to init.lua
func InitFile() string {
	return filepath.Join(Dir(), "init.lua")
}

// File returns the path to rune.yaml
func File() string {
	return filepath.Join(Dir(), "rune.yaml")
}

// LogFile returns the default log file path.
func LogFile() string {
	return filepath.Join(Dir(), "rune.log")
}

// Config is the contents of rune.yaml.
type Config struct {
	History HistoryConfig `yaml:"history"`
	Capture CaptureConfig `yaml:"capture"`
	Logging LoggingConfig `yaml:"logging"`
}

// HistoryConfig bounds the extended history store.
type HistoryConfig struct {
	MaxEntries       int `yaml:"max_entries"`
	MaxItemsPerEntry int `yaml:"max_items_per_entry"`
}

// CaptureConfig controls the last-output variable.
type CaptureConfig struct {
	Variable          string   `yaml:"variable"`
	MaxItems          int      `yaml:"max_items"`
	CaptureValueTypes bool     `yaml:"capture_value_types"`
	CaptureNull       bool     `yaml:"capture_null"`
	ExcludedTypes     []string `yaml:"excluded_types"`
	WrapperPrefixes   []string `yaml:"wrapper_prefixes"`
}

// LoggingConfig selects the zap level and output file.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		History: HistoryConfig{
			MaxEntries:       200,
			MaxItemsPerEntry: 1000,
		},
		Capture: CaptureConfig{
			Variable:        "__",
			MaxItems:        1000,
			ExcludedTypes:   []string{"lua.function"},
			WrapperPrefixes: []string{"Deserialized.", "Selected."},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config at path over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the history store cannot work with.
func (c *Config) Validate() error {
	if c.History.MaxEntries < 1 {
		return fmt.Errorf("history.max_entries must be at least 1, got %d", c.History.MaxEntries)
	}
	if c.History.MaxItemsPerEntry < 0 {
		return fmt.Errorf("history.max_items_per_entry must not be negative, got %d", c.History.MaxItemsPerEntry)
	}
	if c.Capture.MaxItems < 0 {
		return fmt.Errorf("capture.max_items must not be negative, got %d", c.Capture.MaxItems)
	}
	if c.Capture.Variable == "" {
		return errors.New("capture.variable must not be empty")
	}
	return nil
}

// Live holds the current configuration. Readers always see a complete
// Config; Store swaps it atomically.
type Live struct {
	cur atomic.Pointer[Config]
}

// NewLive returns a Live holding cfg.
func NewLive(cfg *Config) *Live {
	l := &Live{}
	l.Store(cfg)
	return l
}

// Load returns the current configuration. Callers must not modify it.
func (l *Live) Load() *Config { return l.cur.Load() }

// Store replaces the current configuration.
func (l *Live) Store(cfg *Config) { l.cur.Store(cfg) }

func (l *Live) Variable() string          { return l.Load().Capture.Variable }
func (l *Live) MaxItems() int             { return l.Load().Capture.MaxItems }
func (l *Live) MaxItemsPerEntry() int     { return l.Load().History.MaxItemsPerEntry }
func (l *Live) CaptureValueTypes() bool   { return l.Load().Capture.CaptureValueTypes }
func (l *Live) CaptureNull() bool         { return l.Load().Capture.CaptureNull }
func (l *Live) ExcludedTypes() []string   { return slices.Clone(l.Load().Capture.ExcludedTypes) }
func (l *Live) WrapperPrefixes() []string { return slices.Clone(l.Load().Capture.WrapperPrefixes) }

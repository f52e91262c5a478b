// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tgienger/tick/internal/models"
)

// Default values.
const (
	DefaultLogLevel    = "info"
	DefaultSort        = models.SortNewest
	DefaultGroupStatus = true
)

// Config holds the full configuration for tick.
type Config struct {
	// DataDir holds tick.db and tick.log
	DataDir string `toml:"data_dir"`

	LogLevel string `toml:"log_level"`

	// SimulatedLatencyMS delays each task mutation to mimic a remote store
	SimulatedLatencyMS int `toml:"simulated_latency_ms"`

	DefaultSort   models.SortOption `toml:"default_sort"`
	GroupByStatus bool              `toml:"group_by_status"`
}

// Load builds the configuration from, in increasing priority: defaults, the
// config file, and TICK_* environment variables. An empty path means the
// default file location; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := setDefaults(cfg); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile()
	}
	if path != "" {
		_, err := toml.DecodeFile(path, cfg)
		if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.DataDir = expandPath(cfg.DataDir)
	return cfg, nil
}

func setDefaults(cfg *Config) error {
	dataDir, err := defaultDataDir()
	if err != nil {
		return fmt.Errorf("resolving data dir: %w", err)
	}
	cfg.DataDir = dataDir
	cfg.LogLevel = DefaultLogLevel
	cfg.DefaultSort = DefaultSort
	cfg.GroupByStatus = DefaultGroupStatus
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TICK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TICK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TICK_SIMULATED_LATENCY_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TICK_SIMULATED_LATENCY_MS: %w", err)
		}
		cfg.SimulatedLatencyMS = ms
	}
	if v := os.Getenv("TICK_DEFAULT_SORT"); v != "" {
		cfg.DefaultSort = models.SortOption(v)
	}
	if v := os.Getenv("TICK_GROUP_BY_STATUS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TICK_GROUP_BY_STATUS: %w", err)
		}
		cfg.GroupByStatus = b
	}
	return nil
}

func (c *Config) validate() error {
	if c.SimulatedLatencyMS < 0 {
		return fmt.Errorf("simulated_latency_ms must not be negative, got %d", c.SimulatedLatencyMS)
	}
	sortOpt, err := models.ParseSortOption(string(c.DefaultSort))
	if err != nil {
		return fmt.Errorf("default_sort: %w", err)
	}
	c.DefaultSort = sortOpt
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	return nil
}

// defaultDataDir uses the XDG data directory or falls back to ~/.local/share
func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "tick"), nil
}

func defaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tick", "config.toml")
}

// expandPath expands a leading ~ and environment variables
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}

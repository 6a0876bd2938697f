// Package config loads muxman configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (MUXMAN_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .muxman.yaml in current directory
//  2. ~/.config/muxman/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all muxman configuration.
type Config struct {
	// Tmux is the tmux binary to invoke.
	Tmux string `yaml:"tmux"`
	// Socket selects a tmux server socket name (tmux -L).
	Socket string `yaml:"socket"`

	// Refresh is the TUI auto-refresh interval as a Go duration string,
	// e.g. "5s". "0", "off" or "disable" turn auto-refresh off.
	Refresh string `yaml:"refresh"`

	// Theme selects the TUI color theme: "dark" or "light".
	Theme string `yaml:"theme"`
	// SkipConfirm disables the confirmation prompt before killing a session.
	SkipConfirm bool `yaml:"skip_confirm"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Parsed durations (not from YAML, set after loading)
	RefreshDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Tmux:    "tmux",
		Refresh: "5s",
		Theme:   "dark",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	var err error
	cfg.RefreshDuration, err = parseDurationOrDisable(cfg.Refresh, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh interval %q: %w", cfg.Refresh, err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".muxman.yaml"); err == nil {
		return ".muxman.yaml", data, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "muxman", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Tmux != "" {
		cfg.Tmux = file.Tmux
	}
	if file.Socket != "" {
		cfg.Socket = file.Socket
	}
	if file.Refresh != "" {
		cfg.Refresh = file.Refresh
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.SkipConfirm {
		cfg.SkipConfirm = file.SkipConfirm
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("MUXMAN_TMUX"); v != "" {
		cfg.Tmux = v
	}
	if v := os.Getenv("MUXMAN_SOCKET"); v != "" {
		cfg.Socket = v
	}
	if v := os.Getenv("MUXMAN_REFRESH"); v != "" {
		cfg.Refresh = v
	}
	if v := os.Getenv("MUXMAN_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("MUXMAN_SKIP_CONFIRM"); v == "true" || v == "1" {
		cfg.SkipConfirm = true
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable" return 0.
// Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

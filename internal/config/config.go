// Package config loads runtime configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Config holds CLI and server defaults.
type Config struct {
	LibraryRoot     string  `yaml:"library_root"`
	TemplatesFile   string  `yaml:"templates_file"`
	Port            int     `yaml:"port"`
	DefaultDuration float64 `yaml:"default_duration"`
	DefaultTempo    int     `yaml:"default_tempo"`
}

// Default returns the baseline configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		LibraryRoot:     filepath.Join(home, ".songforge"),
		Port:            8080,
		DefaultDuration: 30.0,
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is empty, only a missing file is tolerated), then SONGFORGE_* env
// overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.LibraryRoot = envStr("SONGFORGE_LIBRARY", cfg.LibraryRoot)
	cfg.TemplatesFile = envStr("SONGFORGE_TEMPLATES", cfg.TemplatesFile)
	cfg.Port = envInt("SONGFORGE_PORT", cfg.Port)
	cfg.DefaultDuration = envFloat("SONGFORGE_DURATION", cfg.DefaultDuration)
	cfg.DefaultTempo = envInt("SONGFORGE_TEMPO", cfg.DefaultTempo)
	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is looked up when no config path is given.
const DefaultFileName = "generator.config.json"

// LoadConfig loads and parses a configuration file. Files ending in .yaml or
// .yml are read as YAML, everything else as JSON.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data using the format implied by name's extension.
func Parse(name string, data []byte) (*Config, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseConfigYAML(data)
	default:
		return ParseConfigJSON(data)
	}
}

// LoadOrDefault loads path and falls back to Default with a warning when the
// file is missing, malformed or invalid. It never fails.
func LoadOrDefault(path string, log *slog.Logger) *Config {
	cfg, err := LoadConfig(path)
	if err != nil {
		log.Warn("No usable config found, using defaults", "path", path, "error", err)
		cfg = Default()
	}
	if LayerMismatch(cfg) {
		log.Warn("Service layer sizes do not sum to counts.services, using layer sizes",
			"services", cfg.Counts.Services,
			"layers_total", cfg.Layers.Total())
	}
	return cfg
}

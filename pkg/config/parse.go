package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseConfigJSON decodes a Config from JSON bytes over the defaults and
// validates it. Fields absent from data keep their default value.
func ParseConfigJSON(data []byte) (*Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ParseConfigYAML decodes a Config from YAML bytes over the defaults and
// validates it.
func ParseConfigYAML(data []byte) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config yaml: %w", err)
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ParseConfigYAMLString parses a Config from a YAML string and validates it.
func ParseConfigYAMLString(yamlText string) (*Config, error) {
	return ParseConfigYAML([]byte(yamlText))
}

// Canonical returns the JSON encoding of cfg. Map keys are sorted by the
// encoder, so equal configs give equal bytes.
func Canonical(cfg *Config) []byte {
	data, err := json.Marshal(cfg)
	if err != nil {
		// Config holds numbers, maps of arrays and sections that were
		// decoded from valid JSON.
		panic(fmt.Sprintf("config: marshal canonical form: %v", err))
	}
	return data
}

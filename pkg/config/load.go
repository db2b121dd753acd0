package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matthewmueller/jsonc"
	"gopkg.in/yaml.v3"
)

// Load reads a user configuration file. Files ending in .yaml or .yml are
// parsed as YAML; anything else is parsed as JSON with comments and trailing
// commas allowed.
func Load(path string) (SerializedConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return SerializedConfig{}, fmt.Errorf("config: load: %w", err)
	}

	return Parse(data, filepath.Ext(path))
}

// Parse decodes data according to the file extension ext (".json", ".yaml",
// ...). An empty ext is treated as JSON.
func Parse(data []byte, ext string) (SerializedConfig, error) {
	var cfg SerializedConfig

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SerializedConfig{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	default:
		std, err := standardize(data)
		if err != nil {
			return SerializedConfig{}, err
		}
		if err := json.Unmarshal(std, &cfg); err != nil {
			return SerializedConfig{}, fmt.Errorf("config: parse json: %w", err)
		}
	}

	return cfg, nil
}

// standardize strips comments and trailing commas so data is plain JSON.
func standardize(data []byte) ([]byte, error) {
	std, err := jsonc.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("config: parse jsonc: %w", err)
	}

	return std, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the configuration to the global config file.
func Save(cfg *Config) error {
	return SaveToFile(cfg, GlobalConfigPath())
}

// SaveToFile writes the configuration to a specific file path. The API key
// is environment-only and never written.
func SaveToFile(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil { //nolint:gosec // Restrictive permissions for security.
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

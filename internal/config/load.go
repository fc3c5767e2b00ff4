package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Load reads the global configuration file, applies defaults, and resolves
// the API key from the environment. A missing file is not an error; the
// defaults stand.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadFile(GlobalConfigPath(), cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyDefaults(cfg)
	cfg.apiKey = os.Getenv(apiKeyEnv)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}

	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	cfg.apiKey = os.Getenv(apiKeyEnv)

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	//nolint:gosec // G304: Path is from trusted config locations, not user input.
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyDefaults(cfg *Config) {
	if cfg.Options == nil {
		cfg.Options = &Options{}
	}
	if cfg.Options.DataDir == "" {
		cfg.Options.DataDir = filepath.Join(xdg.DataHome, appName)
	}
	if cfg.Theme == "" {
		cfg.Theme = "dark"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
}

// GlobalConfigPath returns the path to the global configuration file.
func GlobalConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

// DataDir returns the data directory path from configuration.
func (c *Config) DataDir() string {
	if c.Options != nil && c.Options.DataDir != "" {
		return c.Options.DataDir
	}
	return filepath.Join(xdg.DataHome, appName)
}

// DatabasePath returns the SQLite database path under the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir(), "gemsuite.db")
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.Options != nil && c.Options.Debug
}

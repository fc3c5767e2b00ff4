// Package config provides configuration management for gemsuite.
package config

import (
	"fmt"
	"os"

	"github.com/tidwall/sjson"
)

const (
	appName        = "gemsuite"
	configFileName = "gemsuite.json"

	// apiKeyEnv is the environment variable holding the Gemini API key. The
	// key is never written to the config file.
	apiKeyEnv = "GEMINI_API_KEY"
)

// Default model selections.
const (
	DefaultChatModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-4.0-generate-001"
)

// CustomTheme holds user-defined theme colors as hex strings.
type CustomTheme struct {
	Primary    string `json:"primary,omitempty"`
	Background string `json:"background,omitempty"`
	Foreground string `json:"foreground,omitempty"`
	Accent     string `json:"accent,omitempty"`
}

// Options holds optional configuration settings.
type Options struct {
	DataDir string `json:"data_directory,omitempty"`
	Debug   bool   `json:"debug,omitempty"`
}

// Config is the top-level configuration structure.
type Config struct {
	Theme       string       `json:"theme,omitempty"`
	CustomTheme *CustomTheme `json:"custom_theme,omitempty"`
	ChatModel   string       `json:"chat_model,omitempty"`
	Options     *Options     `json:"options,omitempty"`

	apiKey string
}

// NewConfig creates a new Config with defaults applied.
func NewConfig() *Config {
	cfg := &Config{Options: &Options{}}
	applyDefaults(cfg)
	return cfg
}

// APIKey returns the Gemini API key resolved from the environment.
func (c *Config) APIKey() string {
	return c.apiKey
}

// SetConfigField updates a single field in the config file using JSON path
// notation. This uses sjson for surgical updates - only the specified field
// is modified, and hand-edited fields elsewhere in the file are preserved.
func (c *Config) SetConfigField(key string, value any) error {
	return setField(GlobalConfigPath(), key, value)
}

func setField(path, key string, value any) error {
	//nolint:gosec // G304: path is from trusted config locations, not user input.
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	newData, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("setting config field %q: %w", key, err)
	}

	//nolint:gosec // 0o600 is intentionally restrictive for security.
	if err := os.WriteFile(path, []byte(newData), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

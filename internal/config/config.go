package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const appName = "myorganisms"

// Setting keys understood by the application
const (
	SettingReferenceBadge   = "reference_badge"
	SettingReferenceKeyword = "reference_keyword"
	SettingWatch            = "watch"
)

// Config holds application configuration
type Config struct {
	Theme       string `toml:"theme"`
	ProjectID   string `toml:"project_id"`
	DisplayName string `toml:"display_name"`

	// TaxonomyPath points at the taxonomy document. TaxonomyRoot is an
	// optional JSONPath selecting the tree inside a larger JSON file.
	TaxonomyPath string `toml:"taxonomy_path"`
	TaxonomyRoot string `toml:"taxonomy_root,omitempty"`

	DatabasePath     string            `toml:"database_path"`
	ReferenceStrains []string          `toml:"reference_strains,omitempty"`
	Settings         map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Theme == "" {
		config.Theme = "tokyo-night"
	}
	if config.Settings == nil {
		config.Settings = make(map[string]string)
	}
	config.sessionSettings = make(map[string]string)

	return config, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	cfg := &Config{
		Theme:           "tokyo-night",
		Settings:        make(map[string]string),
		sessionSettings: make(map[string]string),
	}
	if dir, err := GetDataDir(); err == nil {
		cfg.TaxonomyPath = filepath.Join(dir, "taxonomy.json")
		cfg.DatabasePath = filepath.Join(dir, "preferences.db")
	}
	return cfg
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", appName), nil
}

// GetDataDir returns the directory holding the taxonomy and the database
func GetDataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// GetStateDir returns the directory for the log file and history
func GetStateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	return os.MkdirAll(configDir, 0755)
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string if not found in either source
func (c *Config) Get(key string) string {
	if c.sessionSettings != nil {
		if val, ok := c.sessionSettings[key]; ok {
			return val
		}
	}

	if c.Settings != nil {
		if val, ok := c.Settings[key]; ok {
			return val
		}
	}

	return ""
}

// GetBool reads a boolean setting, returning def when it is unset or invalid
func (c *Config) GetBool(key string, def bool) bool {
	v, err := strconv.ParseBool(c.Get(key))
	if err != nil {
		return def
	}
	return v
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string)

	for k, v := range c.Settings {
		result[k] = v
	}
	for k, v := range c.sessionSettings {
		result[k] = v
	}

	return result
}

// Save persists the configuration to the standard location
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return c.SaveToFile(configPath)
}

// SaveToFile writes the configuration as TOML.
// Note: session settings are not persisted.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

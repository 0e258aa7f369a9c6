package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultCatalogURL = "https://api.scryfall.com"
	DefaultUserAgent  = "decktech/1.0"
	DefaultFadeDelay  = 200 * time.Millisecond
	DefaultArtWidth   = 24
	DefaultArtHeight  = 17
)

// Duration lets durations be written as strings ("200ms") in the config file
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config represents the application configuration
type Config struct {
	Debug          bool     `toml:"debug"`
	CatalogURL     string   `toml:"catalog_url"`
	UserAgent      string   `toml:"user_agent"`
	FadeDelay      Duration `toml:"fade_delay"`
	RequestTimeout Duration `toml:"request_timeout"` // zero means no timeout
	ArtWidth       int      `toml:"art_width"`
	ArtHeight      int      `toml:"art_height"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		CatalogURL: DefaultCatalogURL,
		UserAgent:  DefaultUserAgent,
		FadeDelay:  Duration{DefaultFadeDelay},
		ArtWidth:   DefaultArtWidth,
		ArtHeight:  DefaultArtHeight,
	}
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetXDGStateHome returns XDG_STATE_HOME or default path
func GetXDGStateHome() string {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return xdgState
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "state")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "decktech", "config.toml")
}

// GetLogFilePath returns where the viewer writes diagnostics
func GetLogFilePath() string {
	return filepath.Join(GetXDGStateHome(), "decktech", "decktech.log")
}

// LoadConfig loads the config file at the default location
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(GetConfigFilePath())
}

// LoadConfigFrom loads the config file at path, creating it with defaults if missing.
// Environment overrides are applied last.
func LoadConfigFrom(configPath string) (*Config, error) {
	// Create default config if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config, err := createDefaultConfig(configPath)
		if err != nil {
			return nil, err
		}
		config.applyEnvOverrides()
		return config, nil
	}

	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	config.applyEnvOverrides()
	config.fillDefaults()

	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	// Ensure the config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	config := Default()
	if err := Save(configPath, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save encodes config to path as TOML
func Save(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}

// applyEnvOverrides lets DECKTECH_* variables win over the file
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DECKTECH_DEBUG"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Debug = enabled
		}
	}
	if v := os.Getenv("DECKTECH_CATALOG_URL"); v != "" {
		c.CatalogURL = v
	}
}

// fillDefaults replaces zero values left by a partial config file
func (c *Config) fillDefaults() {
	if c.CatalogURL == "" {
		c.CatalogURL = DefaultCatalogURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.ArtWidth <= 0 {
		c.ArtWidth = DefaultArtWidth
	}
	if c.ArtHeight <= 0 {
		c.ArtHeight = DefaultArtHeight
	}
	if c.FadeDelay.Duration < 0 {
		c.FadeDelay.Duration = DefaultFadeDelay
	}
}

package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override the catalog endpoints.
const (
	EnvCatalogURL = "SAREGAMA_CATALOG_URL"
	EnvMediaURL   = "SAREGAMA_MEDIA_URL"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Player  PlayerConfig  `toml:"player"`
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
}

// CatalogConfig contains the remote song catalog endpoints.
type CatalogConfig struct {
	BaseURL   string  `toml:"base_url"`
	MediaURL  string  `toml:"media_url"`
	RateLimit float64 `toml:"rate_limit"`
}

// PlayerConfig contains playback settings.
type PlayerConfig struct {
	TickMS     int `toml:"tick_ms"`
	SeekStep   int `toml:"seek_step"`
	MaxMediaMB int `toml:"max_media_mb"`
}

// LogConfig contains file logging settings used by the TUI.
type LogConfig struct {
	Path       string `toml:"path"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// ServerConfig contains development catalog server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// TickInterval returns the position update interval, defaulting to 250ms.
func (p PlayerConfig) TickInterval() time.Duration {
	if p.TickMS <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(p.TickMS) * time.Millisecond
}

// SeekStepDuration returns the keyboard seek step, defaulting to 5s.
func (p PlayerConfig) SeekStepDuration() time.Duration {
	if p.SeekStep <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.SeekStep) * time.Second
}

// MaxMediaBytes returns the largest media payload the player buffers, or 0 for the engine default.
func (p PlayerConfig) MaxMediaBytes() int64 {
	if p.MaxMediaMB <= 0 {
		return 0
	}
	return int64(p.MaxMediaMB) << 20
}

// Addr returns host:port for the development server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads .env files (default ./.env) into the process environment.
//
// Missing files are not an error; variables already set are never overwritten.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides the catalog endpoints from [EnvCatalogURL] and [EnvMediaURL].
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvCatalogURL); v != "" {
		c.Catalog.BaseURL = v
	}
	if v := os.Getenv(EnvMediaURL); v != "" {
		c.Catalog.MediaURL = v
	}
}

// Validate checks that both catalog endpoints are absolute http(s) URLs.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"catalog.base_url":  c.Catalog.BaseURL,
		"catalog.media_url": c.Catalog.MediaURL,
	} {
		if raw == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidConfig, name)
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalidConfig, name, raw)
		}
	}
	if c.Catalog.RateLimit < 0 {
		return fmt.Errorf("%w: catalog.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

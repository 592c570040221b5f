// Package config provides file-based configuration with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Catalog CatalogConfig `yaml:"catalog"`
	Store   StoreConfig   `yaml:"store"`
	Advice  AdviceConfig  `yaml:"advice"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `yaml:"port" env:"URBAN_JUNGLE_PORT"`
	BindAddress  string `yaml:"bind_address" env:"URBAN_JUNGLE_BIND"`
	EnableCORS   bool   `yaml:"enable_cors" env:"URBAN_JUNGLE_CORS"`
	AllowOrigins string `yaml:"allow_origins" env:"URBAN_JUNGLE_ALLOW_ORIGINS"`
	ReadTimeout  int    `yaml:"read_timeout_seconds"`
	WriteTimeout int    `yaml:"write_timeout_seconds"`
	IdleTimeout  int    `yaml:"idle_timeout_seconds"`
	BodyLimit    string `yaml:"body_limit"`

	// ErrorDetails includes internal error text in 5xx responses.
	ErrorDetails bool `yaml:"error_details" env:"URBAN_JUNGLE_ERROR_DETAILS"`
}

// StorageConfig selects where the log and statuses are kept.
type StorageConfig struct {
	// Backend is one of file, duckdb or sqlite.
	Backend       string `yaml:"backend" env:"URBAN_JUNGLE_STORAGE"`
	DataDirectory string `yaml:"data_directory" env:"URBAN_JUNGLE_DATA_DIR"`
}

// CatalogConfig points at an optional plant catalog file. Empty means the
// built-in plants.
type CatalogConfig struct {
	Path string `yaml:"path,omitempty" env:"URBAN_JUNGLE_CATALOG"`
}

// StoreConfig tunes the watering log.
type StoreConfig struct {
	DateLayout string `yaml:"date_layout" env:"URBAN_JUNGLE_DATE_LAYOUT"`
}

// AdviceConfig configures the advice provider.
type AdviceConfig struct {
	Model string `yaml:"model" env:"URBAN_JUNGLE_ADVICE_MODEL"`
	// APIKey is normally supplied through the environment only.
	APIKey string `yaml:"api_key,omitempty" env:"GEMINI_API_KEY"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level                string `yaml:"level" env:"URBAN_JUNGLE_LOG_LEVEL"`
	EnableRequestLogging bool   `yaml:"enable_request_logging" env:"URBAN_JUNGLE_REQUEST_LOG"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8089,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 120,
			IdleTimeout:  120,
			BodyLimit:    "20M",
		},
		Storage: StorageConfig{
			Backend:       "file",
			DataDirectory: "./data",
		},
		Store: StoreConfig{
			DateLayout: "1/2/2006",
		},
		Advice: AdviceConfig{
			Model: "gemini-3-pro-preview",
		},
		Logging: LoggingConfig{
			Level:                "info",
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig reads the YAML file at configPath, writing the defaults there
// first if it does not exist. Environment variables override file values.
func LoadConfig(configPath string) (*AppConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.resolvePaths(filepath.Dir(configPath))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Urban Jungle configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects values the server cannot start with.
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Storage.Backend {
	case "", "file", "duckdb", "sqlite":
	default:
		return fmt.Errorf("invalid storage backend: %q", c.Storage.Backend)
	}
	if c.Storage.DataDirectory == "" {
		return fmt.Errorf("storage data directory is required")
	}
	return nil
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	if c.Catalog.Path != "" && !filepath.IsAbs(c.Catalog.Path) {
		c.Catalog.Path = filepath.Join(configDir, c.Catalog.Path)
	}
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// ReadTimeout returns the server read timeout.
func (c *AppConfig) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeout) * time.Second
}

// WriteTimeout returns the server write timeout. Advice calls to a large
// model can take a while, so this is longer than the read timeout.
func (c *AppConfig) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeout) * time.Second
}

// IdleTimeout returns the keep-alive idle timeout.
func (c *AppConfig) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeout) * time.Second
}

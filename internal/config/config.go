// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"vat-calc/internal/errors"
	"vat-calc/internal/logging"
)

// RedisAddrEnv overrides Rates.Redis.Addr when set
const RedisAddrEnv = "VATCALC_REDIS_ADDR"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Rates selects and configures the rate store
	Rates RatesConfig `json:"rates"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// RatesConfig contains rate store settings
type RatesConfig struct {
	// Backend is one of memory, file, redis
	Backend string `json:"backend"`

	// File is the HCL rates file used by the file backend
	File string `json:"file"`

	// Redis configures the redis backend
	Redis RedisConfig `json:"redis"`

	// Retail seeds the memory backend
	Retail decimal.Decimal `json:"retail"`

	// Depo seeds the memory backend
	Depo decimal.Decimal `json:"depo"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
	Key      string `json:"key"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (cli, json)
	DefaultFormat string `json:"default_format"`

	// NoColor disables ANSI colours in the CLI table
	NoColor bool `json:"no_color"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr         string        `json:"addr"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Version: "1.0",
		Rates: RatesConfig{
			Backend: "file",
			File:    filepath.Join(homeDir, ".vat-calc", "rates.hcl"),
			Redis: RedisConfig{
				Addr: "localhost:6379",
				Key:  "vat:rates",
			},
			Retail: decimal.Zero,
			Depo:   decimal.Zero,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.vat-calc.json
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".vat-calc.json")
}

// Load loads configuration from a file. A missing file yields Default().
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Config("read config", err).WithContext("path", path)
		}
	} else if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Config("parse config", err).WithContext("path", path)
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	if addr := os.Getenv(RedisAddrEnv); addr != "" {
		c.Rates.Redis.Addr = addr
	}
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

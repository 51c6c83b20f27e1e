// Package config loads the marketplace server configuration.
//
// Values come from three layers, later ones winning:
//
//  1. defaults (defaults.go)
//  2. an optional YAML file, with ${VAR} references expanded from the
//     environment
//  3. the PORT, STORAGE, LOG_LEVEL and BCRYPT_COST environment variables
//
// Example file:
//
//	server:
//	  port: 8080
//	  shutdown_timeout: 30s
//	storage:
//	  driver: sqlite
//	log:
//	  level: debug
//	auth:
//	  bcrypt_cost: 10
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	// Driver selects the repository backend: "memory" or "sqlite".
	Driver string `yaml:"driver"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

type AuthConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

// Load reads the YAML file at path (skipped when path is empty) and applies
// environment overrides. It does not apply defaults or validate.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// SlogLevel converts Log.Level to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT value %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v, ok := os.LookupEnv("STORAGE"); ok {
		c.Storage.Driver = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST value %q: %w", v, err)
		}
		c.Auth.BcryptCost = cost
	}
	return nil
}

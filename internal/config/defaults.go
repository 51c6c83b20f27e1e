package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultPort            = 8080
	DefaultShutdownTimeout = 30 * time.Second
	DefaultDriver          = DriverMemory
	DefaultLogLevel        = "info"
	DefaultBcryptCost      = 12
)

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultDriver
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = DefaultBcryptCost
	}
}

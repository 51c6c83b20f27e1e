package config

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must be >= 0")
	}

	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverMemory, DriverSQLite, c.Storage.Driver)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}

	return nil
}

// Package config defines the application configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/gocheckout/pkg/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	Log      LogConfig      `koanf:"log"`
	Shipping ShippingConfig `koanf:"shipping"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type ShippingConfig struct {
	// Fee is the flat shipping fee charged per checkout, in currency units.
	Fee float64 `koanf:"fee"`
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))

	b.WriteString("\n--- Shipping ---\n")
	b.WriteString(fmt.Sprintf("  shipping.fee: %.2f\n", c.Shipping.Fee))

	return b.String()
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	if c.Shipping.Fee < 0 {
		return fmt.Errorf("shipping fee must not be negative, got %.2f", c.Shipping.Fee)
	}
	return nil
}

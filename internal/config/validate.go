package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Capture.MinFreeSpaceGiB < 0 {
		return errors.New("capture.min_free_space_gib must not be negative")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.RetentionDays < 0 {
		return errors.New("history.retention_days must not be negative")
	}
	return nil
}

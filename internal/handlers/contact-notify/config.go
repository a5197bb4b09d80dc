package contactnotify

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	EmailEnabled bool          `mapstructure:"email_enabled"`
	FromEmail    string        `mapstructure:"from_email"`
	ToEmail      string        `mapstructure:"to_email"`
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.EmailEnabled {
		if c.FromEmail == "" {
			return fmt.Errorf("from_email is required when email is enabled")
		}
		if c.ToEmail == "" {
			return fmt.Errorf("to_email is required when email is enabled")
		}
	}
	return nil
}

package estimategenerate

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	ValidateOutput bool          `mapstructure:"validate_output"`
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

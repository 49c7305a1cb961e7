package dashboardstats

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
	// FallbackEnabled serves built-in sample figures when the backend is unreachable.
	FallbackEnabled bool `mapstructure:"fallback_enabled"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Timeout:         10 * time.Second,
		FallbackEnabled: true,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

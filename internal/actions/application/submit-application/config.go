package submitapplication

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
	// LedgerTimeout bounds each journal read or write.
	LedgerTimeout time.Duration `mapstructure:"ledger_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		Timeout:       30 * time.Second,
		LedgerTimeout: 5 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.LedgerTimeout <= 0 {
		return fmt.Errorf("ledger_timeout must be positive")
	}
	return nil
}

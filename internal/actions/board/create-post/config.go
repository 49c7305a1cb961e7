package createpost

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Enabled           bool          `mapstructure:"enabled"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxTitleLength    int           `mapstructure:"max_title_length"`
	MaxImages         int           `mapstructure:"max_images"`
	AllowedExtensions []string      `mapstructure:"allowed_extensions"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:           true,
		Timeout:           30 * time.Second,
		MaxTitleLength:    200,
		MaxImages:         5,
		AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxImages < 0 {
		return fmt.Errorf("max_images must not be negative")
	}
	for _, ext := range c.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("allowed extension %q must start with a dot", ext)
		}
	}
	return nil
}

package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate confirms the configuration is internally consistent. The
// category table carries its own invariants (disjoint extensions, fallback
// not shadowed), so building it performs most of the work.
func (c *Config) Validate() error {
	if _, err := c.CategoryTable(); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}

	for _, glob := range c.Organize.Exclude {
		if !doublestar.ValidatePattern(glob) {
			return fmt.Errorf("organize.exclude: invalid pattern %q", glob)
		}
	}
	return nil
}

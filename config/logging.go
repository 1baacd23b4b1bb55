package config

import (
	"fmt"
	"slices"
	"strings"
)

var levels = []string{"trace", "debug", "info", "warn", "error"}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level is the minimum level emitted: trace, debug, info, warn or error.
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LogConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks mandatory fields.
func (c LogConfig) Validate() error {
	if !slices.Contains(levels, strings.ToLower(c.Level)) {
		return fmt.Errorf("unknown level %s", c.Level)
	}
	return nil
}

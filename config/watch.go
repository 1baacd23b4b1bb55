package config

import (
	"fmt"
	"time"
)

// WatchConfig controls the periodic evaluation service.
type WatchConfig struct {
	// Interval between two evaluations.
	Interval time.Duration `json:"interval"`
	// Batch is the number of samples buffered before they are flushed to
	// the sinks. 1 flushes every evaluation.
	Batch int `json:"batch"`
}

// SetDefaults applies sane defaults.
func (c *WatchConfig) SetDefaults() {
	if c.Interval == 0 {
		c.Interval = time.Minute
	}
	if c.Batch == 0 {
		c.Batch = 1
	}
}

// Validate checks mandatory fields.
func (c WatchConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.Batch < 1 {
		return fmt.Errorf("batch must be at least 1, got %d", c.Batch)
	}
	return nil
}

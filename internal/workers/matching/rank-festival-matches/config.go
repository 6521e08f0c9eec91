// internal/workers/matching/rank-festival-matches/config.go
package rankfestivalmatches

import (
	"fmt"
	"time"

	"festival-matcher/internal/common/config"
)

type Config struct {
	Enabled        bool
	Timeout        time.Duration
	DefaultLimit   int
	MaxLimit       int
	CacheEnabled   bool
	CacheTTL       time.Duration
	CacheKeyPrefix string
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		Timeout:        10 * time.Second,
		DefaultLimit:   10,
		MaxLimit:       50,
		CacheTTL:       15 * time.Minute,
		CacheKeyPrefix: "match:result:",
	}
}

// FromAppConfig combines the worker entry with the matching section.
func FromAppConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}

	wc := config.GetWorkerConfig(cfg, TaskType)
	c.Enabled = wc.Enabled
	if wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}

	m := cfg.Matching
	if m.DefaultLimit > 0 {
		c.DefaultLimit = m.DefaultLimit
	}
	if m.MaxLimit > 0 {
		c.MaxLimit = m.MaxLimit
	}
	c.CacheEnabled = m.CacheEnabled
	if m.CacheTTL > 0 {
		c.CacheTTL = time.Duration(m.CacheTTL) * time.Second
	}
	if m.CacheKeyPrefix != "" {
		c.CacheKeyPrefix = m.CacheKeyPrefix
	}
	return c
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be at least 1")
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must not be below default_limit")
	}
	if c.CacheEnabled && c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive when the cache is enabled")
	}
	return nil
}

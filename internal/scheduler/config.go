package scheduler

import (
	"time"

	"github.com/smallbiznis/wasafinance/internal/config"
)

// Config controls scheduler intervals and retention windows.
type Config struct {
	RunInterval      time.Duration
	JobTimeout       time.Duration
	SessionRetention time.Duration
	LockTTL          time.Duration
}

func DefaultConfig() Config {
	return Config{
		RunInterval:      time.Hour,
		JobTimeout:       30 * time.Second,
		SessionRetention: 24 * time.Hour,
		LockTTL:          time.Minute,
	}
}

func ProvideConfig(cfg config.Config) Config {
	return Config{
		RunInterval:      cfg.Scheduler.Interval,
		SessionRetention: cfg.Scheduler.SessionRetention,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.SessionRetention <= 0 {
		c.SessionRetention = defaults.SessionRetention
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	return c
}

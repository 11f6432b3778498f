package config

import "time"

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	// Interval between deadline sweeper passes
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"required"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`

	// Per-character rate limiting of combat endpoints
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds per-character token-bucket settings
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"min=0"`
	Burst             int     `mapstructure:"burst" validate:"min=0"`
}

package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "quadrant"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "quadrant"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Daemon defaults
	if cfg.Daemon.SweepInterval == 0 {
		cfg.Daemon.SweepInterval = 1 * time.Second
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Daemon.RateLimit.RequestsPerSecond == 0 {
		cfg.Daemon.RateLimit.RequestsPerSecond = 2
	}
	if cfg.Daemon.RateLimit.Burst == 0 {
		cfg.Daemon.RateLimit.Burst = 5
	}

	// Combat defaults
	if cfg.Combat.RoundTimeout == 0 {
		cfg.Combat.RoundTimeout = 30 * time.Second
	}
	if cfg.Combat.ShieldRegenPerRound == 0 {
		cfg.Combat.ShieldRegenPerRound = 10
	}
	if cfg.Combat.SalvageTTL == 0 {
		cfg.Combat.SalvageTTL = 15 * time.Minute
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9091
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

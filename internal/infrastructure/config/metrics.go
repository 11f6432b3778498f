package config

// MetricsConfig configures the Prometheus exposition endpoint of the daemon
type MetricsConfig struct {
	// Enabled controls whether the combat and event collectors are registered
	Enabled bool `mapstructure:"enabled"`

	// Port for the metrics HTTP listener
	Port int `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`

	// Host to bind the metrics listener, localhost by default
	Host string `mapstructure:"host"`

	// Path of the scrape endpoint (default: /metrics)
	Path string `mapstructure:"path"`
}

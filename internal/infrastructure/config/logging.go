package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`

	// Output destination: stdout, stderr, or a file path
	Output string `mapstructure:"output"`
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Daemon   DaemonConfig   `mapstructure:"daemon"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/quadrant")
	}

	v.SetEnvPrefix("QD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - don't error if missing)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Special handling for well-known unprefixed environment variables so
	// deployments can set them without the QD_ prefix
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}
	if timeout := os.Getenv("COMBAT_ROUND_TIMEOUT"); timeout != "" {
		d, err := parseSecondsOrDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid COMBAT_ROUND_TIMEOUT: %w", err)
		}
		v.Set("combat.round_timeout", d)
	}
	if regen := os.Getenv("SHIELD_REGEN_PER_ROUND"); regen != "" {
		n, err := strconv.Atoi(regen)
		if err != nil {
			return nil, fmt.Errorf("invalid SHIELD_REGEN_PER_ROUND: %w", err)
		}
		v.Set("combat.shield_regen_per_round", n)
	}
	if ttl := os.Getenv("SALVAGE_TTL_SECONDS"); ttl != "" {
		n, err := strconv.Atoi(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid SALVAGE_TTL_SECONDS: %w", err)
		}
		v.Set("combat.salvage_ttl", time.Duration(n)*time.Second)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// parseSecondsOrDuration reads a bare integer as seconds, matching the other
// unprefixed variables, and falls back to Go duration syntax ("45s", "2m").
func parseSecondsOrDuration(value string) (time.Duration, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(value)
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

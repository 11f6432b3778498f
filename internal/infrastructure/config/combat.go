package config

import "time"

// CombatConfig holds the combat lifecycle tunables
type CombatConfig struct {
	// How long each round waits for submissions before timing out
	RoundTimeout time.Duration `mapstructure:"round_timeout" validate:"required"`

	// Shields regained by each surviving ship between rounds
	ShieldRegenPerRound int `mapstructure:"shield_regen_per_round" validate:"min=0"`

	// How long a wreck stays claimable
	SalvageTTL time.Duration `mapstructure:"salvage_ttl" validate:"required"`
}

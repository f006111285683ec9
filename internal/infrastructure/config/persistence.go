package config

import "time"

// PersistenceConfig controls how dirty snapshots are written back
type PersistenceConfig struct {
	// Wall time between flushes of dirty entities
	FlushInterval time.Duration `mapstructure:"flush_interval" validate:"required"`

	// Token bucket limiting snapshot writes; negative disables throttling
	MaxWritesPerSecond float64 `mapstructure:"max_writes_per_second"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`

	// Consecutive failed flushes that open the store circuit breaker;
	// negative disables the breaker
	BreakerFailures int `mapstructure:"breaker_failures"`

	// How long an open breaker skips periodic flushes
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown"`
}

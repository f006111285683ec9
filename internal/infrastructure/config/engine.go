package config

import "time"

// EngineConfig holds the simulation settings applied to every unit
type EngineConfig struct {
	// Catalog file (.yaml, .yml or .json); empty uses the built-in catalog
	CatalogPath string `mapstructure:"catalog_path" validate:"omitempty,catalog_file"`

	// Wall time between world ticks
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`

	// Units process every Nth tick and advance N at once
	TickDivisor int `mapstructure:"tick_divisor" validate:"min=1"`

	// Chance that a completed batch is upgraded one tier; unset means 0.2
	UpgradeChance *float64 `mapstructure:"upgrade_chance" validate:"omitempty,min=0,max=1"`

	// Advancing ticks per resource draw
	ConsumeEvery int `mapstructure:"consume_every" validate:"min=1"`

	// Progress ticks between change reports; unset means 20 and 0 reports
	// every mutation
	ChangeReportInterval *int `mapstructure:"change_report_interval" validate:"omitempty,min=0"`

	// Seed for the shared random source; 0 seeds from the clock
	RandomSeed int64 `mapstructure:"random_seed"`
}

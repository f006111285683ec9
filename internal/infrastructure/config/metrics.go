package config

// MetricsConfig controls the daemon's Prometheus endpoint
type MetricsConfig struct {
	// Enabled serves /metrics and starts the engine collectors
	Enabled bool `mapstructure:"enabled"`

	Port int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Host string `mapstructure:"host"`

	// Path the registry is served on; defaults to /metrics
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

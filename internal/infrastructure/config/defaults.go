package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = DatabaseSQLiteNative
	}
	if cfg.Database.Path == "" && cfg.Database.Type != DatabasePostgres {
		cfg.Database.Path = "slotworks.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "slotworks"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "slotworks"
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

	// Engine defaults
	if cfg.Engine.TickInterval == 0 {
		cfg.Engine.TickInterval = 50 * time.Millisecond // 20 ticks per second
	}
	if cfg.Engine.TickDivisor == 0 {
		cfg.Engine.TickDivisor = 1
	}
	if cfg.Engine.UpgradeChance == nil {
		chance := 0.2
		cfg.Engine.UpgradeChance = &chance
	}
	if cfg.Engine.ConsumeEvery == 0 {
		cfg.Engine.ConsumeEvery = 20
	}
	if cfg.Engine.ChangeReportInterval == nil {
		interval := 20
		cfg.Engine.ChangeReportInterval = &interval
	}

	// Persistence defaults
	if cfg.Persistence.FlushInterval == 0 {
		cfg.Persistence.FlushInterval = 5 * time.Second
	}
	if cfg.Persistence.MaxWritesPerSecond == 0 {
		cfg.Persistence.MaxWritesPerSecond = 200
	}
	if cfg.Persistence.Burst == 0 {
		cfg.Persistence.Burst = 50
	}
	if cfg.Persistence.BreakerFailures == 0 {
		cfg.Persistence.BreakerFailures = 5
	}
	if cfg.Persistence.BreakerCooldown == 0 {
		cfg.Persistence.BreakerCooldown = 30 * time.Second
	}

	// Daemon defaults
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = "/tmp/slotworks-daemon.sock"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/slotworks-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/infrastructure/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileValuesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  type: sqlite
  path: /var/lib/slotworks/state.db
engine:
  tick_interval: 100ms
  tick_divisor: 4
  upgrade_chance: 0
  change_report_interval: 0
persistence:
  max_writes_per_second: -1
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "/var/lib/slotworks/state.db", cfg.Database.Path)
	assert.Equal(t, 100*time.Millisecond, cfg.Engine.TickInterval)
	assert.Equal(t, 4, cfg.Engine.TickDivisor)
	require.NotNil(t, cfg.Engine.UpgradeChance)
	assert.Equal(t, 0.0, *cfg.Engine.UpgradeChance)
	require.NotNil(t, cfg.Engine.ChangeReportInterval)
	assert.Equal(t, 0, *cfg.Engine.ChangeReportInterval)
	assert.Equal(t, 20, cfg.Engine.ConsumeEvery)
	assert.Equal(t, -1.0, cfg.Persistence.MaxWritesPerSecond)
	assert.Equal(t, 5*time.Second, cfg.Persistence.FlushInterval)
	assert.Equal(t, 5, cfg.Persistence.BreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.Persistence.BreakerCooldown)
	assert.Equal(t, "/tmp/slotworks-daemon.sock", cfg.Daemon.SocketPath)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
engine:
  tick_divisor: 2
`)
	t.Setenv("SW_ENGINE_TICK_DIVISOR", "5")
	t.Setenv("SW_LOGGING_LEVEL", "debug")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Engine.TickDivisor)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown database type", "database:\n  type: mysql\n"},
		{"upgrade chance above one", "engine:\n  upgrade_chance: 1.5\n"},
		{"bad log level", "logging:\n  level: chatty\n"},
		{"file output without path", "logging:\n  output: file\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_ValidationNamesConfigKeys(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"upgrade chance", "engine:\n  upgrade_chance: 1.5\n", "engine.upgrade_chance must be at most 1"},
		{"catalog extension", "engine:\n  catalog_path: stages.txt\n", "engine.catalog_path must name a .yaml, .yml or .json catalog"},
		{"metrics path", "metrics:\n  path: metrics\n", "metrics.path must start with \"/\""},
		{"database type", "database:\n  type: mysql\n", "database.type must be one of: postgres, sqlite, sqlite-native"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateConfig_BreakerNeedsCooldown(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Persistence.BreakerCooldown = -time.Second

	err := config.ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistence.breaker_cooldown must be positive")

	cfg.Persistence.BreakerFailures = -1
	assert.NoError(t, config.ValidateConfig(cfg))
}

func TestSetDefaults_EmptyConfigIsValid(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)

	require.NoError(t, config.ValidateConfig(cfg))
	assert.Equal(t, config.DatabaseSQLiteNative, cfg.Database.Type)
	assert.Equal(t, "slotworks.db", cfg.Database.Path)
	assert.Equal(t, 0.2, *cfg.Engine.UpgradeChance)
	assert.Equal(t, 20, *cfg.Engine.ChangeReportInterval)
}

func TestUserConfigHandler_RoundTrip(t *testing.T) {
	h, err := config.NewUserConfigHandlerAt(filepath.Join(t.TempDir(), "nested", "config.json"))
	require.NoError(t, err)

	empty, err := h.Load()
	require.NoError(t, err)
	assert.Empty(t, empty.DefaultCatalog)

	require.NoError(t, h.SetDefaultCatalog("catalog.yaml"))
	require.NoError(t, h.SetDefaultSeed(7))

	loaded, err := h.Load()
	require.NoError(t, err)
	assert.Equal(t, "catalog.yaml", loaded.DefaultCatalog)
	require.NotNil(t, loaded.DefaultSeed)
	assert.Equal(t, int64(7), *loaded.DefaultSeed)

	require.NoError(t, h.Clear())
	cleared, err := h.Load()
	require.NoError(t, err)
	assert.Nil(t, cleared.DefaultSeed)
}

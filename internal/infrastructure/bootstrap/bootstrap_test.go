package bootstrap_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/config"
)

func TestUnitSettings_Defaults(t *testing.T) {
	settings := bootstrap.UnitSettings(config.EngineConfig{})

	assert.Equal(t, quality.DefaultUpgradeChance, settings.UpgradeChance)
	assert.Equal(t, 1, settings.TickDivisor)
	assert.Equal(t, processing.DefaultConsumeEvery, settings.ConsumeEvery)
	assert.Equal(t, processing.DefaultReportInterval, settings.ReportInterval)
}

func TestUnitSettings_ExplicitZeroesAreKept(t *testing.T) {
	chance := 0.0
	interval := 0

	settings := bootstrap.UnitSettings(config.EngineConfig{
		UpgradeChance:        &chance,
		ChangeReportInterval: &interval,
		TickDivisor:          4,
		ConsumeEvery:         5,
	})

	assert.Equal(t, 0.0, settings.UpgradeChance)
	assert.Equal(t, 0, settings.ReportInterval)
	assert.Equal(t, 4, settings.TickDivisor)
	assert.Equal(t, 5, settings.ConsumeEvery)
}

func TestRandom_FixedSeedIsReproducible(t *testing.T) {
	a := bootstrap.Random(42)
	b := bootstrap.Random(42)

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "engine.log")

	logger, closer, err := bootstrap.Logger(config.LoggingConfig{
		Level: "info", Format: "text", Output: "file", FilePath: path,
	})
	require.NoError(t, err)
	logger.Log("DEBUG", "hidden", nil)
	logger.Log("INFO", "unit placed", map[string]interface{}{"stage": "tobacco.drying"})
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] unit placed")
	assert.Contains(t, string(data), "stage=tobacco.drying")
	assert.False(t, strings.Contains(string(data), "hidden"))
}

func TestLogger_RejectsUnknownOutput(t *testing.T) {
	_, _, err := bootstrap.Logger(config.LoggingConfig{Output: "syslog"})
	assert.Error(t, err)
}

func TestLoadDefinition_FallsBackToUserDefault(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`
stages:
  - id: herb.drying
    name: Herb Rack
    category: PLANT
    capacity: 1
    processing_ticks: 5
    input: herb
    output: dried_herb
`), 0644))

	users, err := config.NewUserConfigHandlerAt(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	require.NoError(t, users.SetDefaultCatalog(catalogPath))

	def, err := bootstrap.LoadDefinition("", users)
	require.NoError(t, err)
	assert.Equal(t, 1, def.Stages.Len())

	builtin, err := bootstrap.LoadDefinition("", nil)
	require.NoError(t, err)
	assert.Greater(t, builtin.Stages.Len(), 1)
}

func TestNewWorld_AppliesEngineConfig(t *testing.T) {
	def, err := bootstrap.LoadDefinition("", nil)
	require.NoError(t, err)

	w := bootstrap.NewWorld(def, config.EngineConfig{RandomSeed: 7})
	w.Tick(context.Background())

	assert.Equal(t, int64(1), w.CurrentTick())
	assert.Same(t, def.Stages, w.Catalog())
}

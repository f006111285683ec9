// Package bootstrap turns loaded configuration into the pieces a world is
// built from. The daemon and the offline CLI commands share it.
package bootstrap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/andrescamacho/slotworks-go/internal/adapters/catalog"
	"github.com/andrescamacho/slotworks-go/internal/application/logging"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/config"
)

// UnitSettings maps engine configuration onto per-unit settings
func UnitSettings(cfg config.EngineConfig) world.UnitSettings {
	settings := world.DefaultUnitSettings()
	if cfg.UpgradeChance != nil {
		settings.UpgradeChance = *cfg.UpgradeChance
	}
	if cfg.TickDivisor > 0 {
		settings.TickDivisor = cfg.TickDivisor
	}
	if cfg.ConsumeEvery > 0 {
		settings.ConsumeEvery = cfg.ConsumeEvery
	}
	if cfg.ChangeReportInterval != nil {
		settings.ReportInterval = *cfg.ChangeReportInterval
	}
	return settings
}

// Random returns the shared random source. A zero seed seeds from the clock.
func Random(seed int64) *shared.SeededRandom {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return shared.NewSeededRandom(seed)
}

// Logger opens the configured log destination. The returned closer must be
// closed on shutdown; it is a no-op for stdout and stderr.
func Logger(cfg config.LoggingConfig) (*logging.StdLogger, io.Closer, error) {
	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	case "file":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	default:
		return nil, nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}
	return logging.NewStdLogger(out, cfg.Level, cfg.Format), closer, nil
}

// LoadDefinition loads the catalog at path. An empty path falls back to the
// user's default catalog, if users is set, and then to the built-in one.
func LoadDefinition(path string, users *config.UserConfigHandler) (*catalog.Definition, error) {
	if path == "" && users != nil {
		userCfg, err := users.Load()
		if err != nil {
			return nil, err
		}
		path = userCfg.DefaultCatalog
	}
	def, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return def, nil
}

// NewWorld builds an empty world from a catalog and engine configuration.
// Extra options are applied after the configured ones.
func NewWorld(def *catalog.Definition, cfg config.EngineConfig, opts ...world.Option) *world.World {
	base := []world.Option{
		world.WithUnitSettings(UnitSettings(cfg)),
		world.WithRandom(Random(cfg.RandomSeed)),
	}
	return world.NewWorld(def.Stages, def.Recipes, def.Registry, append(base, opts...)...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

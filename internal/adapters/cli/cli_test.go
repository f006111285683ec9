package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/adapters/catalog"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/config"
)

// runCLI executes the root command with a user config under a temp dir
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	userConfig := filepath.Join(t.TempDir(), "config.json")
	original := newUserConfigHandler
	newUserConfigHandler = func() (*config.UserConfigHandler, error) {
		return config.NewUserConfigHandlerAt(userConfig)
	}
	t.Cleanup(func() { newUserConfigHandler = original })

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCatalogList_ShowsBuiltinStages(t *testing.T) {
	out, err := runCLI(t, "catalog", "list", "--category", "PLANT")

	require.NoError(t, err)
	assert.Contains(t, out, "tobacco.drying")
	assert.Contains(t, out, "cannabis.curing")
	assert.NotContains(t, out, "coca.extraction")
}

func TestCatalogShow_UnknownStage(t *testing.T) {
	_, err := runCLI(t, "catalog", "show", "nope.stage")

	assert.ErrorContains(t, err, "unknown stage")
}

func TestCatalogTree_FollowsTheChain(t *testing.T) {
	out, err := runCLI(t, "catalog", "tree", "fresh_tobacco_leaf")

	require.NoError(t, err)
	assert.Contains(t, out, "└── dried_tobacco_leaf [tobacco.drying, 1200 ticks]")
	assert.Contains(t, out, "fermented_tobacco_leaf")
	assert.Contains(t, out, "packaged_tobacco")
	assert.Contains(t, out, "Chain: 4 materials, depth=4")
}

func TestBuildChain_MarksCycles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
stages:
  - id: melt
    name: Melter
    capacity: 1
    processing_ticks: 10
    input: ore
    output: slag
  - id: recycle
    name: Recycler
    capacity: 1
    processing_ticks: 5
    input: slag
    output: ore
`), 0644))
	def, err := catalog.LoadFile(path)
	require.NoError(t, err)

	root := BuildChain(def, processing.Kind("ore"))

	require.Len(t, root.Children, 1)
	slag := root.Children[0]
	require.Len(t, slag.Children, 1)
	assert.True(t, slag.Children[0].Cycle)
	assert.Empty(t, slag.Children[0].Children)
	assert.Equal(t, 3, root.CountNodes())
	assert.Equal(t, 15, root.TotalTicks())
}

func TestSimulate_ProducesOutput(t *testing.T) {
	out, err := runCLI(t, "simulate", "--stage", "tobacco.drying",
		"--amount", "3", "--batches", "2", "--seed", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Simulating Tobacco Drying Rack: 2 x 3 fresh_tobacco_leaf")
	assert.Contains(t, out, "Completed 2 batches")
	assert.Contains(t, out, "dried_tobacco_leaf")
}

func TestSimulate_ResourceStageFillsGate(t *testing.T) {
	out, err := runCLI(t, "simulate", "--stage", "coca.extraction", "--ticks", "40", "--seed", "3")

	require.NoError(t, err)
	assert.Contains(t, out, "Deposited 1000 diesel (1000/1000)")
	assert.Contains(t, out, "No output ready")
}

func TestMinigameScore_PerfectCenter(t *testing.T) {
	out, err := runCLI(t, "minigame", "score", "crack.cooker", "40")

	require.NoError(t, err)
	assert.Contains(t, out, "Zone:  PERFECT")
	assert.Contains(t, out, "Score: 1.000")
	assert.Contains(t, out, "Tier:  legendary")
}

func TestMinigamePlay_RemoveInPerfectWindow(t *testing.T) {
	out, err := runCLI(t, "minigame", "play", "crack.cooker",
		"--primary", "5", "--primary-quality", "very_good", "--secondary", "1", "--remove-at", "40")

	require.NoError(t, err)
	assert.Contains(t, out, "Zone:       PERFECT")
	assert.Contains(t, out, "Tier:       legendary")
	assert.Contains(t, out, "Extracted 4 x crack (legendary)")
}

func TestMinigamePlay_TimesOut(t *testing.T) {
	out, err := runCLI(t, "minigame", "play", "crack.cooker")

	require.NoError(t, err)
	assert.Contains(t, out, "(timed out)")
	assert.Contains(t, out, "Zone:       LATE")
}

func TestConfig_SetSeedAndCatalog(t *testing.T) {
	userConfig := filepath.Join(t.TempDir(), "config.json")
	original := newUserConfigHandler
	newUserConfigHandler = func() (*config.UserConfigHandler, error) {
		return config.NewUserConfigHandlerAt(userConfig)
	}
	defer func() { newUserConfigHandler = original }()

	for _, args := range [][]string{{"config", "set-seed", "42"}, {"config", "set-catalog", "missing.yaml"}} {
		root := NewRootCommand()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(args)
		err := root.Execute()
		if args[1] == "set-catalog" {
			assert.Error(t, err)
		} else {
			require.NoError(t, err)
		}
	}

	handler, err := newUserConfigHandler()
	require.NoError(t, err)
	cfg, err := handler.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.DefaultSeed)
	assert.Equal(t, int64(42), *cfg.DefaultSeed)
	assert.Empty(t, cfg.DefaultCatalog)
	assert.Equal(t, int64(42), resolveSeed(0))
	assert.Equal(t, int64(7), resolveSeed(7))
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgres://app:****@db:5432/slotworks",
		maskPassword("postgres://app:secret@db:5432/slotworks"))
	assert.Equal(t, "postgres://db/slotworks", maskPassword("postgres://db/slotworks"))
	assert.Equal(t, "slotworks.db", maskPassword("slotworks.db"))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[##########]", progressBar(1.5, 10))
	assert.Equal(t, "[#####.....]", progressBar(0.5, 10))
	assert.Equal(t, "[..........]", progressBar(-1, 10))
}

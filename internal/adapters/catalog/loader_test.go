package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/adapters/catalog"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

func TestBuiltin_LoadsEveryProductFamily(t *testing.T) {
	def, err := catalog.Builtin()
	require.NoError(t, err)

	assert.Equal(t, catalog.BuiltinSource, def.Source)
	assert.Equal(t, 19, def.Stages.Len())
	assert.Len(t, def.Recipes.Recipes(), 2)

	extraction, ok := def.Stages.Lookup("coca.extraction")
	require.True(t, ok)
	require.NotNil(t, extraction.Resource)
	assert.Equal(t, processing.ResourceKind("diesel"), extraction.Resource.Kind)
	assert.Equal(t, 100, extraction.Resource.Amount)
	assert.Equal(t, processing.CategoryExtract, extraction.Category)

	curing, ok := def.Stages.Lookup("cannabis.curing")
	require.True(t, ok)
	assert.Equal(t, "five_tier", curing.QualitySystem)

	synthesis, ok := def.Stages.Lookup("mdma.synthesis")
	require.True(t, ok)
	assert.False(t, synthesis.PreservesQuality)

	press, ok := def.Recipes.Lookup("mdma.pill_press")
	require.True(t, ok)
	assert.Equal(t, "press", press.Profile.Name)
	assert.Equal(t, 1.0, press.Yield)
}

func TestParse_JSONWithOutputsMap(t *testing.T) {
	doc := `{
		"stages": [{
			"id": "herb.drying",
			"category": "plant",
			"capacity": 2,
			"processing_ticks": 5,
			"outputs": {"basil": "dried_basil", "mint": "dried_mint"}
		}]
	}`

	def, err := catalog.Parse([]byte(doc), catalog.FormatJSON)
	require.NoError(t, err)

	stage, ok := def.Stages.Lookup("herb.drying")
	require.True(t, ok)
	assert.Equal(t, "herb.drying", stage.Name)
	assert.Equal(t, processing.CategoryPlant, stage.Category)
	assert.True(t, stage.PreservesQuality)
	assert.Equal(t, "standard", stage.QualitySystem)
	out, ok := stage.OutputKind("mint")
	assert.True(t, ok)
	assert.Equal(t, processing.Kind("dried_mint"), out)
}

func TestParse_CustomQualitySystemAndTimingOverride(t *testing.T) {
	doc := `
quality_systems:
  - name: grades
    count: 3
stages:
  - id: tea.withering
    capacity: 4
    processing_ticks: 20
    input: tea_leaf
    output: withered_tea
    quality_system: grades
    upgrade_chance: 0.5
recipes:
  - id: tea.roaster
    primary: withered_tea
    secondary: charcoal
    output: roasted_tea
    quality_system: grades
    min_primary: 1
    max_primary: 4
    min_secondary: 1
    max_secondary: 2
    profile: press
    timing:
      perfect_window: [24, 32]
      thresholds: [0.6, 0.85]
`

	def, err := catalog.Parse([]byte(doc), catalog.FormatYAML)
	require.NoError(t, err)

	system, ok := def.Registry.System("grades")
	require.True(t, ok)
	assert.Equal(t, 3, system.Len())

	stage, _ := def.Stages.Lookup("tea.withering")
	require.NotNil(t, stage.UpgradeChance)
	assert.Equal(t, 0.5, *stage.UpgradeChance)

	recipe, ok := def.Recipes.Lookup("tea.roaster")
	require.True(t, ok)
	assert.Equal(t, 24, recipe.Profile.PerfectStart)
	assert.Equal(t, 32, recipe.Profile.PerfectEnd)
	assert.Equal(t, 28, recipe.Profile.GoodCenter)
	assert.Equal(t, []float64{0.6, 0.85}, recipe.Profile.Thresholds)
	assert.Equal(t, 0.8, recipe.Yield)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown quality system",
			doc: `
stages:
  - {id: a, capacity: 1, processing_ticks: 1, input: x, output: y, quality_system: nope}`,
		},
		{
			name: "input without output",
			doc: `
stages:
  - {id: a, capacity: 1, processing_ticks: 1, input: x}`,
		},
		{
			name: "bad category",
			doc: `
stages:
  - {id: a, category: MINERAL, capacity: 1, processing_ticks: 1, input: x, output: y}`,
		},
		{
			name: "zero capacity",
			doc: `
stages:
  - {id: a, capacity: 0, processing_ticks: 1, input: x, output: y}`,
		},
		{
			name: "duplicate stage",
			doc: `
stages:
  - {id: a, capacity: 1, processing_ticks: 1, input: x, output: y}
  - {id: a, capacity: 1, processing_ticks: 1, input: x, output: y}`,
		},
		{
			name: "thresholds do not fit tiers",
			doc: `
recipes:
  - {id: r, primary: a, secondary: b, output: c, quality_system: five_tier,
     min_primary: 1, max_primary: 2, min_secondary: 1, max_secondary: 2, profile: cook}`,
		},
		{
			name: "unknown profile",
			doc: `
recipes:
  - {id: r, primary: a, secondary: b, output: c,
     min_primary: 1, max_primary: 2, min_secondary: 1, max_secondary: 2, profile: stir}`,
		},
		{
			name: "custom system with tiers and count",
			doc: `
quality_systems:
  - {name: g, count: 2, tiers: [{name: lo, multiplier: 1}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.doc), catalog.FormatYAML)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stages.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
stages:
  - {id: a, capacity: 1, processing_ticks: 1, input: x, output: y}
`), 0o600))

	def, err := catalog.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, def.Source)
	assert.Equal(t, 1, def.Stages.Len())

	_, err = catalog.LoadFile(filepath.Join(dir, "stages.toml"))
	assert.Error(t, err)

	_, err = catalog.LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoad_EmptyPathUsesBuiltin(t *testing.T) {
	def, err := catalog.Load("")
	require.NoError(t, err)
	assert.Equal(t, catalog.BuiltinSource, def.Source)
}

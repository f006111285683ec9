package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
)

// Format is a catalog file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Definition is a fully validated catalog ready to drive a world
type Definition struct {
	Stages   *processing.Catalog
	Recipes  *minigame.RecipeBook
	Registry *quality.Registry
	Source   string
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// LoadFile reads and builds a catalog file
func LoadFile(path string) (*Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	def, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	def.Source = path
	return def, nil
}

// Load returns the catalog at path, or the built-in catalog when path is empty
func Load(path string) (*Definition, error) {
	if path == "" {
		return Builtin()
	}
	return LoadFile(path)
}

// Parse decodes and builds a catalog document
func Parse(data []byte, format Format) (*Definition, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return Build(doc)
}

// Build converts a document into validated domain objects
func Build(doc Document) (*Definition, error) {
	registry := quality.DefaultRegistry()
	for _, qs := range doc.QualitySystems {
		system, err := buildSystem(qs)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(system); err != nil {
			return nil, err
		}
	}

	stages := make([]processing.StageDescriptor, 0, len(doc.Stages))
	for _, sd := range doc.Stages {
		stage, err := buildStage(sd, registry)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	cat, err := processing.NewCatalog(stages)
	if err != nil {
		return nil, err
	}

	recipes := make([]minigame.Recipe, 0, len(doc.Recipes))
	for _, rd := range doc.Recipes {
		recipe, err := buildRecipe(rd, registry)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	book, err := minigame.NewRecipeBook(recipes)
	if err != nil {
		return nil, err
	}

	return &Definition{Stages: cat, Recipes: book, Registry: registry}, nil
}

func buildSystem(qs QualitySystemDoc) (*quality.System, error) {
	if qs.Count > 0 {
		if len(qs.Tiers) > 0 {
			return nil, fmt.Errorf("quality system %s: set either count or tiers, not both", qs.Name)
		}
		return quality.NewCustom(qs.Name, qs.Count)
	}
	defs := make([]quality.TierDef, len(qs.Tiers))
	for i, t := range qs.Tiers {
		defs[i] = quality.TierDef{Name: t.Name, Multiplier: t.Multiplier}
	}
	return quality.NewSystem(qs.Name, defs)
}

func buildStage(sd StageDoc, registry *quality.Registry) (processing.StageDescriptor, error) {
	stage := processing.StageDescriptor{
		ID:               processing.StageID(sd.ID),
		Name:             sd.Name,
		Capacity:         sd.Capacity,
		ProcessingTicks:  sd.ProcessingTicks,
		DefaultOutput:    processing.Kind(sd.DefaultOutput),
		PreservesQuality: true,
		QualitySystem:    sd.QualitySystem,
		UpgradeChance:    sd.UpgradeChance,
	}
	if stage.Name == "" {
		stage.Name = sd.ID
	}
	if sd.PreservesQuality != nil {
		stage.PreservesQuality = *sd.PreservesQuality
	}
	if stage.QualitySystem == "" {
		stage.QualitySystem = quality.Standard().Name()
	}
	if _, ok := registry.System(stage.QualitySystem); !ok {
		return stage, &processing.ErrInvalidStage{StageID: stage.ID, Reason: "unknown quality system " + stage.QualitySystem}
	}

	if sd.Category != "" {
		cat, err := processing.ParseCategory(sd.Category)
		if err != nil {
			return stage, &processing.ErrInvalidStage{StageID: stage.ID, Reason: err.Error()}
		}
		stage.Category = cat
	}

	stage.Outputs = make(map[processing.Kind]processing.Kind, len(sd.Outputs)+1)
	for in, out := range sd.Outputs {
		stage.Outputs[processing.Kind(in)] = processing.Kind(out)
	}
	if sd.Input != "" || sd.Output != "" {
		if sd.Input == "" || sd.Output == "" {
			return stage, &processing.ErrInvalidStage{StageID: stage.ID, Reason: "input and output must be set together"}
		}
		stage.Outputs[processing.Kind(sd.Input)] = processing.Kind(sd.Output)
	}

	if sd.Resource != nil {
		stage.Resource = &processing.ResourceRequirement{
			Kind:     processing.ResourceKind(sd.Resource.Kind),
			Amount:   sd.Resource.Amount,
			Capacity: sd.Resource.Capacity,
		}
	}
	return stage, stage.Validate()
}

func buildRecipe(rd RecipeDoc, registry *quality.Registry) (minigame.Recipe, error) {
	recipe := minigame.Recipe{
		ID:            rd.ID,
		Name:          rd.Name,
		PrimaryKind:   processing.Kind(rd.Primary),
		SecondaryKind: processing.Kind(rd.Secondary),
		OutputKind:    processing.Kind(rd.Output),
		QualitySystem: rd.QualitySystem,
		MinPrimary:    rd.MinPrimary,
		MaxPrimary:    rd.MaxPrimary,
		MinSecondary:  rd.MinSecondary,
		MaxSecondary:  rd.MaxSecondary,
		Yield:         rd.Yield,
	}
	if recipe.Name == "" {
		recipe.Name = rd.ID
	}
	if recipe.Yield == 0 {
		recipe.Yield = minigame.DefaultYield
	}
	if recipe.QualitySystem == "" {
		recipe.QualitySystem = quality.Standard().Name()
	}

	profile, err := namedProfile(rd.Profile)
	if err != nil {
		return recipe, fmt.Errorf("recipe %s: %w", rd.ID, err)
	}
	if rd.Timing != nil {
		if profile, err = applyTiming(profile, *rd.Timing); err != nil {
			return recipe, fmt.Errorf("recipe %s: %w", rd.ID, err)
		}
	}
	recipe.Profile = profile

	if err := recipe.Validate(); err != nil {
		return recipe, err
	}
	system, ok := registry.System(recipe.QualitySystem)
	if !ok {
		return recipe, fmt.Errorf("recipe %s: unknown quality system %s", rd.ID, recipe.QualitySystem)
	}
	if len(profile.Thresholds) != system.Len()-1 {
		return recipe, fmt.Errorf("recipe %s: %d thresholds do not fit %d tiers of %s",
			rd.ID, len(profile.Thresholds), system.Len(), system.Name())
	}
	return recipe, nil
}

func namedProfile(name string) (minigame.TimingProfile, error) {
	switch strings.ToLower(name) {
	case "", "cook":
		return minigame.CookProfile(), nil
	case "press":
		return minigame.PressProfile(), nil
	default:
		return minigame.TimingProfile{}, fmt.Errorf("unknown timing profile %q", name)
	}
}

func applyTiming(p minigame.TimingProfile, t TimingDoc) (minigame.TimingProfile, error) {
	if t.CycleTicks > 0 {
		p.CycleTicks = t.CycleTicks
	}
	if len(t.PerfectWindow) > 0 {
		if len(t.PerfectWindow) != 2 {
			return p, fmt.Errorf("perfect_window needs [start, end]")
		}
		p.PerfectStart, p.PerfectEnd = t.PerfectWindow[0], t.PerfectWindow[1]
		p.GoodCenter = p.PerfectCenter()
	}
	if len(t.GoodWindow) > 0 {
		if len(t.GoodWindow) != 2 {
			return p, fmt.Errorf("good_window needs [start, end]")
		}
		p.GoodStart, p.GoodEnd = t.GoodWindow[0], t.GoodWindow[1]
	}
	if len(t.Thresholds) > 0 {
		p.Thresholds = append([]float64(nil), t.Thresholds...)
	}
	return p, nil
}

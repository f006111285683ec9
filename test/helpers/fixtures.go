package helpers

import (
	"testing"

	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// DryingStage is a three-slot, ten-tick stage without a resource
func DryingStage() processing.StageDescriptor {
	return processing.StageDescriptor{
		ID:               "tobacco.drying",
		Name:             "Tobacco Drying Rack",
		Category:         processing.CategoryPlant,
		Capacity:         3,
		ProcessingTicks:  10,
		Outputs:          map[processing.Kind]processing.Kind{"fresh_tobacco_leaf": "dried_tobacco_leaf"},
		PreservesQuality: true,
		QualitySystem:    "standard",
	}
}

// ExtractionStage is a three-slot, ten-tick stage drawing 5 diesel
func ExtractionStage() processing.StageDescriptor {
	return processing.StageDescriptor{
		ID:               "coca.extraction",
		Name:             "Coca Extraction Barrel",
		Category:         processing.CategoryExtract,
		Capacity:         3,
		ProcessingTicks:  10,
		Resource:         &processing.ResourceRequirement{Kind: "diesel", Amount: 5, Capacity: 100},
		Outputs:          map[processing.Kind]processing.Kind{"coca_leaf": "coca_paste"},
		PreservesQuality: true,
		QualitySystem:    "standard",
	}
}

// CookerRecipe is a crack cooker recipe on the cook profile
func CookerRecipe() minigame.Recipe {
	return minigame.Recipe{
		ID:            "crack.cooker",
		Name:          "Crack Cooker",
		PrimaryKind:   "cocaine",
		SecondaryKind: "baking_soda",
		OutputKind:    "crack",
		QualitySystem: "standard",
		MinPrimary:    1,
		MaxPrimary:    10,
		MinSecondary:  1,
		MaxSecondary:  5,
		Yield:         minigame.DefaultYield,
		Profile:       minigame.CookProfile(),
	}
}

// NewTestCatalog builds a catalog from the given stages, defaulting to the
// drying and extraction fixtures
func NewTestCatalog(t *testing.T, stages ...processing.StageDescriptor) *processing.Catalog {
	t.Helper()
	if len(stages) == 0 {
		stages = []processing.StageDescriptor{DryingStage(), ExtractionStage()}
	}
	c, err := processing.NewCatalog(stages)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return c
}

// NewTestRecipeBook builds a recipe book holding the cooker recipe
func NewTestRecipeBook(t *testing.T) *minigame.RecipeBook {
	t.Helper()
	b, err := minigame.NewRecipeBook([]minigame.Recipe{CookerRecipe()})
	if err != nil {
		t.Fatalf("failed to build recipe book: %v", err)
	}
	return b
}

package minigame

import (
	"fmt"

	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// DefaultYield is the share of primary ingredient that ends up in the product
const DefaultYield = 0.8

// Recipe describes the ingredients, limits and timing of one minigame station
type Recipe struct {
	ID            string
	Name          string
	PrimaryKind   processing.Kind
	SecondaryKind processing.Kind
	OutputKind    processing.Kind
	QualitySystem string

	MinPrimary   int
	MaxPrimary   int
	MinSecondary int
	MaxSecondary int
	Yield        float64

	Profile TimingProfile
}

// Validate checks the recipe and its profile
func (r Recipe) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("recipe id cannot be empty")
	}
	if r.PrimaryKind == "" || r.SecondaryKind == "" || r.OutputKind == "" {
		return fmt.Errorf("recipe %s: primary, secondary and output kinds are required", r.ID)
	}
	if r.MinPrimary <= 0 || r.MaxPrimary < r.MinPrimary {
		return fmt.Errorf("recipe %s: primary limits must satisfy 0 < min <= max", r.ID)
	}
	if r.MinSecondary <= 0 || r.MaxSecondary < r.MinSecondary {
		return fmt.Errorf("recipe %s: secondary limits must satisfy 0 < min <= max", r.ID)
	}
	if r.Yield <= 0 || r.Yield > 1 {
		return fmt.Errorf("recipe %s: yield must be within (0,1]", r.ID)
	}
	return r.Profile.Validate()
}

// RecipeBook indexes recipes by id
type RecipeBook struct {
	recipes map[string]Recipe
	order   []string
}

// NewRecipeBook validates and indexes recipes
func NewRecipeBook(recipes []Recipe) (*RecipeBook, error) {
	b := &RecipeBook{recipes: make(map[string]Recipe, len(recipes))}
	for _, r := range recipes {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, exists := b.recipes[r.ID]; exists {
			return nil, fmt.Errorf("duplicate recipe id: %s", r.ID)
		}
		b.recipes[r.ID] = r
		b.order = append(b.order, r.ID)
	}
	return b, nil
}

func (b *RecipeBook) Lookup(id string) (Recipe, bool) {
	r, ok := b.recipes[id]
	return r, ok
}

// Recipes returns recipes in declaration order
func (b *RecipeBook) Recipes() []Recipe {
	out := make([]Recipe, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.recipes[id])
	}
	return out
}

// KnownKind reports whether any recipe uses or produces the kind
func (b *RecipeBook) KnownKind(k processing.Kind) bool {
	for _, r := range b.recipes {
		if r.PrimaryKind == k || r.SecondaryKind == k || r.OutputKind == k {
			return true
		}
	}
	return false
}

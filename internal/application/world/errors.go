package world

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrUnitNotFound indicates no unit exists with the given id
type ErrUnitNotFound struct {
	UnitID uuid.UUID
}

func (e *ErrUnitNotFound) Error() string {
	return fmt.Sprintf("unit not found: %s", e.UnitID)
}

// ErrMinigameNotFound indicates no minigame exists with the given id
type ErrMinigameNotFound struct {
	MinigameID uuid.UUID
}

func (e *ErrMinigameNotFound) Error() string {
	return fmt.Sprintf("minigame not found: %s", e.MinigameID)
}

// ErrUnknownRecipe indicates a recipe id missing from the recipe book
type ErrUnknownRecipe struct {
	RecipeID string
}

func (e *ErrUnknownRecipe) Error() string {
	return fmt.Sprintf("unknown recipe: %s", e.RecipeID)
}

// ErrDuplicateID indicates an entity id is already placed
type ErrDuplicateID struct {
	ID uuid.UUID
}

func (e *ErrDuplicateID) Error() string {
	return fmt.Sprintf("id already in use: %s", e.ID)
}

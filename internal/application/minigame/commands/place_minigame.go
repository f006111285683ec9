package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
)

// PlaceMinigameCommand places a timing station for a recipe
type PlaceMinigameCommand struct {
	RecipeID   string
	MinigameID uuid.UUID // Optional: generated when nil
}

// PlaceMinigameResponse contains the placed station id
type PlaceMinigameResponse struct {
	MinigameID uuid.UUID
	RecipeID   string
}

// PlaceMinigameHandler handles PlaceMinigameCommand
type PlaceMinigameHandler struct {
	world *world.World
}

// NewPlaceMinigameHandler creates a new handler
func NewPlaceMinigameHandler(w *world.World) *PlaceMinigameHandler {
	return &PlaceMinigameHandler{world: w}
}

// Handle executes the command
func (h *PlaceMinigameHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*PlaceMinigameCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PlaceMinigameCommand")
	}

	id, err := h.world.PlaceMinigame(cmd.RecipeID, cmd.MinigameID)
	if err != nil {
		return nil, fmt.Errorf("failed to place minigame: %w", err)
	}
	return &PlaceMinigameResponse{MinigameID: id, RecipeID: cmd.RecipeID}, nil
}

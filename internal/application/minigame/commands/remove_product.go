package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
)

// RemoveProductCommand ends a cycle at the current tick
type RemoveProductCommand struct {
	MinigameID uuid.UUID
}

// RemoveProductResponse carries the scored result
type RemoveProductResponse struct {
	Resolution minigame.Resolution
}

// RemoveProductHandler handles RemoveProductCommand
type RemoveProductHandler struct {
	world *world.World
}

// NewRemoveProductHandler creates a new handler
func NewRemoveProductHandler(w *world.World) *RemoveProductHandler {
	return &RemoveProductHandler{world: w}
}

// Handle executes the command
func (h *RemoveProductHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RemoveProductCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RemoveProductCommand")
	}

	resp := &RemoveProductResponse{}
	err := h.world.WithMinigame(cmd.MinigameID, func(m *minigame.Minigame) error {
		res, err := m.Remove()
		resp.Resolution = res
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove product: %w", err)
	}
	return resp, nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/adapters/metrics"
	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
)

// CancelCookingCommand aborts a cycle; loaded ingredients are lost
type CancelCookingCommand struct {
	MinigameID uuid.UUID
}

// CancelCookingResponse reports the phase after cancelling
type CancelCookingResponse struct {
	Phase minigame.Phase
}

// CancelCookingHandler handles CancelCookingCommand
type CancelCookingHandler struct {
	world *world.World
}

// NewCancelCookingHandler creates a new handler
func NewCancelCookingHandler(w *world.World) *CancelCookingHandler {
	return &CancelCookingHandler{world: w}
}

// Handle executes the command
func (h *CancelCookingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CancelCookingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CancelCookingCommand")
	}

	resp := &CancelCookingResponse{}
	var recipeID string
	err := h.world.WithMinigame(cmd.MinigameID, func(m *minigame.Minigame) error {
		if err := m.Cancel(); err != nil {
			return err
		}
		resp.Phase = m.Phase()
		recipeID = m.Recipe().ID
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel cooking: %w", err)
	}

	metrics.RecordMinigameCancelled(recipeID)
	return resp, nil
}

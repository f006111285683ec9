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

// StartCookingCommand begins a timing cycle
type StartCookingCommand struct {
	MinigameID uuid.UUID
	ActorID    uuid.UUID // Filled from context by the actor middleware when nil
}

// StartCookingResponse reports the new phase
type StartCookingResponse struct {
	Phase      minigame.Phase
	CycleTicks int
}

// StartCookingHandler handles StartCookingCommand
type StartCookingHandler struct {
	world *world.World
}

// NewStartCookingHandler creates a new handler
func NewStartCookingHandler(w *world.World) *StartCookingHandler {
	return &StartCookingHandler{world: w}
}

// Handle executes the command
func (h *StartCookingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*StartCookingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StartCookingCommand")
	}

	resp := &StartCookingResponse{}
	var recipeID string
	err := h.world.WithMinigame(cmd.MinigameID, func(m *minigame.Minigame) error {
		if err := m.Start(cmd.ActorID); err != nil {
			return err
		}
		resp.Phase = m.Phase()
		recipeID = m.Recipe().ID
		resp.CycleTicks = m.Recipe().Profile.CycleTicks
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start cooking: %w", err)
	}

	metrics.RecordMinigameStarted(recipeID)
	return resp, nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
)

// TickWorldCommand advances the world by a number of ticks
type TickWorldCommand struct {
	Ticks int
}

// TickWorldResponse aggregates every tick that was run
type TickWorldResponse struct {
	Tick        int64
	Ticks       int
	Advanced    int
	Completed   int
	Paused      int
	Consumed    int
	Resolutions []world.MinigameResolution
}

// TickWorldHandler handles TickWorldCommand
type TickWorldHandler struct {
	world *world.World
}

// NewTickWorldHandler creates a new handler
func NewTickWorldHandler(w *world.World) *TickWorldHandler {
	return &TickWorldHandler{world: w}
}

// Handle executes the command. It stops early when ctx is cancelled.
func (h *TickWorldHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*TickWorldCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *TickWorldCommand")
	}
	if cmd.Ticks <= 0 {
		return nil, shared.NewValidationError("ticks", fmt.Sprintf("must be positive, got %d", cmd.Ticks))
	}

	resp := &TickWorldResponse{}
	for i := 0; i < cmd.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		report := h.world.Tick(ctx)
		resp.Tick = report.Tick
		resp.Ticks++
		resp.Advanced += report.Advanced
		resp.Completed += report.Completed
		resp.Paused += report.Paused
		resp.Consumed += report.Consumed
		resp.Resolutions = append(resp.Resolutions, report.Resolutions...)
	}
	return resp, nil
}

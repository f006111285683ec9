package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// ExtractOutputCommand drains every ready slot of a unit
type ExtractOutputCommand struct {
	UnitID uuid.UUID
	// Grouped keeps stacks of different quality apart instead of merging
	// them under the first ready slot's kind and tier
	Grouped bool
}

// ExtractOutputResponse holds the extracted stacks; empty when nothing was ready
type ExtractOutputResponse struct {
	Materials []processing.Material
}

// ExtractOutputHandler handles ExtractOutputCommand
type ExtractOutputHandler struct {
	world *world.World
}

// NewExtractOutputHandler creates a new handler
func NewExtractOutputHandler(w *world.World) *ExtractOutputHandler {
	return &ExtractOutputHandler{world: w}
}

// Handle executes the command
func (h *ExtractOutputHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ExtractOutputCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExtractOutputCommand")
	}

	resp := &ExtractOutputResponse{}
	err := h.world.WithUnit(cmd.UnitID, func(u *processing.Unit) error {
		if cmd.Grouped {
			resp.Materials = u.ExtractGrouped()
			return nil
		}
		if m, ok := u.ExtractAll(); ok {
			resp.Materials = []processing.Material{m}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// ExtractProductCommand takes the resolved product out of a station
type ExtractProductCommand struct {
	MinigameID uuid.UUID
}

// ExtractProductResponse holds the product; Extracted is false when nothing was pending
type ExtractProductResponse struct {
	Product   processing.Material
	Extracted bool
}

// ExtractProductHandler handles ExtractProductCommand
type ExtractProductHandler struct {
	world *world.World
}

// NewExtractProductHandler creates a new handler
func NewExtractProductHandler(w *world.World) *ExtractProductHandler {
	return &ExtractProductHandler{world: w}
}

// Handle executes the command
func (h *ExtractProductHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ExtractProductCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExtractProductCommand")
	}

	resp := &ExtractProductResponse{}
	err := h.world.WithMinigame(cmd.MinigameID, func(m *minigame.Minigame) error {
		resp.Product, resp.Extracted = m.Extract()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

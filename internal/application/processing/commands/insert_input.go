package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// InsertInputCommand places material into the first free slot of a unit
type InsertInputCommand struct {
	UnitID        uuid.UUID
	Kind          string
	QualitySystem string // Optional: defaults to the standard system
	Quality       string // Optional: defaults to the system's middle tier
	Amount        int
}

// InsertInputResponse reports whether the unit took the material. A
// rejection is not an error: the caller keeps the material.
type InsertInputResponse struct {
	Accepted bool
	Material processing.Material
	Summary  processing.OccupancySummary
}

// InsertInputHandler handles InsertInputCommand
type InsertInputHandler struct {
	world *world.World
}

// NewInsertInputHandler creates a new handler
func NewInsertInputHandler(w *world.World) *InsertInputHandler {
	return &InsertInputHandler{world: w}
}

// Handle executes the command
func (h *InsertInputHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*InsertInputCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *InsertInputCommand")
	}

	material, err := h.world.ResolveMaterial(cmd.Kind, cmd.QualitySystem, cmd.Quality, cmd.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	resp := &InsertInputResponse{Material: material}
	err = h.world.WithUnit(cmd.UnitID, func(u *processing.Unit) error {
		resp.Accepted = u.Insert(material)
		resp.Summary = u.Summary()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

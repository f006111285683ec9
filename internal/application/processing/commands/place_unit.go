package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
)

// PlaceUnitCommand places a processing unit for a catalog stage
type PlaceUnitCommand struct {
	StageID string
	UnitID  uuid.UUID // Optional: generated when nil
}

// PlaceUnitResponse contains the placed unit
type PlaceUnitResponse struct {
	UnitID   uuid.UUID
	StageID  string
	Capacity int
	Inert    bool
	Error    string // why an inert unit has no stage
}

// PlaceUnitHandler handles PlaceUnitCommand
type PlaceUnitHandler struct {
	world *world.World
}

// NewPlaceUnitHandler creates a new handler
func NewPlaceUnitHandler(w *world.World) *PlaceUnitHandler {
	return &PlaceUnitHandler{world: w}
}

// Handle executes the command
func (h *PlaceUnitHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*PlaceUnitCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PlaceUnitCommand")
	}
	if cmd.StageID == "" {
		return nil, shared.NewValidationError("stage_id", "is required")
	}

	id, err := h.world.PlaceUnit(processing.StageID(cmd.StageID), cmd.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to place unit: %w", err)
	}

	resp := &PlaceUnitResponse{UnitID: id, StageID: cmd.StageID}
	err = h.world.WithUnit(id, func(u *processing.Unit) error {
		resp.Capacity = u.Capacity()
		resp.Inert = u.Inert()
		if cfgErr := u.ConfigError(); cfgErr != nil {
			resp.Error = cfgErr.Error()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// GetUnitStatusQuery reads one unit
type GetUnitStatusQuery struct {
	UnitID uuid.UUID
}

// GetUnitStatusResponse holds the unit's read model
type GetUnitStatusResponse struct {
	Status UnitStatus
}

// GetUnitStatusHandler handles GetUnitStatusQuery
type GetUnitStatusHandler struct {
	world *world.World
}

// NewGetUnitStatusHandler creates a new handler
func NewGetUnitStatusHandler(w *world.World) *GetUnitStatusHandler {
	return &GetUnitStatusHandler{world: w}
}

// Handle executes the query
func (h *GetUnitStatusHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetUnitStatusQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetUnitStatusQuery")
	}

	resp := &GetUnitStatusResponse{}
	err := h.world.WithUnit(query.UnitID, func(u *processing.Unit) error {
		resp.Status = buildUnitStatus(query.UnitID, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get unit status: %w", err)
	}
	return resp, nil
}

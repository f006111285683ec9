package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// ListUnitsQuery lists every unit, optionally filtered by stage
type ListUnitsQuery struct {
	StageID string // Optional
}

// ListUnitsResponse holds units in placement order
type ListUnitsResponse struct {
	Units []UnitStatus
}

// ListUnitsHandler handles ListUnitsQuery
type ListUnitsHandler struct {
	world *world.World
}

// NewListUnitsHandler creates a new handler
func NewListUnitsHandler(w *world.World) *ListUnitsHandler {
	return &ListUnitsHandler{world: w}
}

// Handle executes the query
func (h *ListUnitsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListUnitsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListUnitsQuery")
	}

	resp := &ListUnitsResponse{}
	for _, id := range h.world.Units() {
		err := h.world.WithUnit(id, func(u *processing.Unit) error {
			if query.StageID != "" && string(u.StageID()) != query.StageID {
				return nil
			}
			resp.Units = append(resp.Units, buildUnitStatus(id, u))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

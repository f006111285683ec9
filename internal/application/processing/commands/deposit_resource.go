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

// DepositResourceCommand tops up a unit's resource gate
type DepositResourceCommand struct {
	UnitID uuid.UUID
	Amount int
}

// DepositResourceResponse reports the accepted amount and the new level
type DepositResourceResponse struct {
	Accepted int
	Kind     processing.ResourceKind
	Level    int
	Capacity int
}

// DepositResourceHandler handles DepositResourceCommand
type DepositResourceHandler struct {
	world *world.World
}

// NewDepositResourceHandler creates a new handler
func NewDepositResourceHandler(w *world.World) *DepositResourceHandler {
	return &DepositResourceHandler{world: w}
}

// Handle executes the command
func (h *DepositResourceHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DepositResourceCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DepositResourceCommand")
	}
	if cmd.Amount <= 0 {
		return nil, shared.NewValidationError("amount", fmt.Sprintf("must be positive, got %d", cmd.Amount))
	}

	resp := &DepositResourceResponse{}
	err := h.world.WithUnit(cmd.UnitID, func(u *processing.Unit) error {
		kind, _, _, ok := u.Resource()
		if !ok {
			return shared.NewValidationError("unit_id", fmt.Sprintf("unit %s does not use a resource", cmd.UnitID))
		}
		resp.Accepted = u.Deposit(cmd.Amount)
		resp.Kind = kind
		_, resp.Level, resp.Capacity, _ = u.Resource()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

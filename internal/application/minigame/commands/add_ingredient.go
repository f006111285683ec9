package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
)

// Ingredient roles
const (
	RolePrimary   = "primary"
	RoleSecondary = "secondary"
)

// AddIngredientCommand loads an ingredient; the role follows from the kind
type AddIngredientCommand struct {
	MinigameID    uuid.UUID
	Kind          string
	QualitySystem string
	Quality       string
	Amount        int
}

// AddIngredientResponse reports the accepted amount
type AddIngredientResponse struct {
	Role      string
	Accepted  int
	Primary   int
	Secondary int
	Phase     minigame.Phase
}

// AddIngredientHandler handles AddIngredientCommand
type AddIngredientHandler struct {
	world *world.World
}

// NewAddIngredientHandler creates a new handler
func NewAddIngredientHandler(w *world.World) *AddIngredientHandler {
	return &AddIngredientHandler{world: w}
}

// Handle executes the command
func (h *AddIngredientHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AddIngredientCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddIngredientCommand")
	}

	material, err := h.world.ResolveMaterial(cmd.Kind, cmd.QualitySystem, cmd.Quality, cmd.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid ingredient: %w", err)
	}

	resp := &AddIngredientResponse{}
	err = h.world.WithMinigame(cmd.MinigameID, func(m *minigame.Minigame) error {
		recipe := m.Recipe()
		var err error
		switch material.Kind {
		case recipe.PrimaryKind:
			resp.Role = RolePrimary
			resp.Accepted, err = m.AddPrimary(material)
		case recipe.SecondaryKind:
			resp.Role = RoleSecondary
			resp.Accepted, err = m.AddSecondary(material)
		default:
			return &minigame.ErrIngredientRejected{Kind: material.Kind, Reason: "not used by " + recipe.ID}
		}
		resp.Primary = m.Primary()
		resp.Secondary = m.Secondary()
		resp.Phase = m.Phase()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add ingredient: %w", err)
	}
	return resp, nil
}

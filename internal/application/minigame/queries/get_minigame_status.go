package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
)

// GetMinigameStatusQuery reads one timing station
type GetMinigameStatusQuery struct {
	MinigameID uuid.UUID
}

// MinigameStatus is the read model of a station
type MinigameStatus struct {
	MinigameID   uuid.UUID
	RecipeID     string
	RecipeName   string
	Phase        minigame.Phase
	Primary      int
	Secondary    int
	InputQuality quality.Tier
	CookTick     int
	CycleTicks   int
	Zone         minigame.Zone
	Progress     float64
	LastScore    float64
	Actor        uuid.UUID
	Output       processing.Material
	HasOutput    bool
}

// GetMinigameStatusResponse holds the read model
type GetMinigameStatusResponse struct {
	Status MinigameStatus
}

// GetMinigameStatusHandler handles GetMinigameStatusQuery
type GetMinigameStatusHandler struct {
	world *world.World
}

// NewGetMinigameStatusHandler creates a new handler
func NewGetMinigameStatusHandler(w *world.World) *GetMinigameStatusHandler {
	return &GetMinigameStatusHandler{world: w}
}

// Handle executes the query
func (h *GetMinigameStatusHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetMinigameStatusQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetMinigameStatusQuery")
	}

	resp := &GetMinigameStatusResponse{}
	err := h.world.WithMinigame(query.MinigameID, func(m *minigame.Minigame) error {
		recipe := m.Recipe()
		out, has := m.Output()
		resp.Status = MinigameStatus{
			MinigameID:   m.ID(),
			RecipeID:     recipe.ID,
			RecipeName:   recipe.Name,
			Phase:        m.Phase(),
			Primary:      m.Primary(),
			Secondary:    m.Secondary(),
			InputQuality: m.InputQuality(),
			CookTick:     m.CookTick(),
			CycleTicks:   recipe.Profile.CycleTicks,
			Zone:         m.CurrentZone(),
			Progress:     m.Progress(),
			LastScore:    m.LastScore(),
			Actor:        m.Actor(),
			Output:       out,
			HasOutput:    has,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get minigame status: %w", err)
	}
	return resp, nil
}

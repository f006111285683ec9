package setup_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/application/auth"
	"github.com/andrescamacho/slotworks-go/internal/application/mediator"
	minigameCommands "github.com/andrescamacho/slotworks-go/internal/application/minigame/commands"
	minigameQueries "github.com/andrescamacho/slotworks-go/internal/application/minigame/queries"
	processingCommands "github.com/andrescamacho/slotworks-go/internal/application/processing/commands"
	processingQueries "github.com/andrescamacho/slotworks-go/internal/application/processing/queries"
	"github.com/andrescamacho/slotworks-go/internal/application/setup"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
	"github.com/andrescamacho/slotworks-go/test/helpers"
)

func newMediator(t *testing.T) mediator.Mediator {
	t.Helper()
	w := world.NewWorld(helpers.NewTestCatalog(t), helpers.NewTestRecipeBook(t), nil,
		world.WithRandom(shared.NewSequenceRandom(0.99)))
	m, err := setup.NewHandlerRegistry(w, &helpers.RecordingLogger{}).CreateConfiguredMediator()
	require.NoError(t, err)
	return m
}

func send[T any](t *testing.T, m mediator.Mediator, ctx context.Context, request mediator.Request) T {
	t.Helper()
	resp, err := m.Send(ctx, request)
	require.NoError(t, err)
	typed, ok := resp.(T)
	require.True(t, ok, "unexpected response type %T", resp)
	return typed
}

func TestProcessingCommands_FullCycle(t *testing.T) {
	// Arrange
	ctx := context.Background()
	m := newMediator(t)
	placed := send[*processingCommands.PlaceUnitResponse](t, m, ctx, &processingCommands.PlaceUnitCommand{StageID: "coca.extraction"})
	require.False(t, placed.Inert)
	assert.Equal(t, 3, placed.Capacity)

	// Act: insert without diesel, tick, then deposit and tick to completion
	inserted := send[*processingCommands.InsertInputResponse](t, m, ctx, &processingCommands.InsertInputCommand{
		UnitID: placed.UnitID, Kind: "coca_leaf", Quality: "good", Amount: 4,
	})
	paused := send[*processingCommands.TickWorldResponse](t, m, ctx, &processingCommands.TickWorldCommand{Ticks: 5})
	deposit := send[*processingCommands.DepositResourceResponse](t, m, ctx, &processingCommands.DepositResourceCommand{
		UnitID: placed.UnitID, Amount: 500,
	})
	ran := send[*processingCommands.TickWorldResponse](t, m, ctx, &processingCommands.TickWorldCommand{Ticks: 10})
	status := send[*processingQueries.GetUnitStatusResponse](t, m, ctx, &processingQueries.GetUnitStatusQuery{UnitID: placed.UnitID})
	extracted := send[*processingCommands.ExtractOutputResponse](t, m, ctx, &processingCommands.ExtractOutputCommand{UnitID: placed.UnitID})

	// Assert
	assert.True(t, inserted.Accepted)
	assert.Equal(t, 5, paused.Paused)
	assert.Equal(t, 0, paused.Advanced)
	assert.Equal(t, 100, deposit.Accepted)
	assert.Equal(t, 100, deposit.Level)
	assert.Equal(t, 1, ran.Completed)
	assert.Equal(t, processing.SlotReady, status.Status.Slots[0].State)
	assert.Equal(t, 1.0, status.Status.Slots[0].Fraction)
	require.Len(t, extracted.Materials, 1)
	assert.Equal(t, processing.Kind("coca_paste"), extracted.Materials[0].Kind)
	assert.Equal(t, 4, extracted.Materials[0].Amount)
}

func TestProcessingCommands_InsertIntoFullUnitIsRejected(t *testing.T) {
	ctx := context.Background()
	m := newMediator(t)
	placed := send[*processingCommands.PlaceUnitResponse](t, m, ctx, &processingCommands.PlaceUnitCommand{StageID: "tobacco.drying"})

	var last *processingCommands.InsertInputResponse
	for i := 0; i < 4; i++ {
		last = send[*processingCommands.InsertInputResponse](t, m, ctx, &processingCommands.InsertInputCommand{
			UnitID: placed.UnitID, Kind: "fresh_tobacco_leaf", Amount: 1,
		})
	}

	assert.False(t, last.Accepted)
	assert.True(t, last.Summary.IsFull())
}

func TestProcessingCommands_Errors(t *testing.T) {
	ctx := context.Background()
	m := newMediator(t)

	_, err := m.Send(ctx, &processingCommands.InsertInputCommand{UnitID: uuid.New(), Kind: "coca_leaf", Amount: 1})
	var notFound *world.ErrUnitNotFound
	assert.ErrorAs(t, err, &notFound)

	_, err = m.Send(ctx, &processingCommands.TickWorldCommand{Ticks: 0})
	assert.Error(t, err)

	placed := send[*processingCommands.PlaceUnitResponse](t, m, ctx, &processingCommands.PlaceUnitCommand{StageID: "tobacco.drying"})
	_, err = m.Send(ctx, &processingCommands.DepositResourceCommand{UnitID: placed.UnitID, Amount: 5})
	assert.Error(t, err)
}

func TestProcessingQueries_ListUnitsIncludesInert(t *testing.T) {
	ctx := context.Background()
	m := newMediator(t)
	send[*processingCommands.PlaceUnitResponse](t, m, ctx, &processingCommands.PlaceUnitCommand{StageID: "tobacco.drying"})
	inert := send[*processingCommands.PlaceUnitResponse](t, m, ctx, &processingCommands.PlaceUnitCommand{StageID: "removed.stage"})

	list := send[*processingQueries.ListUnitsResponse](t, m, ctx, &processingQueries.ListUnitsQuery{})

	require.Len(t, list.Units, 2)
	assert.True(t, inert.Inert)
	assert.NotEmpty(t, inert.Error)
	assert.True(t, list.Units[1].Inert)

	filtered := send[*processingQueries.ListUnitsResponse](t, m, ctx, &processingQueries.ListUnitsQuery{StageID: "tobacco.drying"})
	assert.Len(t, filtered.Units, 1)
}

func TestMinigameCommands_CookAtPerfectTiming(t *testing.T) {
	// Arrange
	actor := uuid.New()
	ctx := auth.WithActor(context.Background(), actor)
	m := newMediator(t)
	placed := send[*minigameCommands.PlaceMinigameResponse](t, m, ctx, &minigameCommands.PlaceMinigameCommand{RecipeID: "crack.cooker"})

	primary := send[*minigameCommands.AddIngredientResponse](t, m, ctx, &minigameCommands.AddIngredientCommand{
		MinigameID: placed.MinigameID, Kind: "cocaine", Quality: "very_good", Amount: 5,
	})
	secondary := send[*minigameCommands.AddIngredientResponse](t, m, ctx, &minigameCommands.AddIngredientCommand{
		MinigameID: placed.MinigameID, Kind: "baking_soda", Amount: 1,
	})

	// Act
	started := send[*minigameCommands.StartCookingResponse](t, m, ctx, &minigameCommands.StartCookingCommand{MinigameID: placed.MinigameID})
	send[*processingCommands.TickWorldResponse](t, m, ctx, &processingCommands.TickWorldCommand{Ticks: 40})
	status := send[*minigameQueries.GetMinigameStatusResponse](t, m, ctx, &minigameQueries.GetMinigameStatusQuery{MinigameID: placed.MinigameID})
	removed := send[*minigameCommands.RemoveProductResponse](t, m, ctx, &minigameCommands.RemoveProductCommand{MinigameID: placed.MinigameID})
	product := send[*minigameCommands.ExtractProductResponse](t, m, ctx, &minigameCommands.ExtractProductCommand{MinigameID: placed.MinigameID})

	// Assert
	assert.Equal(t, minigameCommands.RolePrimary, primary.Role)
	assert.Equal(t, minigameCommands.RoleSecondary, secondary.Role)
	assert.Equal(t, minigame.PhaseCooking, started.Phase)
	assert.Equal(t, 80, started.CycleTicks)
	assert.Equal(t, actor, status.Status.Actor)
	assert.Equal(t, minigame.ZonePerfect, status.Status.Zone)
	assert.InDelta(t, 0.5, status.Status.Progress, 1e-9)
	assert.Equal(t, "legendary", removed.Resolution.Tier.Name())
	require.True(t, product.Extracted)
	assert.Equal(t, 4, product.Product.Amount)
}

func TestMinigameCommands_CancelAndInvalidPhase(t *testing.T) {
	ctx := context.Background()
	m := newMediator(t)
	placed := send[*minigameCommands.PlaceMinigameResponse](t, m, ctx, &minigameCommands.PlaceMinigameCommand{RecipeID: "crack.cooker"})

	_, err := m.Send(ctx, &minigameCommands.CancelCookingCommand{MinigameID: placed.MinigameID})
	var phaseErr *minigame.ErrInvalidPhase
	assert.ErrorAs(t, err, &phaseErr)

	_, err = m.Send(ctx, &minigameCommands.AddIngredientCommand{MinigameID: placed.MinigameID, Kind: "coca_leaf", Amount: 1})
	var rejected *minigame.ErrIngredientRejected
	assert.ErrorAs(t, err, &rejected)

	send[*minigameCommands.AddIngredientResponse](t, m, ctx, &minigameCommands.AddIngredientCommand{MinigameID: placed.MinigameID, Kind: "cocaine", Amount: 2})
	send[*minigameCommands.AddIngredientResponse](t, m, ctx, &minigameCommands.AddIngredientCommand{MinigameID: placed.MinigameID, Kind: "baking_soda", Amount: 2})
	send[*minigameCommands.StartCookingResponse](t, m, ctx, &minigameCommands.StartCookingCommand{MinigameID: placed.MinigameID, ActorID: uuid.New()})
	cancelled := send[*minigameCommands.CancelCookingResponse](t, m, ctx, &minigameCommands.CancelCookingCommand{MinigameID: placed.MinigameID})

	assert.Equal(t, minigame.PhaseIdle, cancelled.Phase)
	status := send[*minigameQueries.GetMinigameStatusResponse](t, m, ctx, &minigameQueries.GetMinigameStatusQuery{MinigameID: placed.MinigameID})
	assert.Equal(t, 0, status.Status.Primary)
	assert.Equal(t, 0, status.Status.Secondary)
}

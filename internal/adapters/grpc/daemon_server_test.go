package grpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	daemon "github.com/andrescamacho/slotworks-go/internal/adapters/grpc"
	"github.com/andrescamacho/slotworks-go/internal/application/setup"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
	"github.com/andrescamacho/slotworks-go/test/helpers"
)

// startDaemon serves a fresh world over an in-memory listener
func startDaemon(t *testing.T) (*world.World, *daemon.DaemonClient) {
	t.Helper()
	w := world.NewWorld(helpers.NewTestCatalog(t), helpers.NewTestRecipeBook(t), nil,
		world.WithRandom(shared.NewSequenceRandom(0.99)))
	m, err := setup.NewHandlerRegistry(w, &helpers.RecordingLogger{}).CreateConfiguredMediator()
	require.NoError(t, err)

	listener := bufconn.Listen(1 << 20)
	server := daemon.NewDaemonServerWithListener(m, w, listener)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	client := daemon.NewDaemonClientFromConn(conn)
	t.Cleanup(func() { client.Close() })
	return w, client
}

func tick(w *world.World, n int) {
	for i := 0; i < n; i++ {
		w.Tick(context.Background())
	}
}

func TestDaemonServer_ProcessingRoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	w, client := startDaemon(t)

	placed, err := client.PlaceUnit(ctx, &daemon.PlaceUnitRequest{StageID: "tobacco.drying"})
	require.NoError(t, err)
	require.False(t, placed.Inert)

	// Act
	inserted, err := client.InsertInput(ctx, &daemon.InsertInputRequest{
		UnitID: placed.UnitID, Kind: "fresh_tobacco_leaf", Quality: "good", Amount: 3,
	})
	require.NoError(t, err)
	tick(w, 10)
	unit, err := client.UnitStatus(ctx, placed.UnitID)
	require.NoError(t, err)
	extracted, err := client.ExtractOutput(ctx, &daemon.ExtractOutputRequest{UnitID: placed.UnitID})
	require.NoError(t, err)

	// Assert
	assert.True(t, inserted.Accepted)
	assert.Equal(t, "standard", inserted.Material.QualitySystem)
	assert.Equal(t, 1, inserted.Summary.InputCount)
	assert.Equal(t, "Tobacco Drying Rack", unit.StageName)
	require.Len(t, unit.Slots, 3)
	assert.Equal(t, 1.0, unit.Slots[0].Fraction)
	require.NotNil(t, unit.Slots[0].Output)
	require.Len(t, extracted.Materials, 1)
	assert.Equal(t, "dried_tobacco_leaf", extracted.Materials[0].Kind)
	assert.Equal(t, 3, extracted.Materials[0].Amount)
}

func TestDaemonServer_ListUnitsAndInfo(t *testing.T) {
	ctx := context.Background()
	_, client := startDaemon(t)

	_, err := client.PlaceUnit(ctx, &daemon.PlaceUnitRequest{StageID: "tobacco.drying"})
	require.NoError(t, err)
	inert, err := client.PlaceUnit(ctx, &daemon.PlaceUnitRequest{StageID: "gone.stage"})
	require.NoError(t, err)

	all, err := client.ListUnits(ctx, "")
	require.NoError(t, err)
	filtered, err := client.ListUnits(ctx, "gone.stage")
	require.NoError(t, err)
	info, err := client.EngineInfo(ctx)
	require.NoError(t, err)

	assert.Len(t, all.Units, 2)
	require.Len(t, filtered.Units, 1)
	assert.True(t, filtered.Units[0].Inert)
	assert.NotEmpty(t, inert.Error)
	assert.Equal(t, 2, info.Units)
	assert.Equal(t, 2, info.Stages)
	assert.Equal(t, 1, info.Recipes)
}

func TestDaemonServer_MinigameCarriesActor(t *testing.T) {
	// Arrange
	ctx := context.Background()
	actor := uuid.New()
	w, anonymous := startDaemon(t)
	client := anonymous.WithActor(actor)

	placed, err := client.PlaceMinigame(ctx, &daemon.PlaceMinigameRequest{RecipeID: "crack.cooker"})
	require.NoError(t, err)
	_, err = client.AddIngredient(ctx, &daemon.AddIngredientRequest{MinigameID: placed.MinigameID, Kind: "cocaine", Quality: "very_good", Amount: 5})
	require.NoError(t, err)
	_, err = client.AddIngredient(ctx, &daemon.AddIngredientRequest{MinigameID: placed.MinigameID, Kind: "baking_soda", Amount: 1})
	require.NoError(t, err)

	// Act
	started, err := client.StartCooking(ctx, placed.MinigameID)
	require.NoError(t, err)
	tick(w, 40)
	game, err := client.MinigameStatus(ctx, placed.MinigameID)
	require.NoError(t, err)
	resolved, err := client.RemoveProduct(ctx, placed.MinigameID)
	require.NoError(t, err)
	product, err := client.ExtractProduct(ctx, placed.MinigameID)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "COOKING", started.Phase)
	assert.Equal(t, actor.String(), game.Actor)
	assert.Equal(t, "PERFECT", game.Zone)
	assert.Equal(t, "PERFECT", resolved.Zone)
	assert.Equal(t, "legendary", resolved.Tier)
	require.True(t, product.Extracted)
	assert.Equal(t, "crack", product.Product.Kind)
	assert.Equal(t, 4, product.Product.Amount)
}

func TestDaemonServer_ErrorCodes(t *testing.T) {
	ctx := context.Background()
	_, client := startDaemon(t)

	_, err := client.UnitStatus(ctx, uuid.NewString())
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.UnitStatus(ctx, "not-a-uuid")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.PlaceMinigame(ctx, &daemon.PlaceMinigameRequest{RecipeID: "nope"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	placed, err := client.PlaceMinigame(ctx, &daemon.PlaceMinigameRequest{RecipeID: "crack.cooker"})
	require.NoError(t, err)
	_, err = client.CancelCooking(ctx, placed.MinigameID)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	_, err = client.StartCooking(ctx, placed.MinigameID)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	unit, err := client.PlaceUnit(ctx, &daemon.PlaceUnitRequest{StageID: "tobacco.drying"})
	require.NoError(t, err)
	_, err = client.PlaceUnit(ctx, &daemon.PlaceUnitRequest{StageID: "tobacco.drying", UnitID: unit.UnitID})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
	_, err = client.InsertInput(ctx, &daemon.InsertInputRequest{UnitID: unit.UnitID, Kind: "unobtainium", Amount: 1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.PlaceUnit(ctx, &daemon.PlaceUnitRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = client.DepositResource(ctx, &daemon.DepositResourceRequest{UnitID: unit.UnitID, Amount: 0})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestDaemonServer_Health(t *testing.T) {
	_, client := startDaemon(t)

	assert.Eventually(t, func() bool {
		state, err := client.Health(context.Background())
		return err == nil && state == "SERVING"
	}, 2*time.Second, 10*time.Millisecond)
}

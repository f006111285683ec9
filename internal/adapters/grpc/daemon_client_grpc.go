package grpc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

// DaemonClient talks to a running daemon over its unix socket
type DaemonClient struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
	actor  uuid.UUID
}

// NewDaemonClient connects to the daemon socket
// socketPath should be a Unix domain socket path (e.g., "/tmp/slotworks-daemon.sock")
func NewDaemonClient(socketPath string) (*DaemonClient, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return NewDaemonClientFromConn(conn), nil
}

// NewDaemonClientFromConn wraps an existing connection
func NewDaemonClientFromConn(conn *grpc.ClientConn) *DaemonClient {
	return &DaemonClient{
		conn:   conn,
		health: healthpb.NewHealthClient(conn),
	}
}

// WithActor returns a client whose calls act on behalf of actor
func (c *DaemonClient) WithActor(actor uuid.UUID) *DaemonClient {
	clone := *c
	clone.actor = actor
	return &clone
}

// Close closes the gRPC connection
func (c *DaemonClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *DaemonClient) invoke(ctx context.Context, method string, req, reply interface{}) error {
	if c.actor != uuid.Nil {
		ctx = metadata.AppendToOutgoingContext(ctx, ActorMetadataKey, c.actor.String())
	}
	return c.conn.Invoke(ctx, fullMethod(method), req, reply, grpc.CallContentSubtype(codecName))
}

// Health reports whether the engine service is serving
func (c *DaemonClient) Health(ctx context.Context) (string, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: engineServiceName})
	if err != nil {
		return "", fmt.Errorf("health check failed: %w", err)
	}
	return resp.GetStatus().String(), nil
}

func (c *DaemonClient) EngineInfo(ctx context.Context) (*EngineInfoReply, error) {
	reply := &EngineInfoReply{}
	return reply, c.invoke(ctx, "EngineInfo", &EngineInfoRequest{}, reply)
}

func (c *DaemonClient) PlaceUnit(ctx context.Context, req *PlaceUnitRequest) (*PlaceUnitReply, error) {
	reply := &PlaceUnitReply{}
	return reply, c.invoke(ctx, "PlaceUnit", req, reply)
}

func (c *DaemonClient) InsertInput(ctx context.Context, req *InsertInputRequest) (*InsertInputReply, error) {
	reply := &InsertInputReply{}
	return reply, c.invoke(ctx, "InsertInput", req, reply)
}

func (c *DaemonClient) ExtractOutput(ctx context.Context, req *ExtractOutputRequest) (*ExtractOutputReply, error) {
	reply := &ExtractOutputReply{}
	return reply, c.invoke(ctx, "ExtractOutput", req, reply)
}

func (c *DaemonClient) DepositResource(ctx context.Context, req *DepositResourceRequest) (*DepositResourceReply, error) {
	reply := &DepositResourceReply{}
	return reply, c.invoke(ctx, "DepositResource", req, reply)
}

func (c *DaemonClient) UnitStatus(ctx context.Context, unitID string) (*UnitMessage, error) {
	reply := &UnitMessage{}
	return reply, c.invoke(ctx, "UnitStatus", &UnitStatusRequest{UnitID: unitID}, reply)
}

func (c *DaemonClient) ListUnits(ctx context.Context, stageID string) (*ListUnitsReply, error) {
	reply := &ListUnitsReply{}
	return reply, c.invoke(ctx, "ListUnits", &ListUnitsRequest{StageID: stageID}, reply)
}

func (c *DaemonClient) PlaceMinigame(ctx context.Context, req *PlaceMinigameRequest) (*PlaceMinigameReply, error) {
	reply := &PlaceMinigameReply{}
	return reply, c.invoke(ctx, "PlaceMinigame", req, reply)
}

func (c *DaemonClient) AddIngredient(ctx context.Context, req *AddIngredientRequest) (*AddIngredientReply, error) {
	reply := &AddIngredientReply{}
	return reply, c.invoke(ctx, "AddIngredient", req, reply)
}

func (c *DaemonClient) StartCooking(ctx context.Context, minigameID string) (*PhaseReply, error) {
	reply := &PhaseReply{}
	return reply, c.invoke(ctx, "StartCooking", &MinigameRequest{MinigameID: minigameID}, reply)
}

func (c *DaemonClient) RemoveProduct(ctx context.Context, minigameID string) (*ResolutionReply, error) {
	reply := &ResolutionReply{}
	return reply, c.invoke(ctx, "RemoveProduct", &MinigameRequest{MinigameID: minigameID}, reply)
}

func (c *DaemonClient) CancelCooking(ctx context.Context, minigameID string) (*PhaseReply, error) {
	reply := &PhaseReply{}
	return reply, c.invoke(ctx, "CancelCooking", &MinigameRequest{MinigameID: minigameID}, reply)
}

func (c *DaemonClient) ExtractProduct(ctx context.Context, minigameID string) (*ExtractProductReply, error) {
	reply := &ExtractProductReply{}
	return reply, c.invoke(ctx, "ExtractProduct", &MinigameRequest{MinigameID: minigameID}, reply)
}

func (c *DaemonClient) MinigameStatus(ctx context.Context, minigameID string) (*MinigameMessage, error) {
	reply := &MinigameMessage{}
	return reply, c.invoke(ctx, "MinigameStatus", &MinigameRequest{MinigameID: minigameID}, reply)
}

package grpc

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"

	"github.com/andrescamacho/slotworks-go/internal/application/auth"
	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
)

// ActorMetadataKey carries the acting party's id on engine calls
const ActorMetadataKey = "x-slotworks-actor"

// DaemonServer serves the engine and health services on a unix socket
type DaemonServer struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
}

// NewDaemonServer creates a new daemon server listening on socketPath
func NewDaemonServer(mediator common.Mediator, w *world.World, socketPath string) (*DaemonServer, error) {
	// Remove existing socket file if present
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	// Create Unix domain socket listener
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Set socket permissions (owner only)
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	return NewDaemonServerWithListener(mediator, w, listener), nil
}

// NewDaemonServerWithListener serves on an existing listener
func NewDaemonServerWithListener(mediator common.Mediator, w *world.World, listener net.Listener) *DaemonServer {
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(actorInterceptor))
	healthServer := health.NewServer()

	RegisterEngineServer(grpcServer, NewEngineService(mediator, w))
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(engineServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &DaemonServer{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
	}
}

// Addr returns the listening address
func (s *DaemonServer) Addr() string {
	return s.listener.Addr().String()
}

// Start serves until ctx is cancelled, then drains in-flight calls
func (s *DaemonServer) Start(ctx context.Context) error {
	fmt.Printf("Daemon server listening on unix socket: %s\n", s.Addr())

	errChan := make(chan error, 1)
	go func() {
		if err := s.grpcServer.Serve(s.listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(engineServiceName, healthpb.HealthCheckResponse_SERVING)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		fmt.Println("Initiating graceful shutdown of gRPC server...")
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return nil
	}
}

// actorInterceptor moves the actor id from call metadata into the context
func actorInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(ActorMetadataKey); len(values) > 0 {
			if actor, err := uuid.Parse(values[0]); err == nil {
				ctx = auth.WithActor(ctx, actor)
			}
		}
	}
	return handler(ctx, req)
}

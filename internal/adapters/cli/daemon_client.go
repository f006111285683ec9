package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	grpcAdapter "github.com/andrescamacho/slotworks-go/internal/adapters/grpc"
)

const daemonCallTimeout = 10 * time.Second

// withDaemon connects to --socket, attaches --actor and runs fn with a
// bounded context
func withDaemon(fn func(ctx context.Context, client *grpcAdapter.DaemonClient) error) error {
	client, err := grpcAdapter.NewDaemonClient(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer client.Close()

	if actorID != "" {
		actor, err := uuid.Parse(actorID)
		if err != nil {
			return fmt.Errorf("invalid --actor: %w", err)
		}
		client = client.WithActor(actor)
	}

	ctx, cancel := context.WithTimeout(context.Background(), daemonCallTimeout)
	defer cancel()
	return fn(ctx, client)
}

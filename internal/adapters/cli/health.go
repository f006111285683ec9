package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	grpcAdapter "github.com/andrescamacho/slotworks-go/internal/adapters/grpc"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long:  `Verify that the daemon is running and responsive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				state, err := client.Health(ctx)
				if err != nil {
					return err
				}
				info, err := client.EngineInfo(ctx)
				if err != nil {
					return fmt.Errorf("engine info failed: %w", err)
				}

				out := cmd.OutOrStdout()
				if state != "SERVING" {
					warnColor.Fprintf(out, "! Daemon is %s\n", state)
				} else {
					successColor.Fprintln(out, "✓ Daemon is healthy")
				}
				fmt.Fprintf(out, "  Status:     %s\n", state)
				fmt.Fprintf(out, "  World tick: %d\n", info.Tick)
				fmt.Fprintf(out, "  Units:      %d\n", info.Units)
				fmt.Fprintf(out, "  Stations:   %d\n", info.Minigames)
				fmt.Fprintf(out, "  Catalog:    %d stages, %d recipes\n", info.Stages, info.Recipes)
				fmt.Fprintf(out, "  Unsaved:    %d\n", info.Dirty)
				return nil
			})
		},
	}

	return cmd
}

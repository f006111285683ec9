package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	grpcAdapter "github.com/andrescamacho/slotworks-go/internal/adapters/grpc"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/config"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/pidfile"
)

// NewDaemonCommand reports on the local daemon process
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Inspect the local engine daemon",
		Long: `Inspect the engine daemon started with slotworks-daemon.

Example:
  slotworks daemon status`,
	}

	cmd.AddCommand(newDaemonStatusCommand())
	return cmd
}

func newDaemonStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the daemon is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrDefault(configPath)
			out := cmd.OutOrStdout()

			pid, running := pidfile.New(cfg.Daemon.PIDFile).Running()
			if !running {
				warnColor.Fprintln(out, "Daemon is not running")
				fmt.Fprintf(out, "  PID file: %s\n", cfg.Daemon.PIDFile)
				return nil
			}
			successColor.Fprintf(out, "✓ Daemon is running (PID %d)\n", pid)
			fmt.Fprintf(out, "  PID file: %s\n", cfg.Daemon.PIDFile)
			fmt.Fprintf(out, "  Socket:   %s\n", socketPath)

			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				info, err := client.EngineInfo(ctx)
				if err != nil {
					warnColor.Fprintf(out, "  Not answering on socket: %v\n", err)
					return nil
				}
				fmt.Fprintf(out, "  Tick:     %d\n", info.Tick)
				fmt.Fprintf(out, "  Units:    %d, stations: %d, unsaved: %d\n", info.Units, info.Minigames, info.Dirty)
				return nil
			})
		},
	}
	return cmd
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	grpcAdapter "github.com/andrescamacho/slotworks-go/internal/adapters/grpc"
)

// NewUnitCommand manages processing units on a running daemon
func NewUnitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Manage processing units on the daemon",
		Long: `Place, fill, empty and inspect processing units hosted by the daemon.

Examples:
  slotworks unit place tobacco.drying
  slotworks unit insert <unit-id> --kind fresh_tobacco_leaf --quality good --amount 10
  slotworks unit deposit <unit-id> --amount 500
  slotworks unit extract <unit-id> --grouped
  slotworks unit list --stage tobacco.drying
  slotworks unit show <unit-id>`,
	}

	cmd.AddCommand(newUnitPlaceCommand())
	cmd.AddCommand(newUnitInsertCommand())
	cmd.AddCommand(newUnitExtractCommand())
	cmd.AddCommand(newUnitDepositCommand())
	cmd.AddCommand(newUnitListCommand())
	cmd.AddCommand(newUnitShowCommand())

	return cmd
}

func newUnitPlaceCommand() *cobra.Command {
	var unitID string

	cmd := &cobra.Command{
		Use:   "place <stage-id>",
		Short: "Place a new unit of a stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				reply, err := client.PlaceUnit(ctx, &grpcAdapter.PlaceUnitRequest{StageID: args[0], UnitID: unitID})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if reply.Inert {
					warnColor.Fprintf(out, "! Unit %s placed inert: %s\n", reply.UnitID, reply.Error)
					return nil
				}
				successColor.Fprintf(out, "✓ Unit placed\n")
				fmt.Fprintf(out, "  Unit ID:  %s\n", reply.UnitID)
				fmt.Fprintf(out, "  Stage:    %s\n", reply.StageID)
				fmt.Fprintf(out, "  Slots:    %d\n", reply.Capacity)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&unitID, "id", "", "Unit id to use (default: generated)")
	return cmd
}

func newUnitInsertCommand() *cobra.Command {
	req := &grpcAdapter.InsertInputRequest{}

	cmd := &cobra.Command{
		Use:   "insert <unit-id>",
		Short: "Insert one batch into a free slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.UnitID = args[0]
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				reply, err := client.InsertInput(ctx, req)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !reply.Accepted {
					warnColor.Fprintf(out, "! %s rejected: no free slot or stage does not accept it\n", formatMaterial(&reply.Material))
					return nil
				}
				successColor.Fprintf(out, "✓ Inserted %s\n", formatMaterial(&reply.Material))
				printSummary(out, reply.Summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Kind, "kind", "", "Material kind (required)")
	cmd.Flags().StringVar(&req.QualitySystem, "quality-system", "", "Quality system (default: standard)")
	cmd.Flags().StringVar(&req.Quality, "quality", "", "Quality tier (default: the system's middle tier)")
	cmd.Flags().IntVar(&req.Amount, "amount", 1, "Batch amount")
	cmd.MarkFlagRequired("kind")
	return cmd
}

func newUnitExtractCommand() *cobra.Command {
	var grouped bool

	cmd := &cobra.Command{
		Use:   "extract <unit-id>",
		Short: "Take every finished output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				reply, err := client.ExtractOutput(ctx, &grpcAdapter.ExtractOutputRequest{UnitID: args[0], Grouped: grouped})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(reply.Materials) == 0 {
					warnColor.Fprintln(out, "No output ready")
					return nil
				}
				successColor.Fprintln(out, "✓ Extracted:")
				for i := range reply.Materials {
					fmt.Fprintf(out, "  %s\n", formatMaterial(&reply.Materials[i]))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&grouped, "grouped", false, "Keep one stack per kind and quality")
	return cmd
}

func newUnitDepositCommand() *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   "deposit <unit-id>",
		Short: "Add resource to a unit's gate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				reply, err := client.DepositResource(ctx, &grpcAdapter.DepositResourceRequest{UnitID: args[0], Amount: amount})
				if err != nil {
					return err
				}
				successColor.Fprintf(cmd.OutOrStdout(), "✓ Deposited %d %s (%d/%d)\n",
					reply.Accepted, reply.Kind, reply.Level, reply.Capacity)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 0, "Amount to deposit (required)")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func newUnitListCommand() *cobra.Command {
	var stageID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List units on the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				reply, err := client.ListUnits(ctx, stageID)
				if err != nil {
					return err
				}
				if len(reply.Units) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No units")
					return nil
				}
				return printUnitTable(cmd, reply.Units)
			})
		},
	}

	cmd.Flags().StringVar(&stageID, "stage", "", "Only list units of this stage")
	return cmd
}

func newUnitShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <unit-id>",
		Short: "Show a unit's slots and resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				unit, err := client.UnitStatus(ctx, args[0])
				if err != nil {
					return err
				}
				return printUnit(cmd.OutOrStdout(), unit)
			})
		},
	}
	return cmd
}

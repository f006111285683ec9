package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	grpcAdapter "github.com/andrescamacho/slotworks-go/internal/adapters/grpc"
)

// NewStationCommand drives timing minigame stations on a running daemon
func NewStationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "station",
		Short: "Drive timing minigame stations on the daemon",
		Long: `Place and play timing minigame stations hosted by the daemon.

The daemon ticks the cycle; remove the product while the station is in the
zone you want.

Examples:
  slotworks station place crack.cooker
  slotworks station add <station-id> --kind cocaine --quality very_good --amount 5
  slotworks station add <station-id> --kind baking_soda --amount 1
  slotworks station start <station-id> --actor <uuid>
  slotworks station show <station-id>
  slotworks station remove <station-id>
  slotworks station extract <station-id>`,
	}

	cmd.AddCommand(newStationPlaceCommand())
	cmd.AddCommand(newStationAddCommand())
	cmd.AddCommand(newStationStartCommand())
	cmd.AddCommand(newStationRemoveCommand())
	cmd.AddCommand(newStationCancelCommand())
	cmd.AddCommand(newStationExtractCommand())
	cmd.AddCommand(newStationShowCommand())

	return cmd
}

func newStationPlaceCommand() *cobra.Command {
	var stationID string

	cmd := &cobra.Command{
		Use:   "place <recipe-id>",
		Short: "Place a new station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				reply, err := client.PlaceMinigame(ctx, &grpcAdapter.PlaceMinigameRequest{RecipeID: args[0], MinigameID: stationID})
				if err != nil {
					return err
				}
				successColor.Fprintf(cmd.OutOrStdout(), "✓ Station %s placed (%s)\n", reply.MinigameID, reply.RecipeID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&stationID, "id", "", "Station id to use (default: generated)")
	return cmd
}

func newStationAddCommand() *cobra.Command {
	req := &grpcAdapter.AddIngredientRequest{}

	cmd := &cobra.Command{
		Use:   "add <station-id>",
		Short: "Add an ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.MinigameID = args[0]
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				reply, err := client.AddIngredient(ctx, req)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if reply.Accepted < req.Amount {
					warnColor.Fprintf(out, "! Only %d of %d accepted\n", reply.Accepted, req.Amount)
				}
				fmt.Fprintf(out, "Added %d %s as %s (primary %d, secondary %d, %s)\n",
					reply.Accepted, req.Kind, reply.Role, reply.Primary, reply.Secondary, reply.Phase)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Kind, "kind", "", "Ingredient kind (required)")
	cmd.Flags().StringVar(&req.QualitySystem, "quality-system", "", "Quality system (default: standard)")
	cmd.Flags().StringVar(&req.Quality, "quality", "", "Quality tier")
	cmd.Flags().IntVar(&req.Amount, "amount", 1, "Amount to add")
	cmd.MarkFlagRequired("kind")
	return cmd
}

func newStationStartCommand() *cobra.Command {
	return stationPhaseCommand("start", "Start cooking", (*grpcAdapter.DaemonClient).StartCooking)
}

func newStationCancelCommand() *cobra.Command {
	return stationPhaseCommand("cancel", "Abort cooking; ingredients are lost", (*grpcAdapter.DaemonClient).CancelCooking)
}

func stationPhaseCommand(use, short string, call func(*grpcAdapter.DaemonClient, context.Context, string) (*grpcAdapter.PhaseReply, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <station-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				reply, err := call(client, ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				successColor.Fprintf(out, "✓ Station is %s\n", reply.Phase)
				if reply.CycleTicks > 0 {
					fmt.Fprintf(out, "  Cycle: %s\n", formatTicks(reply.CycleTicks))
				}
				return nil
			})
		},
	}
}

func newStationRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <station-id>",
		Short: "End the cycle now and score the timing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				reply, err := client.RemoveProduct(ctx, args[0])
				if err != nil {
					return err
				}
				printResolutionReply(cmd.OutOrStdout(), reply)
				return nil
			})
		},
	}
}

func newStationExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <station-id>",
		Short: "Take the finished product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				reply, err := client.ExtractProduct(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !reply.Extracted {
					warnColor.Fprintln(out, "No product ready")
					return nil
				}
				successColor.Fprintf(out, "✓ Extracted %s\n", formatMaterial(reply.Product))
				return nil
			})
		},
	}
}

func newStationShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <station-id>",
		Short: "Show a station's phase and cook progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *grpcAdapter.DaemonClient) error {
				game, err := client.MinigameStatus(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				titleColor.Fprintf(out, "Station %s\n", game.MinigameID)
				fmt.Fprintf(out, "  Recipe:      %s (%s)\n", game.RecipeID, game.RecipeName)
				fmt.Fprintf(out, "  Phase:       %s\n", game.Phase)
				fmt.Fprintf(out, "  Ingredients: %d primary, %d secondary\n", game.Primary, game.Secondary)
				if game.InputQuality != "" {
					fmt.Fprintf(out, "  Quality in:  %s\n", game.InputQuality)
				}
				if game.Phase == "COOKING" {
					fmt.Fprintf(out, "  Cook:        %s %d/%d %s\n",
						progressBar(game.Progress, 20), game.CookTick, game.CycleTicks, game.Zone)
				}
				if game.Actor != "" {
					fmt.Fprintf(out, "  Actor:       %s\n", game.Actor)
				}
				if game.Output != nil {
					fmt.Fprintf(out, "  Product:     %s (score %.3f)\n", formatMaterial(game.Output), game.LastScore)
				}
				return nil
			})
		},
	}
}

func printResolutionReply(out io.Writer, r *grpcAdapter.ResolutionReply) {
	zoneColor := successColor
	if r.Zone == "EARLY" || r.Zone == "LATE" {
		zoneColor = warnColor
	}
	fmt.Fprintf(out, "  Removed at: tick %d\n", r.Tick)
	fmt.Fprint(out, "  Zone:       ")
	zoneColor.Fprintln(out, r.Zone)
	fmt.Fprintf(out, "  Score:      %.3f\n", r.Score)
	fmt.Fprintf(out, "  Tier:       %s\n", r.Tier)
	fmt.Fprintf(out, "  Product:    %s\n", formatMaterial(&r.Output))
}

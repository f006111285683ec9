package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	grpcAdapter "github.com/andrescamacho/slotworks-go/internal/adapters/grpc"
	minigameQueries "github.com/andrescamacho/slotworks-go/internal/application/minigame/queries"
	processingQueries "github.com/andrescamacho/slotworks-go/internal/application/processing/queries"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/config"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/database"
)

// NewStoreCommand inspects persisted engine state without a daemon
func NewStoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and prune persisted units and stations",
		Long: `Read the configured database directly. Do not prune while the daemon
is running; it rewrites dirty records on its next flush.

Examples:
  slotworks store inspect
  slotworks store delete <unit-or-minigame-id>`,
	}

	cmd.AddCommand(newStoreInspectCommand())
	cmd.AddCommand(newStoreDeleteCommand())

	return cmd
}

func openStores() (*config.Config, *database.Stores, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	stores, err := database.OpenStores(&cfg.Database, shared.NewRealClock())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.Database.Type, err)
	}
	return cfg, stores, nil
}

func newStoreInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Restore the persisted world and list its contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, stores, err := openStores()
			if err != nil {
				return err
			}
			defer stores.Close()

			if catalogPath == "" {
				catalogPath = cfg.Engine.CatalogPath
			}
			engine, err := newOfflineEngine(0)
			if err != nil {
				return err
			}

			ctx := context.Background()
			report, err := engine.world.Restore(ctx, stores.Units, stores.Minigames)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			titleColor.Fprintf(out, "Store: %s\n", stores.Backend)
			fmt.Fprintf(out, "  Units:     %d (%d inert)\n", report.Units, report.Inert)
			fmt.Fprintf(out, "  Stations:  %d\n", report.Minigames)
			if report.Failed > 0 {
				errorColor.Fprintf(out, "  Failed:    %d\n", report.Failed)
			}
			for _, skipped := range report.Skipped {
				warnColor.Fprintf(out, "  ! %s\n", skipped)
			}

			units, err := send[processingQueries.ListUnitsResponse](ctx, engine.mediator, &processingQueries.ListUnitsQuery{})
			if err != nil {
				return err
			}
			if err := printUnitTable(cmd, unitMessages(units.Units)); err != nil {
				return err
			}

			var games []grpcAdapter.MinigameMessage
			for _, id := range engine.world.Minigames() {
				status, err := send[minigameQueries.GetMinigameStatusResponse](ctx, engine.mediator,
					&minigameQueries.GetMinigameStatusQuery{MinigameID: id})
				if err != nil {
					return err
				}
				games = append(games, grpcAdapter.ToMinigameMessage(status.Status))
			}
			return printMinigameTable(cmd, games)
		},
	}
	return cmd
}

func newStoreDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a persisted unit or station record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			_, stores, err := openStores()
			if err != nil {
				return err
			}
			defer stores.Close()

			ctx := context.Background()
			if err := stores.Units.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete unit record: %w", err)
			}
			if err := stores.Minigames.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete station record: %w", err)
			}
			successColor.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
			return nil
		},
	}
	return cmd
}

func unitMessages(units []processingQueries.UnitStatus) []grpcAdapter.UnitMessage {
	out := make([]grpcAdapter.UnitMessage, 0, len(units))
	for _, u := range units {
		out = append(out, grpcAdapter.ToUnitMessage(u))
	}
	return out
}

func printUnitTable(cmd *cobra.Command, units []grpcAdapter.UnitMessage) error {
	rows := make([][]string, 0, len(units))
	for _, u := range units {
		state := fmt.Sprintf("%d in / %d out / %d free", u.Summary.InputCount, u.Summary.OutputCount, u.Summary.FreeSlots)
		if u.Inert {
			state = "inert: " + u.Error
		}
		rows = append(rows, []string{
			u.UnitID,
			u.StageID,
			state,
			progressBar(u.Summary.AverageProgress, 10),
		})
	}
	return renderTable(cmd.OutOrStdout(), []string{"Unit", "Stage", "Slots", "Progress"}, rows)
}

func printMinigameTable(cmd *cobra.Command, games []grpcAdapter.MinigameMessage) error {
	if len(games) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		output := "-"
		if g.Output != nil {
			output = formatMaterial(g.Output)
		}
		rows = append(rows, []string{
			g.MinigameID,
			g.RecipeID,
			g.Phase,
			fmt.Sprintf("%d/%d", g.Primary, g.Secondary),
			fmt.Sprintf("%d/%d", g.CookTick, g.CycleTicks),
			output,
		})
	}
	return renderTable(cmd.OutOrStdout(), []string{"Station", "Recipe", "Phase", "Ingredients", "Cook", "Output"}, rows)
}

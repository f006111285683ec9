package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/slotworks-go/internal/adapters/catalog"
	grpcAdapter "github.com/andrescamacho/slotworks-go/internal/adapters/grpc"
	minigameCommands "github.com/andrescamacho/slotworks-go/internal/application/minigame/commands"
	processingCommands "github.com/andrescamacho/slotworks-go/internal/application/processing/commands"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
)

// NewMinigameCommand creates the offline timing minigame commands
func NewMinigameCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minigame",
		Short: "Explore timing minigame recipes offline",
		Long: `Inspect timing windows and play a cooking cycle in an in-memory world.

Examples:
  slotworks minigame zones crack.cooker
  slotworks minigame score crack.cooker 40
  slotworks minigame play crack.cooker --primary 5 --primary-quality very_good --secondary 1 --remove-at 40`,
	}

	cmd.AddCommand(newMinigameZonesCommand())
	cmd.AddCommand(newMinigameScoreCommand())
	cmd.AddCommand(newMinigamePlayCommand())

	return cmd
}

func lookupRecipe(def *catalog.Definition, id string) (minigame.Recipe, *quality.System, error) {
	recipe, ok := def.Recipes.Lookup(id)
	if !ok {
		return minigame.Recipe{}, nil, fmt.Errorf("unknown recipe %q", id)
	}
	name := recipe.QualitySystem
	if name == "" {
		name = quality.Standard().Name()
	}
	system, ok := def.Registry.System(name)
	if !ok {
		return minigame.Recipe{}, nil, fmt.Errorf("recipe %s uses unknown quality system %q", id, name)
	}
	return recipe, system, nil
}

func newMinigameZonesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zones <recipe-id>",
		Short: "Show the timing windows of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition()
			if err != nil {
				return err
			}
			recipe, system, err := lookupRecipe(def, args[0])
			if err != nil {
				return err
			}

			p := recipe.Profile
			windows := []struct {
				zone     minigame.Zone
				from, to int
			}{
				{minigame.ZoneEarly, 0, p.GoodStart - 1},
				{minigame.ZoneGood, p.GoodStart, p.PerfectStart - 1},
				{minigame.ZonePerfect, p.PerfectStart, p.PerfectEnd},
				{minigame.ZoneGood, p.PerfectEnd + 1, p.GoodEnd},
				{minigame.ZoneLate, p.GoodEnd + 1, p.CycleTicks - 1},
			}

			rows := make([][]string, 0, len(windows))
			for _, win := range windows {
				if win.to < win.from {
					continue
				}
				best := win.from
				for t := win.from; t <= win.to; t++ {
					if p.Score(t) > p.Score(best) {
						best = t
					}
				}
				rows = append(rows, []string{
					win.zone.String(),
					fmt.Sprintf("%d-%d", win.from, win.to),
					fmt.Sprintf("%.2f-%.2f", p.Score(win.from), p.Score(win.to)),
					p.TierFor(p.Score(best), system).Name(),
				})
			}

			out := cmd.OutOrStdout()
			titleColor.Fprintf(out, "%s (%s profile, %d tick cycle)\n", recipe.Name, p.Name, p.CycleTicks)
			if err := renderTable(out, []string{"Zone", "Ticks", "Score", "Best Tier"}, rows); err != nil {
				return err
			}
			fmt.Fprintf(out, "Cycle times out at tick %d and resolves at that score.\n", p.CycleTicks)
			return nil
		},
	}
	return cmd
}

func newMinigameScoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <recipe-id> <tick>",
		Short: "Score a removal at a given cook tick",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tick, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid tick %q: %w", args[1], err)
			}
			def, err := loadDefinition()
			if err != nil {
				return err
			}
			recipe, system, err := lookupRecipe(def, args[0])
			if err != nil {
				return err
			}

			p := recipe.Profile
			score := p.Score(tick)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tick:  %d / %d\n", tick, p.CycleTicks)
			fmt.Fprintf(out, "Zone:  %s\n", p.Zone(tick))
			fmt.Fprintf(out, "Score: %.3f\n", score)
			fmt.Fprintf(out, "Tier:  %s\n", p.TierFor(score, system).Name())
			return nil
		},
	}
	return cmd
}

type playOptions struct {
	primary          int
	primaryQuality   string
	secondary        int
	secondaryQuality string
	removeAt         int
	seed             int64
}

func newMinigamePlayCommand() *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play <recipe-id>",
		Short: "Cook one cycle and remove at a chosen tick",
		Long: `Load a station, start cooking, tick to --remove-at and remove the product.

A --remove-at of 0 or past the cycle lets the cycle time out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.primary, "primary", 0, "Primary ingredient amount (default: recipe minimum)")
	cmd.Flags().StringVar(&opts.primaryQuality, "primary-quality", "", "Primary ingredient quality")
	cmd.Flags().IntVar(&opts.secondary, "secondary", 0, "Secondary ingredient amount (default: recipe minimum)")
	cmd.Flags().StringVar(&opts.secondaryQuality, "secondary-quality", "", "Secondary ingredient quality")
	cmd.Flags().IntVar(&opts.removeAt, "remove-at", 0, "Cook tick to remove the product at")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed")

	return cmd
}

func runPlay(cmd *cobra.Command, recipeID string, opts *playOptions) error {
	engine, err := newOfflineEngine(resolveSeed(opts.seed))
	if err != nil {
		return err
	}
	recipe, _, err := lookupRecipe(engine.def, recipeID)
	if err != nil {
		return err
	}
	if opts.primary <= 0 {
		opts.primary = recipe.MinPrimary
	}
	if opts.secondary <= 0 {
		opts.secondary = recipe.MinSecondary
	}

	ctx, err := actorContext(context.Background())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	placed, err := send[minigameCommands.PlaceMinigameResponse](ctx, engine.mediator,
		&minigameCommands.PlaceMinigameCommand{RecipeID: recipeID})
	if err != nil {
		return err
	}
	ingredients := []minigameCommands.AddIngredientCommand{
		{MinigameID: placed.MinigameID, Kind: string(recipe.PrimaryKind), Quality: opts.primaryQuality, Amount: opts.primary},
		{MinigameID: placed.MinigameID, Kind: string(recipe.SecondaryKind), Quality: opts.secondaryQuality, Amount: opts.secondary},
	}
	for i := range ingredients {
		added, err := send[minigameCommands.AddIngredientResponse](ctx, engine.mediator, &ingredients[i])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Added %d %s as %s\n", added.Accepted, ingredients[i].Kind, added.Role)
	}

	started, err := send[minigameCommands.StartCookingResponse](ctx, engine.mediator,
		&minigameCommands.StartCookingCommand{MinigameID: placed.MinigameID})
	if err != nil {
		return err
	}
	titleColor.Fprintf(out, "Cooking %s (%d tick cycle)\n", recipe.Name, started.CycleTicks)

	var resolution minigame.Resolution
	if opts.removeAt > 0 && opts.removeAt < started.CycleTicks {
		if _, err := send[processingCommands.TickWorldResponse](ctx, engine.mediator,
			&processingCommands.TickWorldCommand{Ticks: opts.removeAt}); err != nil {
			return err
		}
		removed, err := send[minigameCommands.RemoveProductResponse](ctx, engine.mediator,
			&minigameCommands.RemoveProductCommand{MinigameID: placed.MinigameID})
		if err != nil {
			return err
		}
		resolution = removed.Resolution
	} else {
		ticked, err := send[processingCommands.TickWorldResponse](ctx, engine.mediator,
			&processingCommands.TickWorldCommand{Ticks: started.CycleTicks})
		if err != nil {
			return err
		}
		for _, r := range ticked.Resolutions {
			if r.MinigameID == placed.MinigameID {
				resolution = r.Resolution
			}
		}
	}

	printResolution(out, resolution)

	product, err := send[minigameCommands.ExtractProductResponse](ctx, engine.mediator,
		&minigameCommands.ExtractProductCommand{MinigameID: placed.MinigameID})
	if err != nil {
		return err
	}
	if product.Extracted {
		msg := grpcAdapter.ToMaterialMessage(product.Product)
		successColor.Fprintf(out, "✓ Extracted %s\n", formatMaterial(&msg))
	}
	return nil
}

func printResolution(out io.Writer, r minigame.Resolution) {
	zoneColor := successColor
	switch r.Zone {
	case minigame.ZoneEarly, minigame.ZoneLate:
		zoneColor = warnColor
	}
	fmt.Fprintf(out, "  Removed at: tick %d", r.Tick)
	if r.TimedOut {
		warnColor.Fprint(out, " (timed out)")
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, "  Zone:       ")
	zoneColor.Fprintln(out, r.Zone.String())
	fmt.Fprintf(out, "  Score:      %.3f\n", r.Score)
	fmt.Fprintf(out, "  Tier:       %s", r.Tier.Name())
	if r.Bonus {
		successColor.Fprint(out, " (+1 premium input bonus)")
	}
	fmt.Fprintln(out)
}

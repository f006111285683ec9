package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	grpcAdapter "github.com/andrescamacho/slotworks-go/internal/adapters/grpc"
	processingCommands "github.com/andrescamacho/slotworks-go/internal/application/processing/commands"
	processingQueries "github.com/andrescamacho/slotworks-go/internal/application/processing/queries"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

type simulateOptions struct {
	stage   string
	kind    string
	system  string
	quality string
	amount  int
	batches int
	ticks   int
	every   int
	deposit int
	seed    int64
	grouped bool
}

// NewSimulateCommand runs one processing unit in an in-memory world
func NewSimulateCommand() *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a processing stage offline",
		Long: `Place one unit of a stage in an in-memory world, fill it and tick it.

Progress is printed every --every ticks; the unit's outputs are extracted
at the end. Nothing is persisted.

Examples:
  slotworks simulate --stage tobacco.drying --amount 10 --batches 6
  slotworks simulate --stage coca.extraction --quality good --ticks 2400 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.stage, "stage", "", "Stage id to simulate (required)")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "Input material (default: the stage's first input)")
	cmd.Flags().StringVar(&opts.system, "quality-system", "", "Quality system of the input (default: standard)")
	cmd.Flags().StringVar(&opts.quality, "quality", "", "Input quality tier (default: the system's middle tier)")
	cmd.Flags().IntVar(&opts.amount, "amount", 1, "Amount per batch")
	cmd.Flags().IntVar(&opts.batches, "batches", 1, "Number of batches to insert")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "Ticks to run (default: the stage's processing time)")
	cmd.Flags().IntVar(&opts.every, "every", 0, "Print progress every N ticks (default: 10 reports)")
	cmd.Flags().IntVar(&opts.deposit, "deposit", -1, "Resource to deposit first (default: fill the gate)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed (default: user default, then clock)")
	cmd.Flags().BoolVar(&opts.grouped, "grouped", false, "Extract outputs grouped by kind and quality")
	cmd.MarkFlagRequired("stage")

	return cmd
}

func runSimulate(cmd *cobra.Command, opts *simulateOptions) error {
	engine, err := newOfflineEngine(resolveSeed(opts.seed))
	if err != nil {
		return err
	}
	stage, ok := engine.def.Stages.Lookup(processing.StageID(opts.stage))
	if !ok {
		return fmt.Errorf("unknown stage %q", opts.stage)
	}
	if opts.kind == "" {
		opts.kind = firstInput(stage)
		if opts.kind == "" {
			return fmt.Errorf("stage %s has no explicit input; pass --kind", stage.ID)
		}
	}
	if opts.ticks <= 0 {
		opts.ticks = stage.ProcessingTicks
	}
	if opts.every <= 0 {
		opts.every = opts.ticks / 10
		if opts.every == 0 {
			opts.every = 1
		}
	}

	ctx := context.Background()
	out := cmd.OutOrStdout()

	placed, err := send[processingCommands.PlaceUnitResponse](ctx, engine.mediator,
		&processingCommands.PlaceUnitCommand{StageID: opts.stage})
	if err != nil {
		return err
	}
	if placed.Inert {
		return fmt.Errorf("unit is inert: %s", placed.Error)
	}

	if stage.RequiresResource() && opts.deposit != 0 {
		amount := opts.deposit
		if amount < 0 {
			amount = stage.ResourceCapacity()
		}
		deposited, err := send[processingCommands.DepositResourceResponse](ctx, engine.mediator,
			&processingCommands.DepositResourceCommand{UnitID: placed.UnitID, Amount: amount})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deposited %d %s (%d/%d)\n", deposited.Accepted, deposited.Kind, deposited.Level, deposited.Capacity)
	}

	inserted := 0
	for i := 0; i < opts.batches; i++ {
		resp, err := send[processingCommands.InsertInputResponse](ctx, engine.mediator, &processingCommands.InsertInputCommand{
			UnitID:        placed.UnitID,
			Kind:          opts.kind,
			QualitySystem: opts.system,
			Quality:       opts.quality,
			Amount:        opts.amount,
		})
		if err != nil {
			return err
		}
		if !resp.Accepted {
			warnColor.Fprintf(out, "Unit full after %d batches\n", inserted)
			break
		}
		inserted++
	}
	titleColor.Fprintf(out, "Simulating %s: %d x %d %s for %s\n",
		stage.Name, inserted, opts.amount, opts.kind, formatTicks(opts.ticks))

	var rows [][]string
	completed, paused, consumed := 0, 0, 0
	for done := 0; done < opts.ticks; {
		step := opts.every
		if done+step > opts.ticks {
			step = opts.ticks - done
		}
		ticked, err := send[processingCommands.TickWorldResponse](ctx, engine.mediator,
			&processingCommands.TickWorldCommand{Ticks: step})
		if err != nil {
			return err
		}
		done += step
		completed += ticked.Completed
		paused += ticked.Paused
		consumed += ticked.Consumed

		status, err := send[processingQueries.GetUnitStatusResponse](ctx, engine.mediator,
			&processingQueries.GetUnitStatusQuery{UnitID: placed.UnitID})
		if err != nil {
			return err
		}
		s := status.Status.Summary
		resource := "-"
		if s.ResourceKind != "" {
			resource = fmt.Sprintf("%d/%d", s.ResourceLevel, s.ResourceCapacity)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", ticked.Tick),
			progressBar(s.AverageProgress, 20),
			fmt.Sprintf("%d", s.InputCount),
			fmt.Sprintf("%d", s.OutputCount),
			fmt.Sprintf("%d", s.PausedSlots),
			resource,
		})
	}
	if err := renderTable(out, []string{"Tick", "Progress", "Input", "Output", "Paused", "Resource"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(out, "Completed %d batches, %d paused slot-ticks, %d resource consumed\n", completed, paused, consumed)

	extracted, err := send[processingCommands.ExtractOutputResponse](ctx, engine.mediator,
		&processingCommands.ExtractOutputCommand{UnitID: placed.UnitID, Grouped: opts.grouped})
	if err != nil {
		return err
	}
	if len(extracted.Materials) == 0 {
		warnColor.Fprintln(out, "No output ready")
		return nil
	}
	successColor.Fprintln(out, "✓ Extracted:")
	for _, m := range extracted.Materials {
		msg := grpcAdapter.ToMaterialMessage(m)
		fmt.Fprintf(out, "  %s\n", formatMaterial(&msg))
	}
	return nil
}

// firstInput returns the alphabetically first mapped input of a stage
func firstInput(stage processing.StageDescriptor) string {
	first := ""
	for _, k := range stage.InputKinds() {
		if first == "" || string(k) < first {
			first = string(k)
		}
	}
	return first
}

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/slotworks-go/internal/adapters/catalog"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// NewCatalogCommand creates the catalog command with subcommands
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect processing stages and timing recipes",
		Long: `Inspect the stage catalog used by processing units.

The catalog is read from --catalog, the user default (config set-catalog)
or the built-in catalog, in that order.

Examples:
  slotworks catalog list
  slotworks catalog list --category PLANT
  slotworks catalog show tobacco.drying
  slotworks catalog recipes
  slotworks catalog tree fresh_tobacco_leaf
  slotworks catalog validate ./catalogs/custom.yaml`,
	}

	cmd.AddCommand(newCatalogListCommand())
	cmd.AddCommand(newCatalogShowCommand())
	cmd.AddCommand(newCatalogRecipesCommand())
	cmd.AddCommand(newCatalogTreeCommand())
	cmd.AddCommand(newCatalogValidateCommand())

	return cmd
}

func newCatalogListCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List processing stages",
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition()
			if err != nil {
				return err
			}

			stages := def.Stages.Stages()
			if category != "" {
				cat, err := processing.ParseCategory(category)
				if err != nil {
					return err
				}
				stages = def.Stages.ByCategory(cat)
			}

			rows := make([][]string, 0, len(stages))
			for _, s := range stages {
				resource := "-"
				if s.Resource != nil {
					resource = fmt.Sprintf("%s x%d", s.Resource.Kind, s.Resource.Amount)
				}
				rows = append(rows, []string{
					string(s.ID),
					s.Name,
					string(s.Category),
					fmt.Sprintf("%d", s.Capacity),
					formatTicks(s.ProcessingTicks),
					resource,
				})
			}

			out := cmd.OutOrStdout()
			titleColor.Fprintf(out, "Stages (%s)\n", def.Source)
			return renderTable(out, []string{"ID", "Name", "Category", "Slots", "Ticks", "Resource"}, rows)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list stages of this category")
	return cmd
}

func newCatalogShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <stage-id>",
		Short: "Show one stage in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition()
			if err != nil {
				return err
			}
			stage, ok := def.Stages.Lookup(processing.StageID(args[0]))
			if !ok {
				return fmt.Errorf("unknown stage %q", args[0])
			}

			out := cmd.OutOrStdout()
			titleColor.Fprintf(out, "%s\n", stage.Name)
			fmt.Fprintf(out, "  ID:                %s\n", stage.ID)
			fmt.Fprintf(out, "  Category:          %s\n", stage.Category)
			fmt.Fprintf(out, "  Slots:             %d\n", stage.Capacity)
			fmt.Fprintf(out, "  Processing:        %s\n", formatTicks(stage.ProcessingTicks))
			fmt.Fprintf(out, "  Preserves quality: %v\n", stage.PreservesQuality)
			if stage.QualitySystem != "" {
				fmt.Fprintf(out, "  Quality system:    %s\n", stage.QualitySystem)
			}
			if stage.UpgradeChance != nil {
				fmt.Fprintf(out, "  Upgrade chance:    %.2f\n", *stage.UpgradeChance)
			}
			if stage.Resource != nil {
				fmt.Fprintf(out, "  Resource:          %s, %d per draw, capacity %d\n",
					stage.Resource.Kind, stage.Resource.Amount, stage.ResourceCapacity())
			}

			inputs := stage.InputKinds()
			sort.Slice(inputs, func(i, j int) bool { return inputs[i] < inputs[j] })
			rows := make([][]string, 0, len(inputs)+1)
			for _, in := range inputs {
				rows = append(rows, []string{string(in), string(stage.Outputs[in])})
			}
			if stage.DefaultOutput != "" {
				rows = append(rows, []string{"(any other)", string(stage.DefaultOutput)})
			}
			return renderTable(out, []string{"Input", "Output"}, rows)
		},
	}
	return cmd
}

func newCatalogRecipesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List timing minigame recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition()
			if err != nil {
				return err
			}

			recipes := def.Recipes.Recipes()
			rows := make([][]string, 0, len(recipes))
			for _, r := range recipes {
				p := r.Profile
				rows = append(rows, []string{
					r.ID,
					r.Name,
					fmt.Sprintf("%s %d-%d", r.PrimaryKind, r.MinPrimary, r.MaxPrimary),
					fmt.Sprintf("%s %d-%d", r.SecondaryKind, r.MinSecondary, r.MaxSecondary),
					string(r.OutputKind),
					fmt.Sprintf("%.2f", r.Yield),
					fmt.Sprintf("%s %d [%d-%d]", p.Name, p.CycleTicks, p.PerfectStart, p.PerfectEnd),
				})
			}
			return renderTable(cmd.OutOrStdout(),
				[]string{"ID", "Name", "Primary", "Secondary", "Output", "Yield", "Timing"}, rows)
		},
	}
	return cmd
}

func newCatalogTreeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <kind>",
		Short: "Show everything that can be made from a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition()
			if err != nil {
				return err
			}
			kind := processing.Kind(args[0])
			if !def.Stages.KnownKind(kind) && (def.Recipes == nil || !def.Recipes.KnownKind(kind)) {
				return fmt.Errorf("unknown material %q", args[0])
			}

			root := BuildChain(def, kind)
			formatter := NewTreeFormatter(!color.NoColor)
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatTree(root))
			fmt.Fprintln(out, formatter.FormatTreeSummary(root))
			return nil
		},
	}
	return cmd
}

func newCatalogValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := catalog.LoadFile(args[0])
			if err != nil {
				errorColor.Fprintf(cmd.ErrOrStderr(), "✗ %s\n", strings.TrimSpace(err.Error()))
				return fmt.Errorf("catalog %s is invalid", args[0])
			}

			out := cmd.OutOrStdout()
			successColor.Fprintf(out, "✓ %s is valid\n", args[0])
			fmt.Fprintf(out, "  Stages:          %d\n", def.Stages.Len())
			fmt.Fprintf(out, "  Recipes:         %d\n", len(def.Recipes.Recipes()))
			fmt.Fprintf(out, "  Quality systems: %s\n", strings.Join(def.Registry.Names(), ", "))
			return nil
		},
	}
	return cmd
}

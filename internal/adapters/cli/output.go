package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	grpcAdapter "github.com/andrescamacho/slotworks-go/internal/adapters/grpc"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

// renderTable writes rows under header
func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(w, tablewriter.WithHeader(header))
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// progressBar draws fraction (0..1) as a fixed-width bar
func progressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// formatTicks renders a tick count with its wall time at 20 ticks per second
func formatTicks(ticks int) string {
	seconds := ticks / 20
	switch {
	case seconds >= 3600:
		return fmt.Sprintf("%d (%dh%02dm)", ticks, seconds/3600, (seconds%3600)/60)
	case seconds >= 60:
		return fmt.Sprintf("%d (%dm%02ds)", ticks, seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%d (%ds)", ticks, seconds)
	}
}

func formatMaterial(m *grpcAdapter.MaterialMessage) string {
	if m == nil {
		return "-"
	}
	return fmt.Sprintf("%d x %s (%s)", m.Amount, m.Kind, m.Quality)
}

func printUnit(w io.Writer, unit *grpcAdapter.UnitMessage) error {
	titleColor.Fprintf(w, "Unit %s\n", unit.UnitID)
	fmt.Fprintf(w, "  Stage:     %s (%s)\n", unit.StageID, unit.StageName)
	if unit.Inert {
		warnColor.Fprintf(w, "  Inert:     %s\n", unit.Error)
		return nil
	}
	fmt.Fprintf(w, "  Category:  %s\n", unit.Category)
	fmt.Fprintf(w, "  Duration:  %s\n", formatTicks(unit.Ticks))
	printSummary(w, unit.Summary)

	rows := make([][]string, 0, len(unit.Slots))
	for _, slot := range unit.Slots {
		rows = append(rows, []string{
			fmt.Sprintf("%d", slot.Index),
			slot.State,
			formatMaterial(slot.Input),
			formatMaterial(slot.Output),
			progressBar(slot.Fraction, 20),
		})
	}
	return renderTable(w, []string{"#", "State", "Input", "Output", "Progress"}, rows)
}

func printSummary(w io.Writer, s grpcAdapter.SummaryMessage) {
	fmt.Fprintf(w, "  Slots:     %d input, %d output, %d free of %d\n",
		s.InputCount, s.OutputCount, s.FreeSlots, s.Capacity)
	fmt.Fprintf(w, "  Progress:  %s %.0f%%\n", progressBar(s.AverageProgress, 20), s.AverageProgress*100)
	if s.ResourceKind != "" {
		fmt.Fprintf(w, "  Resource:  %s %d/%d (%.0f%%)\n",
			s.ResourceKind, s.ResourceLevel, s.ResourceCapacity, s.ResourcePercentage)
	}
	if s.PausedSlots > 0 {
		warnColor.Fprintf(w, "  Paused:    %d slots waiting for resource\n", s.PausedSlots)
	}
}

package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/andrescamacho/slotworks-go/internal/adapters/catalog"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// ChainNode is one material in a production chain. Children are the
// materials made from it and the station that makes them.
type ChainNode struct {
	Kind     processing.Kind
	Via      string // stage or recipe id that produced Kind; empty at the root
	ViaName  string
	Ticks    int
	Minigame bool
	Cycle    bool // Kind already appears higher up this branch
	Children []*ChainNode
}

// BuildChain follows every stage and recipe that consumes kind, depth first.
// Only explicit input mappings are followed so catch-all stages do not fan
// out into every branch.
func BuildChain(def *catalog.Definition, kind processing.Kind) *ChainNode {
	root := &ChainNode{Kind: kind}
	expandChain(def, root, map[processing.Kind]bool{kind: true})
	return root
}

func expandChain(def *catalog.Definition, node *ChainNode, onPath map[processing.Kind]bool) {
	for _, stage := range def.Stages.Stages() {
		out, ok := stage.Outputs[node.Kind]
		if !ok {
			continue
		}
		node.Children = append(node.Children, &ChainNode{
			Kind:    out,
			Via:     string(stage.ID),
			ViaName: stage.Name,
			Ticks:   stage.ProcessingTicks,
		})
	}
	if def.Recipes != nil {
		for _, recipe := range def.Recipes.Recipes() {
			if recipe.PrimaryKind != node.Kind && recipe.SecondaryKind != node.Kind {
				continue
			}
			node.Children = append(node.Children, &ChainNode{
				Kind:     recipe.OutputKind,
				Via:      recipe.ID,
				ViaName:  recipe.Name,
				Ticks:    recipe.Profile.CycleTicks,
				Minigame: true,
			})
		}
	}

	for _, child := range node.Children {
		if onPath[child.Kind] {
			child.Cycle = true
			continue
		}
		onPath[child.Kind] = true
		expandChain(def, child, onPath)
		delete(onPath, child.Kind)
	}
}

// CountNodes returns the number of nodes in the tree
func (n *ChainNode) CountNodes() int {
	count := 1
	for _, child := range n.Children {
		count += child.CountNodes()
	}
	return count
}

// Depth returns the length of the longest branch
func (n *ChainNode) Depth() int {
	deepest := 0
	for _, child := range n.Children {
		if d := child.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// TotalTicks returns the ticks of the slowest path from the root
func (n *ChainNode) TotalTicks() int {
	slowest := 0
	for _, child := range n.Children {
		if t := child.TotalTicks(); t > slowest {
			slowest = t
		}
	}
	return n.Ticks + slowest
}

// TreeFormatter renders production chains
type TreeFormatter struct {
	useColors bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors bool) *TreeFormatter {
	return &TreeFormatter{useColors: useColors}
}

// FormatTree renders a chain with box-drawing branches
func (f *TreeFormatter) FormatTree(root *ChainNode) string {
	if root == nil {
		return "(empty tree)"
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

func (f *TreeFormatter) formatNode(builder *strings.Builder, node *ChainNode, prefix string, isLast bool, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	line := linePrefix + string(node.Kind)
	if node.Via != "" {
		station := f.paint(color.FgGreen, node.Via)
		if node.Minigame {
			station = f.paint(color.FgYellow, node.Via+" (timed)")
		}
		line += fmt.Sprintf(" [%s, %d ticks]", station, node.Ticks)
	}
	if node.Cycle {
		line += f.paint(color.FgRed, " (cycle)")
	}
	builder.WriteString(line + "\n")

	if len(node.Children) == 0 {
		return
	}
	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}
	for i, child := range node.Children {
		f.formatNode(builder, child, childPrefix, i == len(node.Children)-1, false)
	}
}

func (f *TreeFormatter) paint(attr color.Attribute, s string) string {
	if !f.useColors {
		return s
	}
	return color.New(attr).Sprint(s)
}

// FormatTreeSummary creates a compact summary of the tree
func (f *TreeFormatter) FormatTreeSummary(root *ChainNode) string {
	if root == nil {
		return "No production chain"
	}
	return fmt.Sprintf("Chain: %d materials, depth=%d, slowest path=%s",
		root.CountNodes(), root.Depth(), formatTicks(root.TotalTicks()))
}

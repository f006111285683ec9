package processing

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
)

// StageID is the catalog key of a processing stage, e.g. "tobacco_virginia.drying"
type StageID string

// Category groups stages by product family
type Category string

const (
	CategoryPlant     Category = "PLANT"
	CategoryMushroom  Category = "MUSHROOM"
	CategoryChemical  Category = "CHEMICAL"
	CategoryExtract   Category = "EXTRACT"
	CategoryProcessed Category = "PROCESSED"
)

// ParseCategory converts a string to a Category
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryPlant:
		return CategoryPlant, nil
	case CategoryMushroom:
		return CategoryMushroom, nil
	case CategoryChemical:
		return CategoryChemical, nil
	case CategoryExtract:
		return CategoryExtract, nil
	case CategoryProcessed:
		return CategoryProcessed, nil
	default:
		return "", fmt.Errorf("invalid category: %s", s)
	}
}

// ResourceRequirement is the consumable a stage draws from its gate.
// Amount is checked before every slot advance and drawn each time that
// slot's progress crosses the consume cadence.
type ResourceRequirement struct {
	Kind     ResourceKind
	Amount   int
	Capacity int
}

// StageDescriptor holds every constant a processing unit needs
type StageDescriptor struct {
	ID              StageID
	Name            string
	Category        Category
	Capacity        int
	ProcessingTicks int
	Resource        *ResourceRequirement

	// Outputs maps input kind to output kind. DefaultOutput is used for any
	// input kind not listed; empty means such inputs are rejected.
	Outputs       map[Kind]Kind
	DefaultOutput Kind

	// PreservesQuality carries the input tier (with the upgrade roll) into the
	// output. When false the output gets its quality system's default tier.
	PreservesQuality bool
	QualitySystem    string

	// UpgradeChance overrides the world default when set
	UpgradeChance *float64
}

// Validate checks the descriptor's structural rules
func (d StageDescriptor) Validate() error {
	if d.ID == "" {
		return &ErrInvalidStage{Reason: "id cannot be empty"}
	}
	if d.Capacity <= 0 {
		return &ErrInvalidStage{StageID: d.ID, Reason: fmt.Sprintf("capacity must be positive, got %d", d.Capacity)}
	}
	if d.ProcessingTicks <= 0 {
		return &ErrInvalidStage{StageID: d.ID, Reason: fmt.Sprintf("processing ticks must be positive, got %d", d.ProcessingTicks)}
	}
	if len(d.Outputs) == 0 && d.DefaultOutput == "" {
		return &ErrInvalidStage{StageID: d.ID, Reason: "stage has no output mapping"}
	}
	if d.Resource != nil {
		if d.Resource.Kind == "" {
			return &ErrInvalidStage{StageID: d.ID, Reason: "resource kind cannot be empty"}
		}
		if d.Resource.Amount <= 0 {
			return &ErrInvalidStage{StageID: d.ID, Reason: "resource amount must be positive"}
		}
		if d.Resource.Capacity < 0 {
			return &ErrInvalidStage{StageID: d.ID, Reason: "resource capacity cannot be negative"}
		}
	}
	if d.UpgradeChance != nil && (*d.UpgradeChance < 0 || *d.UpgradeChance > 1) {
		return &ErrInvalidStage{StageID: d.ID, Reason: "upgrade chance must be within [0,1]"}
	}
	return nil
}

// RequiresResource reports whether progress is gated by a consumable
func (d StageDescriptor) RequiresResource() bool {
	return d.Resource != nil
}

// ResourceCapacity returns the gate capacity, applying the default
func (d StageDescriptor) ResourceCapacity() int {
	if d.Resource == nil {
		return 0
	}
	if d.Resource.Capacity == 0 {
		return DefaultResourceCapacity
	}
	return d.Resource.Capacity
}

// OutputKind maps an input kind to the kind this stage produces
func (d StageDescriptor) OutputKind(in Kind) (Kind, bool) {
	if out, ok := d.Outputs[in]; ok {
		return out, true
	}
	if d.DefaultOutput != "" {
		return d.DefaultOutput, true
	}
	return "", false
}

// Accepts reports whether the stage can process the kind
func (d StageDescriptor) Accepts(in Kind) bool {
	_, ok := d.OutputKind(in)
	return ok
}

// Produce derives a completed batch's output from its input and the output
// tier. The unit decides the tier: the upgraded input tier when the stage
// preserves quality, otherwise the default of the stage's quality system.
func (d StageDescriptor) Produce(in Material, tier quality.Tier) Material {
	kind, ok := d.OutputKind(in.Kind)
	if !ok {
		return Material{}
	}
	return Material{Kind: kind, Quality: tier, Amount: in.Amount}
}

// InputKinds lists the explicitly mapped input kinds
func (d StageDescriptor) InputKinds() []Kind {
	kinds := make([]Kind, 0, len(d.Outputs))
	for k := range d.Outputs {
		kinds = append(kinds, k)
	}
	return kinds
}

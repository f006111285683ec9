package catalog

// Document is the on-disk layout of a catalog file. The same field names
// are used for YAML and JSON.
type Document struct {
	QualitySystems []QualitySystemDoc `yaml:"quality_systems" json:"quality_systems"`
	Stages         []StageDoc         `yaml:"stages" json:"stages"`
	Recipes        []RecipeDoc        `yaml:"recipes" json:"recipes"`
}

// QualitySystemDoc declares an extra tier system. Either Tiers or Count is
// set; Count builds an evenly spaced custom system.
type QualitySystemDoc struct {
	Name  string    `yaml:"name" json:"name"`
	Count int       `yaml:"count,omitempty" json:"count,omitempty"`
	Tiers []TierDoc `yaml:"tiers,omitempty" json:"tiers,omitempty"`
}

type TierDoc struct {
	Name       string  `yaml:"name" json:"name"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// StageDoc is one processing stage. Input/Output is shorthand for a single
// entry in Outputs.
type StageDoc struct {
	ID               string            `yaml:"id" json:"id"`
	Name             string            `yaml:"name" json:"name"`
	Category         string            `yaml:"category" json:"category"`
	Capacity         int               `yaml:"capacity" json:"capacity"`
	ProcessingTicks  int               `yaml:"processing_ticks" json:"processing_ticks"`
	Input            string            `yaml:"input,omitempty" json:"input,omitempty"`
	Output           string            `yaml:"output,omitempty" json:"output,omitempty"`
	Outputs          map[string]string `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	DefaultOutput    string            `yaml:"default_output,omitempty" json:"default_output,omitempty"`
	PreservesQuality *bool             `yaml:"preserves_quality,omitempty" json:"preserves_quality,omitempty"`
	QualitySystem    string            `yaml:"quality_system,omitempty" json:"quality_system,omitempty"`
	UpgradeChance    *float64          `yaml:"upgrade_chance,omitempty" json:"upgrade_chance,omitempty"`
	Resource         *ResourceDoc      `yaml:"resource,omitempty" json:"resource,omitempty"`
}

type ResourceDoc struct {
	Kind     string `yaml:"kind" json:"kind"`
	Amount   int    `yaml:"amount" json:"amount"`
	Capacity int    `yaml:"capacity,omitempty" json:"capacity,omitempty"`
}

// RecipeDoc is one timing minigame station
type RecipeDoc struct {
	ID            string     `yaml:"id" json:"id"`
	Name          string     `yaml:"name" json:"name"`
	Primary       string     `yaml:"primary" json:"primary"`
	Secondary     string     `yaml:"secondary" json:"secondary"`
	Output        string     `yaml:"output" json:"output"`
	QualitySystem string     `yaml:"quality_system,omitempty" json:"quality_system,omitempty"`
	MinPrimary    int        `yaml:"min_primary" json:"min_primary"`
	MaxPrimary    int        `yaml:"max_primary" json:"max_primary"`
	MinSecondary  int        `yaml:"min_secondary" json:"min_secondary"`
	MaxSecondary  int        `yaml:"max_secondary" json:"max_secondary"`
	Yield         float64    `yaml:"yield,omitempty" json:"yield,omitempty"`
	Profile       string     `yaml:"profile" json:"profile"`
	Timing        *TimingDoc `yaml:"timing,omitempty" json:"timing,omitempty"`
}

// TimingDoc overrides parts of a named timing profile
type TimingDoc struct {
	CycleTicks    int       `yaml:"cycle_ticks,omitempty" json:"cycle_ticks,omitempty"`
	PerfectWindow []int     `yaml:"perfect_window,omitempty" json:"perfect_window,omitempty"`
	GoodWindow    []int     `yaml:"good_window,omitempty" json:"good_window,omitempty"`
	Thresholds    []float64 `yaml:"thresholds,omitempty" json:"thresholds,omitempty"`
}

package quality

import (
	"fmt"
	"strings"
)

// TierDef describes one grade inside a tier system
type TierDef struct {
	Name       string
	Multiplier float64
}

// System is an ordered list of quality grades, lowest first.
// Systems are immutable once built.
type System struct {
	name  string
	tiers []TierDef
}

// NewSystem creates a tier system from grades ordered lowest to highest
func NewSystem(name string, tiers []TierDef) (*System, error) {
	if name == "" {
		return nil, fmt.Errorf("quality system name cannot be empty")
	}
	if len(tiers) < 2 {
		return nil, fmt.Errorf("quality system %s needs at least 2 tiers, got %d", name, len(tiers))
	}

	seen := make(map[string]bool, len(tiers))
	defs := make([]TierDef, len(tiers))
	for i, t := range tiers {
		key := strings.ToLower(t.Name)
		if key == "" {
			return nil, fmt.Errorf("quality system %s: tier %d has no name", name, i)
		}
		if seen[key] {
			return nil, fmt.Errorf("quality system %s: duplicate tier %s", name, t.Name)
		}
		seen[key] = true
		defs[i] = TierDef{Name: key, Multiplier: t.Multiplier}
	}

	return &System{name: name, tiers: defs}, nil
}

// Standard returns the four-grade system used by most products
func Standard() *System {
	return mustSystem("standard", []TierDef{
		{Name: "poor", Multiplier: 0.7},
		{Name: "good", Multiplier: 1.0},
		{Name: "very_good", Multiplier: 1.5},
		{Name: "legendary", Multiplier: 2.5},
	})
}

// FiveTier returns the five-grade system used by cured plant products
func FiveTier() *System {
	return mustSystem("five_tier", []TierDef{
		{Name: "schwag", Multiplier: 0.5},
		{Name: "mids", Multiplier: 1.0},
		{Name: "dank", Multiplier: 1.8},
		{Name: "top_shelf", Multiplier: 3.0},
		{Name: "exotic", Multiplier: 5.0},
	})
}

// NewCustom builds a system of count tiers named tier_0..tier_n with
// multipliers spread linearly from 0.5 to 0.5+count*0.5.
func NewCustom(name string, count int) (*System, error) {
	if count < 2 || count > 10 {
		return nil, fmt.Errorf("custom quality system needs 2-10 tiers, got %d", count)
	}
	tiers := make([]TierDef, count)
	for i := 0; i < count; i++ {
		tiers[i] = TierDef{
			Name:       fmt.Sprintf("tier_%d", i),
			Multiplier: 0.5 + float64(i)*0.5,
		}
	}
	return NewSystem(name, tiers)
}

func mustSystem(name string, tiers []TierDef) *System {
	s, err := NewSystem(name, tiers)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the system identifier
func (s *System) Name() string {
	return s.name
}

// Len returns the number of tiers
func (s *System) Len() int {
	return len(s.tiers)
}

// Max returns the highest tier
func (s *System) Max() Tier {
	return Tier{system: s, level: len(s.tiers) - 1}
}

// Min returns the lowest tier
func (s *System) Min() Tier {
	return Tier{system: s, level: 0}
}

// Default returns the middle tier, used when no better information exists
func (s *System) Default() Tier {
	return Tier{system: s, level: (len(s.tiers) - 1) / 2}
}

// ByLevel returns the tier at level, falling back to the lowest tier
// when level is out of range.
func (s *System) ByLevel(level int) Tier {
	if level < 0 || level >= len(s.tiers) {
		return s.Min()
	}
	return Tier{system: s, level: level}
}

// Parse resolves a tier by name (case-insensitive)
func (s *System) Parse(name string) (Tier, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, t := range s.tiers {
		if t.Name == key {
			return Tier{system: s, level: i}, true
		}
	}
	return Tier{}, false
}

// Tiers returns all tiers lowest first
func (s *System) Tiers() []Tier {
	out := make([]Tier, len(s.tiers))
	for i := range s.tiers {
		out[i] = Tier{system: s, level: i}
	}
	return out
}

// Tier is a grade inside a System. The zero value is "no quality".
type Tier struct {
	system *System
	level  int
}

// IsZero reports whether the tier carries no system
func (t Tier) IsZero() bool {
	return t.system == nil
}

func (t Tier) System() *System {
	return t.system
}

func (t Tier) Level() int {
	return t.level
}

func (t Tier) Name() string {
	if t.system == nil {
		return ""
	}
	return t.system.tiers[t.level].Name
}

func (t Tier) Multiplier() float64 {
	if t.system == nil {
		return 1.0
	}
	return t.system.tiers[t.level].Multiplier
}

func (t Tier) IsMax() bool {
	return t.system != nil && t.level == len(t.system.tiers)-1
}

func (t Tier) IsMin() bool {
	return t.system != nil && t.level == 0
}

// Upgrade returns the next tier, or t itself when already at max
func (t Tier) Upgrade() Tier {
	if t.system == nil || t.IsMax() {
		return t
	}
	return Tier{system: t.system, level: t.level + 1}
}

// Downgrade returns the previous tier, or t itself when already at min
func (t Tier) Downgrade() Tier {
	if t.system == nil || t.IsMin() {
		return t
	}
	return Tier{system: t.system, level: t.level - 1}
}

// Equal compares system identity and level
func (t Tier) Equal(other Tier) bool {
	if t.system == nil || other.system == nil {
		return t.system == other.system
	}
	return t.system.name == other.system.name && t.level == other.level
}

func (t Tier) String() string {
	if t.system == nil {
		return "none"
	}
	return fmt.Sprintf("%s/%s", t.system.name, t.Name())
}

package processing

import "fmt"

// ResourceKind names a consumable such as "diesel" or "water"
type ResourceKind string

// DefaultResourceCapacity applies when a stage does not set one
const DefaultResourceCapacity = 10000

// ResourceGate tracks one depletable consumable owned by a single unit.
//
// Invariants:
//   - 0 <= level <= capacity
//   - Deposit clamps at capacity
//   - TryConsume either subtracts exactly n or changes nothing
type ResourceGate struct {
	kind     ResourceKind
	level    int
	capacity int
}

// NewResourceGate creates an empty gate
func NewResourceGate(kind ResourceKind, capacity int) (*ResourceGate, error) {
	if kind == "" {
		return nil, fmt.Errorf("resource kind cannot be empty")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("resource capacity must be positive, got %d", capacity)
	}
	return &ResourceGate{kind: kind, capacity: capacity}, nil
}

func (g *ResourceGate) Kind() ResourceKind {
	return g.kind
}

func (g *ResourceGate) Level() int {
	return g.level
}

func (g *ResourceGate) Capacity() int {
	return g.capacity
}

// Deposit adds up to amount and returns how much was accepted
func (g *ResourceGate) Deposit(amount int) int {
	if amount <= 0 {
		return 0
	}
	room := g.capacity - g.level
	if amount > room {
		amount = room
	}
	g.level += amount
	return amount
}

// TryConsume subtracts n when at least n is available
func (g *ResourceGate) TryConsume(n int) bool {
	if n < 0 || g.level < n {
		return false
	}
	g.level -= n
	return true
}

// CanSupply reports whether n is available without consuming it
func (g *ResourceGate) CanSupply(n int) bool {
	return g.level >= n
}

// Percentage returns the fill level as 0-100
func (g *ResourceGate) Percentage() float64 {
	return float64(g.level) / float64(g.capacity) * 100.0
}

func (g *ResourceGate) IsFull() bool {
	return g.level == g.capacity
}

func (g *ResourceGate) IsEmpty() bool {
	return g.level == 0
}

// restore sets the level from persisted state, clamped to the current capacity
func (g *ResourceGate) restore(level int) {
	switch {
	case level < 0:
		g.level = 0
	case level > g.capacity:
		g.level = g.capacity
	default:
		g.level = level
	}
}

func (g *ResourceGate) String() string {
	return fmt.Sprintf("%s(%d/%d)", g.kind, g.level, g.capacity)
}

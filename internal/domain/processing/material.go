package processing

import (
	"fmt"

	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
)

// Kind identifies a material, e.g. "fresh_tobacco_leaf"
type Kind string

// Material is an amount of one kind at one quality tier.
// The zero value means "absent".
type Material struct {
	Kind    Kind
	Quality quality.Tier
	Amount  int
}

// NewMaterial creates a material with validation
func NewMaterial(kind Kind, q quality.Tier, amount int) (Material, error) {
	if kind == "" {
		return Material{}, &ErrInvalidMaterial{Reason: "kind cannot be empty"}
	}
	if amount <= 0 {
		return Material{}, &ErrInvalidMaterial{Kind: kind, Reason: fmt.Sprintf("amount must be positive, got %d", amount)}
	}
	return Material{Kind: kind, Quality: q, Amount: amount}, nil
}

// IsZero reports whether the material is absent
func (m Material) IsZero() bool {
	return m.Kind == "" || m.Amount <= 0
}

// WithAmount returns a copy carrying a different amount
func (m Material) WithAmount(amount int) Material {
	m.Amount = amount
	return m
}

// SameStack reports whether two materials could be merged into one stack
func (m Material) SameStack(other Material) bool {
	return m.Kind == other.Kind && m.Quality.Equal(other.Quality)
}

func (m Material) String() string {
	if m.IsZero() {
		return "empty"
	}
	return fmt.Sprintf("%dx %s [%s]", m.Amount, m.Kind, m.Quality)
}

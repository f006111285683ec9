package quality

import "fmt"

// DefaultUpgradeChance is the probability a completed batch moves up one tier
const DefaultUpgradeChance = 0.2

// Sampler yields uniform samples in [0,1)
type Sampler interface {
	Float64() float64
}

// UpgradeTransform promotes a tier by at most one step with a fixed probability.
// It never downgrades.
type UpgradeTransform struct {
	chance float64
}

// NewUpgradeTransform creates a transform; chance must be within [0,1]
func NewUpgradeTransform(chance float64) (UpgradeTransform, error) {
	if chance < 0 || chance > 1 {
		return UpgradeTransform{}, fmt.Errorf("upgrade chance must be within [0,1], got %f", chance)
	}
	return UpgradeTransform{chance: chance}, nil
}

// Chance returns the configured probability
func (u UpgradeTransform) Chance() float64 {
	return u.chance
}

// Apply draws one sample unless t is already max
func (u UpgradeTransform) Apply(t Tier, rnd Sampler) Tier {
	if t.IsZero() || t.IsMax() {
		return t
	}
	if rnd.Float64() < u.chance {
		return t.Upgrade()
	}
	return t
}

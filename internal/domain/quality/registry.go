package quality

import "fmt"

// Registry resolves tier systems by name. One registry is owned per world;
// nothing here is global.
type Registry struct {
	systems map[string]*System
	order   []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{systems: make(map[string]*System)}
}

// DefaultRegistry returns a registry holding the standard and five-tier systems
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(Standard())
	_ = r.Register(FiveTier())
	return r
}

// Register adds a system. Names must be unique.
func (r *Registry) Register(s *System) error {
	if s == nil {
		return fmt.Errorf("quality system cannot be nil")
	}
	if _, exists := r.systems[s.Name()]; exists {
		return fmt.Errorf("quality system %s already registered", s.Name())
	}
	r.systems[s.Name()] = s
	r.order = append(r.order, s.Name())
	return nil
}

// System looks up a system by name
func (r *Registry) System(name string) (*System, bool) {
	s, ok := r.systems[name]
	return s, ok
}

// Resolve finds a tier by system and tier name
func (r *Registry) Resolve(systemName, tierName string) (Tier, bool) {
	s, ok := r.systems[systemName]
	if !ok {
		return Tier{}, false
	}
	return s.Parse(tierName)
}

// Names returns registered system names in registration order
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

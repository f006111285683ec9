package processing

import (
	"fmt"
	"sort"
)

// StageCatalog is the read-only lookup shared by every catalog-driven unit
type StageCatalog interface {
	Lookup(id StageID) (StageDescriptor, bool)
}

// Catalog is an immutable in-memory StageCatalog
type Catalog struct {
	stages map[StageID]StageDescriptor
	order  []StageID
	kinds  map[Kind]bool
}

// NewCatalog validates descriptors and indexes them by id
func NewCatalog(stages []StageDescriptor) (*Catalog, error) {
	c := &Catalog{
		stages: make(map[StageID]StageDescriptor, len(stages)),
		kinds:  make(map[Kind]bool),
	}
	for _, s := range stages {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.stages[s.ID]; exists {
			return nil, fmt.Errorf("duplicate stage id: %s", s.ID)
		}
		c.stages[s.ID] = s
		c.order = append(c.order, s.ID)
		for in, out := range s.Outputs {
			c.kinds[in] = true
			c.kinds[out] = true
		}
		if s.DefaultOutput != "" {
			c.kinds[s.DefaultOutput] = true
		}
	}
	return c, nil
}

// Lookup finds a stage by id
func (c *Catalog) Lookup(id StageID) (StageDescriptor, bool) {
	s, ok := c.stages[id]
	return s, ok
}

// Stages returns descriptors in declaration order
func (c *Catalog) Stages() []StageDescriptor {
	out := make([]StageDescriptor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.stages[id])
	}
	return out
}

// ByCategory returns descriptors of one category in declaration order
func (c *Catalog) ByCategory(cat Category) []StageDescriptor {
	var out []StageDescriptor
	for _, id := range c.order {
		if c.stages[id].Category == cat {
			out = append(out, c.stages[id])
		}
	}
	return out
}

// KnownKind reports whether any stage consumes or produces the kind
func (c *Catalog) KnownKind(k Kind) bool {
	return c.kinds[k]
}

// Kinds returns every known kind sorted by name
func (c *Catalog) Kinds() []Kind {
	out := make([]Kind, 0, len(c.kinds))
	for k := range c.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *Catalog) Len() int {
	return len(c.order)
}

package world

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// DirtyTracker is the world's ChangeSink. It remembers which entities need
// saving and forwards every notification to an optional observer.
type DirtyTracker struct {
	mu      sync.Mutex
	dirty   map[uuid.UUID]struct{}
	reasons map[processing.ChangeReason]int
	next    processing.ChangeSink
}

// NewDirtyTracker creates a tracker; next may be nil
func NewDirtyTracker(next processing.ChangeSink) *DirtyTracker {
	return &DirtyTracker{
		dirty:   make(map[uuid.UUID]struct{}),
		reasons: make(map[processing.ChangeReason]int),
		next:    next,
	}
}

func (d *DirtyTracker) Changed(id uuid.UUID, reason processing.ChangeReason) {
	d.mu.Lock()
	d.dirty[id] = struct{}{}
	d.reasons[reason]++
	d.mu.Unlock()

	if d.next != nil {
		d.next.Changed(id, reason)
	}
}

// Mark flags an id without counting a reason
func (d *DirtyTracker) Mark(ids ...uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range ids {
		d.dirty[id] = struct{}{}
	}
}

// Peek returns the dirty ids without clearing them
func (d *DirtyTracker) Peek() []uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return sortedIDs(d.dirty)
}

// Drain returns and clears the dirty ids
func (d *DirtyTracker) Drain() []uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := sortedIDs(d.dirty)
	d.dirty = make(map[uuid.UUID]struct{})
	return ids
}

// Count returns how many notifications carried reason
func (d *DirtyTracker) Count(reason processing.ChangeReason) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reasons[reason]
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

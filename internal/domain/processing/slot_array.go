package processing

import "fmt"

// SlotArray is a fixed-size ordered collection of batches.
// Insertion always uses the lowest free index.
type SlotArray struct {
	slots []Batch
}

// NewSlotArray creates an array of free slots
func NewSlotArray(capacity int) (*SlotArray, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("slot capacity must be positive, got %d", capacity)
	}
	return &SlotArray{slots: make([]Batch, capacity)}, nil
}

func (a *SlotArray) Capacity() int {
	return len(a.slots)
}

// Slot returns a copy of the batch at index i
func (a *SlotArray) Slot(i int) (Batch, bool) {
	if i < 0 || i >= len(a.slots) {
		return Batch{}, false
	}
	return a.slots[i], true
}

// FirstFree returns the lowest free index or -1
func (a *SlotArray) FirstFree() int {
	for i := range a.slots {
		if a.slots[i].IsFree() {
			return i
		}
	}
	return -1
}

// Insert starts a batch in the first free slot
func (a *SlotArray) Insert(m Material) (int, bool) {
	if m.IsZero() {
		return -1, false
	}
	i := a.FirstFree()
	if i < 0 {
		return -1, false
	}
	a.slots[i].start(m)
	return i, true
}

// ExtractAll drains every ready slot into one aggregated material.
// Kind and quality come from the first ready slot; amounts are summed.
func (a *SlotArray) ExtractAll() (Material, bool) {
	var total Material
	for i := range a.slots {
		out, ok := a.slots[i].Output()
		if !ok {
			continue
		}
		if total.IsZero() {
			total = out
		} else {
			total.Amount += out.Amount
		}
		a.slots[i].clear()
	}
	return total, !total.IsZero()
}

// ExtractGrouped drains every ready slot, merging outputs that share kind and
// quality. Stacks are returned in order of first appearance.
func (a *SlotArray) ExtractGrouped() []Material {
	var stacks []Material
	for i := range a.slots {
		out, ok := a.slots[i].Output()
		if !ok {
			continue
		}
		merged := false
		for j := range stacks {
			if stacks[j].SameStack(out) {
				stacks[j].Amount += out.Amount
				merged = true
				break
			}
		}
		if !merged {
			stacks = append(stacks, out)
		}
		a.slots[i].clear()
	}
	return stacks
}

// InputCount is the number of active slots
func (a *SlotArray) InputCount() int {
	return a.count(SlotActive)
}

// OutputCount is the number of ready slots
func (a *SlotArray) OutputCount() int {
	return a.count(SlotReady)
}

// FreeCount is the number of free slots
func (a *SlotArray) FreeCount() int {
	return a.count(SlotFree)
}

func (a *SlotArray) IsFull() bool {
	return a.FirstFree() < 0
}

func (a *SlotArray) HasInput() bool {
	return a.InputCount() > 0
}

func (a *SlotArray) HasOutput() bool {
	return a.OutputCount() > 0
}

// AverageProgress is the mean completion fraction over active slots
func (a *SlotArray) AverageProgress(processingTicks int) float64 {
	if processingTicks <= 0 {
		return 0
	}
	active := 0
	sum := 0.0
	for i := range a.slots {
		if !a.slots[i].IsActive() {
			continue
		}
		active++
		f := float64(a.slots[i].progress) / float64(processingTicks)
		if f > 1 {
			f = 1
		}
		sum += f
	}
	if active == 0 {
		return 0
	}
	return sum / float64(active)
}

func (a *SlotArray) count(state SlotState) int {
	n := 0
	for i := range a.slots {
		if a.slots[i].State() == state {
			n++
		}
	}
	return n
}

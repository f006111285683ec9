package processing

// SlotState is derived from which of input/output is present
type SlotState int

const (
	// SlotFree holds neither input nor output
	SlotFree SlotState = iota
	// SlotActive holds input that is being processed
	SlotActive
	// SlotReady holds output waiting for extraction
	SlotReady
)

func (s SlotState) String() string {
	switch s {
	case SlotFree:
		return "FREE"
	case SlotActive:
		return "ACTIVE"
	case SlotReady:
		return "READY"
	default:
		return "UNKNOWN"
	}
}

// Batch is one slot's in-flight conversion.
// A batch never holds input and output at the same time.
type Batch struct {
	input    Material
	output   Material
	progress int
}

// State classifies the batch
func (b Batch) State() SlotState {
	switch {
	case !b.output.IsZero():
		return SlotReady
	case !b.input.IsZero():
		return SlotActive
	default:
		return SlotFree
	}
}

func (b Batch) IsFree() bool {
	return b.State() == SlotFree
}

func (b Batch) IsActive() bool {
	return b.State() == SlotActive
}

func (b Batch) IsReady() bool {
	return b.State() == SlotReady
}

// Input returns the material being processed, if any
func (b Batch) Input() (Material, bool) {
	return b.input, !b.input.IsZero()
}

// Output returns the finished material, if any
func (b Batch) Output() (Material, bool) {
	return b.output, !b.output.IsZero()
}

// Progress returns elapsed processing ticks
func (b Batch) Progress() int {
	return b.progress
}

func (b *Batch) start(m Material) {
	b.input = m
	b.output = Material{}
	b.progress = 0
}

func (b *Batch) advance(step int) {
	b.progress += step
}

func (b *Batch) finish(out Material) {
	b.input = Material{}
	b.output = out
	b.progress = 0
}

func (b *Batch) clear() {
	*b = Batch{}
}

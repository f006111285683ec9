package processing

// OccupancySummary is the read-only status shown to players
type OccupancySummary struct {
	Capacity        int
	InputCount      int
	OutputCount     int
	FreeSlots       int
	AverageProgress float64
	PausedSlots     int

	ResourceKind       ResourceKind
	ResourceLevel      int
	ResourceCapacity   int
	ResourcePercentage float64

	Inert bool
}

func (s OccupancySummary) IsFull() bool {
	return s.Capacity > 0 && s.FreeSlots == 0
}

func (s OccupancySummary) HasInput() bool {
	return s.InputCount > 0
}

func (s OccupancySummary) HasOutput() bool {
	return s.OutputCount > 0
}

// Summary reports occupancy, progress and resource state
func (u *Unit) Summary() OccupancySummary {
	if u.stage == nil {
		return OccupancySummary{Inert: true}
	}

	s := OccupancySummary{
		Capacity:        u.slots.Capacity(),
		InputCount:      u.slots.InputCount(),
		OutputCount:     u.slots.OutputCount(),
		FreeSlots:       u.slots.FreeCount(),
		AverageProgress: u.slots.AverageProgress(u.stage.ProcessingTicks),
	}

	if u.gate != nil {
		s.ResourceKind = u.gate.Kind()
		s.ResourceLevel = u.gate.Level()
		s.ResourceCapacity = u.gate.Capacity()
		s.ResourcePercentage = u.gate.Percentage()
		if !u.gate.CanSupply(u.stage.Resource.Amount) {
			s.PausedSlots = s.InputCount
		}
	}

	return s
}

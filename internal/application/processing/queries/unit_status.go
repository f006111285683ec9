package queries

import (
	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// SlotStatus is the read model of one slot
type SlotStatus struct {
	Index    int
	State    processing.SlotState
	Input    processing.Material
	Output   processing.Material
	Progress int
	Fraction float64
}

// UnitStatus is the read model of one unit
type UnitStatus struct {
	UnitID    uuid.UUID
	StageID   string
	StageName string
	Category  processing.Category
	Ticks     int
	Inert     bool
	Error     string
	Summary   processing.OccupancySummary
	Slots     []SlotStatus
}

func buildUnitStatus(id uuid.UUID, u *processing.Unit) UnitStatus {
	status := UnitStatus{
		UnitID:  id,
		StageID: string(u.StageID()),
		Inert:   u.Inert(),
		Summary: u.Summary(),
	}
	if err := u.ConfigError(); err != nil {
		status.Error = err.Error()
	}

	stage, ok := u.Stage()
	if !ok {
		return status
	}
	status.StageName = stage.Name
	status.Category = stage.Category
	status.Ticks = stage.ProcessingTicks

	for i := 0; i < u.Capacity(); i++ {
		b, _ := u.Slot(i)
		s := SlotStatus{Index: i, State: b.State(), Progress: b.Progress()}
		s.Input, _ = b.Input()
		s.Output, _ = b.Output()
		switch {
		case b.IsReady():
			s.Fraction = 1
		case b.IsActive() && stage.ProcessingTicks > 0:
			s.Fraction = float64(b.Progress()) / float64(stage.ProcessingTicks)
			if s.Fraction > 1 {
				s.Fraction = 1
			}
		}
		status.Slots = append(status.Slots, s)
	}
	return status
}

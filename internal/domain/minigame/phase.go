package minigame

import (
	"fmt"
	"strings"
)

// Phase is the minigame's state
type Phase string

const (
	PhaseIdle     Phase = "IDLE"
	PhaseLoaded   Phase = "LOADED"
	PhaseCooking  Phase = "COOKING"
	PhaseResolved Phase = "RESOLVED"
)

// ParsePhase converts a string to a Phase
func ParsePhase(s string) (Phase, error) {
	switch Phase(strings.ToUpper(strings.TrimSpace(s))) {
	case PhaseIdle:
		return PhaseIdle, nil
	case PhaseLoaded:
		return PhaseLoaded, nil
	case PhaseCooking:
		return PhaseCooking, nil
	case PhaseResolved:
		return PhaseResolved, nil
	default:
		return "", fmt.Errorf("invalid phase: %s", s)
	}
}

func (p Phase) String() string {
	return string(p)
}

// Zone classifies a cook tick against the timing windows
type Zone int

const (
	ZoneEarly Zone = iota
	ZoneGood
	ZonePerfect
	ZoneLate
)

func (z Zone) String() string {
	switch z {
	case ZoneEarly:
		return "EARLY"
	case ZoneGood:
		return "GOOD"
	case ZonePerfect:
		return "PERFECT"
	case ZoneLate:
		return "LATE"
	default:
		return "UNKNOWN"
	}
}

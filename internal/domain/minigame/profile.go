package minigame

import (
	"fmt"
	"math"

	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
)

// TimingProfile holds the windows and scoring constants of one timed action.
// The perfect window must lie inside the good window.
type TimingProfile struct {
	Name       string
	CycleTicks int

	PerfectStart int
	PerfectEnd   int
	GoodStart    int
	GoodEnd      int

	PerfectBase    float64
	PerfectPenalty float64
	PerfectDivisor float64

	GoodBase    float64
	GoodBonus   float64
	GoodCenter  int
	GoodDivisor float64

	EarlyBase  float64
	EarlyBonus float64

	LateBase    float64
	LateMin     float64
	LatePenalty float64
	LateDivisor float64

	// Thresholds are the minimum scores of tiers 1..n-1, strictly increasing
	Thresholds []float64
}

// CookProfile is the 80-tick cooking cycle with a [35,45] perfect window
func CookProfile() TimingProfile {
	return TimingProfile{
		Name:           "cook",
		CycleTicks:     80,
		PerfectStart:   35,
		PerfectEnd:     45,
		GoodStart:      28,
		GoodEnd:        52,
		PerfectBase:    1.0,
		PerfectPenalty: 0.05,
		PerfectDivisor: 10,
		GoodBase:       0.6,
		GoodBonus:      0.3,
		GoodCenter:     40,
		GoodDivisor:    20,
		EarlyBase:      0.2,
		EarlyBonus:     0.3,
		LateBase:       0.5,
		LateMin:        0.1,
		LatePenalty:    0.4,
		LateDivisor:    30,
		Thresholds:     []float64{0.5, 0.7, 0.9},
	}
}

// PressProfile is the 60-tick pressing cycle with a [25,35] perfect window
func PressProfile() TimingProfile {
	return TimingProfile{
		Name:           "press",
		CycleTicks:     60,
		PerfectStart:   25,
		PerfectEnd:     35,
		GoodStart:      20,
		GoodEnd:        40,
		PerfectBase:    1.0,
		PerfectPenalty: 0.1,
		PerfectDivisor: 10,
		GoodBase:       0.6,
		GoodBonus:      0.3,
		GoodCenter:     30,
		GoodDivisor:    15,
		EarlyBase:      0.2,
		EarlyBonus:     0.3,
		LateBase:       0.5,
		LateMin:        0.1,
		LatePenalty:    0.4,
		LateDivisor:    20,
		Thresholds:     []float64{0.5, 0.7, 0.9},
	}
}

// Validate checks window nesting, divisors and thresholds
func (p TimingProfile) Validate() error {
	fail := func(format string, args ...interface{}) error {
		return &ErrInvalidProfile{Name: p.Name, Reason: fmt.Sprintf(format, args...)}
	}
	if p.CycleTicks <= 0 {
		return fail("cycle ticks must be positive")
	}
	if p.GoodStart <= 0 || p.GoodStart > p.PerfectStart || p.PerfectStart > p.PerfectEnd ||
		p.PerfectEnd > p.GoodEnd || p.GoodEnd >= p.CycleTicks {
		return fail("windows must satisfy 0 < good_start <= perfect_start <= perfect_end <= good_end < cycle")
	}
	if p.PerfectDivisor <= 0 || p.GoodDivisor <= 0 || p.LateDivisor <= 0 {
		return fail("divisors must be positive")
	}
	if len(p.Thresholds) == 0 {
		return fail("at least one threshold is required")
	}
	for i := 1; i < len(p.Thresholds); i++ {
		if p.Thresholds[i] <= p.Thresholds[i-1] {
			return fail("thresholds must be strictly increasing")
		}
	}
	return nil
}

// PerfectCenter is the midpoint of the perfect window
func (p TimingProfile) PerfectCenter() int {
	return (p.PerfectStart + p.PerfectEnd) / 2
}

// Zone classifies a tick
func (p TimingProfile) Zone(tick int) Zone {
	switch {
	case tick >= p.PerfectStart && tick <= p.PerfectEnd:
		return ZonePerfect
	case tick >= p.GoodStart && tick <= p.GoodEnd:
		return ZoneGood
	case tick < p.GoodStart:
		return ZoneEarly
	default:
		return ZoneLate
	}
}

// Score maps a cook tick to [0,1]
func (p TimingProfile) Score(tick int) float64 {
	t := float64(tick)
	var score float64

	switch p.Zone(tick) {
	case ZonePerfect:
		distance := math.Abs(t - float64(p.PerfectCenter()))
		score = p.PerfectBase - (distance/p.PerfectDivisor)*p.PerfectPenalty
	case ZoneGood:
		distance := math.Abs(t - float64(p.GoodCenter))
		score = p.GoodBase + p.GoodBonus*(1.0-distance/p.GoodDivisor)
	case ZoneEarly:
		if t < 0 {
			t = 0
		}
		score = p.EarlyBase + (t/float64(p.GoodStart))*p.EarlyBonus
	default:
		score = math.Max(p.LateMin, p.LateBase-((t-float64(p.GoodEnd))/p.LateDivisor)*p.LatePenalty)
	}

	return math.Max(0, math.Min(1, score))
}

// Level maps a score onto a tier level using the thresholds
func (p TimingProfile) Level(score float64) int {
	level := 0
	for _, th := range p.Thresholds {
		if score >= th {
			level++
		}
	}
	return level
}

// TierFor maps a score to a tier of system, clamping to the system's range
func (p TimingProfile) TierFor(score float64, system *quality.System) quality.Tier {
	level := p.Level(score)
	if level > system.Len()-1 {
		level = system.Len() - 1
	}
	return system.ByLevel(level)
}

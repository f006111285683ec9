package minigame

import (
	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
)

// SnapshotVersion is the schema version written by Save
const SnapshotVersion = 1

// Snapshot is the versioned persisted state of a minigame
type Snapshot struct {
	Version      int                        `json:"version"`
	MinigameID   string                     `json:"minigame_id"`
	RecipeID     string                     `json:"recipe_id"`
	Phase        string                     `json:"phase"`
	Primary      int                        `json:"primary"`
	Secondary    int                        `json:"secondary"`
	InputQuality *processing.MaterialRecord `json:"input_quality,omitempty"`
	CookTick     int                        `json:"cook_tick"`
	Actor        string                     `json:"actor,omitempty"`
	LastScore    float64                    `json:"last_score"`
	Output       *processing.MaterialRecord `json:"output,omitempty"`
}

// Save captures the full state
func (m *Minigame) Save() Snapshot {
	snap := Snapshot{
		Version:    SnapshotVersion,
		MinigameID: m.id.String(),
		RecipeID:   m.recipe.ID,
		Phase:      string(m.phase),
		Primary:    m.primary,
		Secondary:  m.secondary,
		CookTick:   m.cookTick,
		LastScore:  m.lastScore,
		Output:     processing.EncodeMaterial(m.output),
	}
	if !m.inputQuality.IsZero() {
		snap.InputQuality = &processing.MaterialRecord{
			Kind:          string(m.recipe.PrimaryKind),
			QualitySystem: m.inputQuality.System().Name(),
			Quality:       m.inputQuality.Name(),
			Amount:        1,
		}
	}
	if m.actor != uuid.Nil {
		snap.Actor = m.actor.String()
	}
	return snap
}

// Load restores a snapshot. Unknown names and an unknown phase are skipped
// and reported; the station then falls back to Idle or Loaded.
func (m *Minigame) Load(snap Snapshot, resolver processing.MaterialResolver) (processing.LoadReport, error) {
	var report processing.LoadReport

	if snap.Version > SnapshotVersion {
		return report, &processing.ErrUnsupportedSnapshotVersion{Version: snap.Version, Max: SnapshotVersion}
	}

	m.primary = clampNonNegative(snap.Primary, m.recipe.MaxPrimary)
	m.secondary = clampNonNegative(snap.Secondary, m.recipe.MaxSecondary)
	m.cookTick = clampNonNegative(snap.CookTick, m.recipe.Profile.CycleTicks)
	m.lastScore = snap.LastScore
	m.output = processing.DecodeMaterial(snap.Output, resolver, &report, "output")

	m.inputQuality = quality.Tier{}
	if snap.InputQuality != nil {
		q := processing.DecodeMaterial(snap.InputQuality, resolver, &report, "input quality")
		m.inputQuality = q.Quality
	}
	if m.inputQuality.IsZero() && m.primary > 0 {
		// primary was loaded but its grade is unknown
		m.inputQuality = m.system.Default()
	}

	m.actor = uuid.Nil
	if snap.Actor != "" {
		if id, err := uuid.Parse(snap.Actor); err == nil {
			m.actor = id
		} else {
			report.Skipped = append(report.Skipped, "actor: "+err.Error())
		}
	}

	phase, err := ParsePhase(snap.Phase)
	if err != nil {
		report.Skipped = append(report.Skipped, "phase: "+err.Error())
		phase = PhaseIdle
	}
	m.phase = m.consistentPhase(phase)
	return report, nil
}

// consistentPhase corrects a persisted phase that contradicts the data
func (m *Minigame) consistentPhase(p Phase) Phase {
	switch {
	case !m.output.IsZero():
		return PhaseResolved
	case p == PhaseResolved:
		// output was lost on load
		return PhaseIdle
	case p == PhaseCooking:
		return PhaseCooking
	case m.primary > 0 || m.secondary > 0:
		if p == PhaseIdle {
			return PhaseIdle
		}
		return PhaseLoaded
	default:
		return PhaseIdle
	}
}

func clampNonNegative(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

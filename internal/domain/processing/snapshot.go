package processing

import (
	"fmt"

	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
)

// SnapshotVersion is the schema version written by Save
const SnapshotVersion = 1

// MaterialRecord is the persisted form of a Material
type MaterialRecord struct {
	Kind          string `json:"kind"`
	QualitySystem string `json:"quality_system,omitempty"`
	Quality       string `json:"quality,omitempty"`
	Amount        int    `json:"amount"`
}

// SlotRecord is the persisted form of a Batch
type SlotRecord struct {
	Input    *MaterialRecord `json:"input,omitempty"`
	Output   *MaterialRecord `json:"output,omitempty"`
	Progress int             `json:"progress"`
}

// ResourceRecord is the persisted form of a ResourceGate
type ResourceRecord struct {
	Kind     string `json:"kind"`
	Level    int    `json:"level"`
	Capacity int    `json:"capacity"`
}

// UnitSnapshot is the versioned persisted state of a unit
type UnitSnapshot struct {
	Version  int             `json:"version"`
	UnitID   string          `json:"unit_id"`
	StageID  string          `json:"stage_id"`
	Capacity int             `json:"capacity"`
	Slots    []SlotRecord    `json:"slots"`
	Resource *ResourceRecord `json:"resource,omitempty"`
}

// LoadReport lists what a load could not restore
type LoadReport struct {
	SlotsLoaded  int
	SlotsDropped int
	Skipped      []string
}

func (r *LoadReport) skip(format string, args ...interface{}) {
	r.Skipped = append(r.Skipped, fmt.Sprintf(format, args...))
}

// EncodeMaterial converts a material to its record; nil for absent material
func EncodeMaterial(m Material) *MaterialRecord {
	if m.IsZero() {
		return nil
	}
	rec := &MaterialRecord{Kind: string(m.Kind), Amount: m.Amount}
	if sys := m.Quality.System(); sys != nil {
		rec.QualitySystem = sys.Name()
		rec.Quality = m.Quality.Name()
	}
	return rec
}

// DecodeMaterial restores a material. An unknown kind drops the material; an
// unknown quality keeps the material without a tier. Both are reported.
func DecodeMaterial(rec *MaterialRecord, resolver MaterialResolver, report *LoadReport, where string) Material {
	if rec == nil || rec.Amount <= 0 {
		return Material{}
	}
	kind, ok := resolver.ResolveKind(rec.Kind)
	if !ok {
		report.skip("%s: unknown material kind %q", where, rec.Kind)
		return Material{}
	}
	var tier quality.Tier
	if rec.QualitySystem != "" || rec.Quality != "" {
		t, ok := resolver.ResolveQuality(rec.QualitySystem, rec.Quality)
		if ok {
			tier = t
		} else {
			report.skip("%s: unknown quality %s/%s", where, rec.QualitySystem, rec.Quality)
		}
	}
	return Material{Kind: kind, Quality: tier, Amount: rec.Amount}
}

// Save captures every slot and the resource level
func (u *Unit) Save() UnitSnapshot {
	snap := UnitSnapshot{
		Version: SnapshotVersion,
		UnitID:  u.id.String(),
		StageID: string(u.stageID),
	}
	if u.slots == nil {
		return snap
	}

	snap.Capacity = u.slots.Capacity()
	snap.Slots = make([]SlotRecord, u.slots.Capacity())
	for i, b := range u.slots.slots {
		snap.Slots[i] = SlotRecord{
			Input:    EncodeMaterial(b.input),
			Output:   EncodeMaterial(b.output),
			Progress: b.progress,
		}
	}
	if u.gate != nil {
		snap.Resource = &ResourceRecord{
			Kind:     string(u.gate.Kind()),
			Level:    u.gate.Level(),
			Capacity: u.gate.Capacity(),
		}
	}
	return snap
}

// Load replaces the unit's state with a snapshot. Only the slots that exist in
// both the snapshot and the unit are restored; the rest of the unit is left
// free. Unknown names are skipped and reported rather than failing the load.
func (u *Unit) Load(snap UnitSnapshot, resolver MaterialResolver) (LoadReport, error) {
	var report LoadReport

	version := snap.Version
	if version == 0 {
		version = 1
	}
	if version > SnapshotVersion {
		return report, &ErrUnsupportedSnapshotVersion{Version: snap.Version, Max: SnapshotVersion}
	}
	if u.stage == nil {
		return report, u.configErr
	}
	if snap.StageID != "" && StageID(snap.StageID) != u.stageID {
		report.skip("snapshot stage %s differs from unit stage %s", snap.StageID, u.stageID)
	}

	n := len(snap.Slots)
	if n > u.slots.Capacity() {
		report.SlotsDropped = n - u.slots.Capacity()
		n = u.slots.Capacity()
	}

	for i := range u.slots.slots {
		u.slots.slots[i].clear()
	}
	for i := 0; i < n; i++ {
		rec := snap.Slots[i]
		where := fmt.Sprintf("slot %d", i)
		in := DecodeMaterial(rec.Input, resolver, &report, where+" input")
		out := DecodeMaterial(rec.Output, resolver, &report, where+" output")

		b := &u.slots.slots[i]
		switch {
		case !out.IsZero():
			if !in.IsZero() {
				report.skip("%s: input dropped because output is pending", where)
			}
			b.finish(out)
		case !in.IsZero():
			b.start(in)
			if rec.Progress > 0 {
				b.progress = rec.Progress
			}
		}
		report.SlotsLoaded++
	}

	if snap.Resource != nil {
		switch {
		case u.gate == nil:
			report.skip("resource %s ignored: stage has no resource", snap.Resource.Kind)
		case ResourceKind(snap.Resource.Kind) != u.gate.Kind():
			report.skip("resource %s ignored: stage uses %s", snap.Resource.Kind, u.gate.Kind())
		default:
			u.gate.restore(snap.Resource.Level)
		}
	}
	return report, nil
}

package world

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// RestoreReport summarizes a world restore
type RestoreReport struct {
	Units     int
	Minigames int
	Inert     int
	Failed    int
	Skipped   []string
}

// Restore places every persisted unit and minigame. Entities that cannot be
// loaded are reported and left out; their records stay untouched in storage.
// Either repository may be nil.
func (w *World) Restore(ctx context.Context, units processing.SnapshotRepository, games minigame.SnapshotRepository) (RestoreReport, error) {
	var report RestoreReport

	if units != nil {
		snaps, err := units.FindAll(ctx)
		if err != nil {
			return report, fmt.Errorf("failed to load unit snapshots: %w", err)
		}
		for _, snap := range snaps {
			w.restoreUnit(snap, &report)
		}
	}

	if games != nil {
		snaps, err := games.FindAll(ctx)
		if err != nil {
			return report, fmt.Errorf("failed to load minigame snapshots: %w", err)
		}
		for _, snap := range snaps {
			w.restoreMinigame(snap, &report)
		}
	}

	w.logger.Log("INFO", "world restored", map[string]interface{}{
		"units":     report.Units,
		"minigames": report.Minigames,
		"inert":     report.Inert,
		"failed":    report.Failed,
		"skipped":   len(report.Skipped),
	})
	return report, nil
}

func (w *World) restoreUnit(snap processing.UnitSnapshot, report *RestoreReport) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id, err := uuid.Parse(snap.UnitID)
	if err != nil {
		w.fail(report, "unit %q: invalid id: %v", snap.UnitID, err)
		return
	}
	if w.idInUse(id) {
		w.fail(report, "unit %s: already placed", id)
		return
	}

	u := processing.NewCatalogUnit(w.catalog, processing.StageID(snap.StageID), w.unitOptions(id)...)
	if u.Inert() {
		// keep the saved state until a catalog reload binds the stage
		w.pendingLoads[id] = snap
		report.Inert++
	} else {
		loaded, err := u.Load(snap, w.resolver)
		if err != nil {
			w.fail(report, "unit %s: %v", id, err)
			return
		}
		w.note(report, "unit "+id.String(), loaded.Skipped)
	}

	w.units[id] = u
	w.unitOrder = append(w.unitOrder, id)
	report.Units++
}

func (w *World) restoreMinigame(snap minigame.Snapshot, report *RestoreReport) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id, err := uuid.Parse(snap.MinigameID)
	if err != nil {
		w.fail(report, "minigame %q: invalid id: %v", snap.MinigameID, err)
		return
	}
	if w.idInUse(id) {
		w.fail(report, "minigame %s: already placed", id)
		return
	}

	m, err := w.newMinigame(snap.RecipeID, id)
	if err != nil {
		w.fail(report, "minigame %s: %v", id, err)
		return
	}
	loaded, err := m.Load(snap, w.resolver)
	if err != nil {
		w.fail(report, "minigame %s: %v", id, err)
		return
	}
	w.note(report, "minigame "+id.String(), loaded.Skipped)

	w.minigames[id] = m
	w.minigameIDs = append(w.minigameIDs, id)
	report.Minigames++
}

func (w *World) fail(report *RestoreReport, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	report.Failed++
	report.Skipped = append(report.Skipped, msg)
	w.logger.Log("ERROR", "restore failed", map[string]interface{}{"detail": msg})
}

func (w *World) note(report *RestoreReport, owner string, skipped []string) {
	for _, s := range skipped {
		msg := owner + ": " + s
		report.Skipped = append(report.Skipped, msg)
		w.logger.Log("WARN", "restore skipped data", map[string]interface{}{"detail": msg})
	}
}

// ReloadCatalog swaps the stage catalog and rebinds inert units. Units whose
// saved state was waiting for the stage are loaded now. It returns how many
// units were rebound.
func (w *World) ReloadCatalog(catalog *processing.Catalog) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.catalog = catalog
	w.resolver = w.buildResolver()

	rebound := 0
	for _, id := range w.unitOrder {
		u := w.units[id]
		if !u.Inert() {
			continue
		}
		if err := u.Rebind(catalog); err != nil {
			continue
		}
		rebound++
		if snap, ok := w.pendingLoads[id]; ok {
			delete(w.pendingLoads, id)
			loaded, err := u.Load(snap, w.resolver)
			if err != nil {
				w.logger.Log("ERROR", "deferred unit load failed", map[string]interface{}{
					"unit_id": id.String(),
					"error":   err.Error(),
				})
			}
			for _, s := range loaded.Skipped {
				w.logger.Log("WARN", "restore skipped data", map[string]interface{}{
					"unit_id": id.String(),
					"detail":  s,
				})
			}
		}
		w.dirty.Mark(id)
	}
	return rebound
}

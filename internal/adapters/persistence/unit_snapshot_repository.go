package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
)

// GormUnitSnapshotRepository implements processing.SnapshotRepository using GORM
type GormUnitSnapshotRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormUnitSnapshotRepository creates a new GORM unit snapshot repository.
// If clock is nil, uses RealClock.
func NewGormUnitSnapshotRepository(db *gorm.DB, clock shared.Clock) *GormUnitSnapshotRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormUnitSnapshotRepository{db: db, clock: clock}
}

// Save upserts a snapshot keyed by unit id
func (r *GormUnitSnapshotRepository) Save(ctx context.Context, snap processing.UnitSnapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal unit snapshot: %w", err)
	}

	model := &UnitSnapshotModel{
		UnitID:    snap.UnitID,
		StageID:   snap.StageID,
		Version:   snap.Version,
		State:     string(state),
		UpdatedAt: r.clock.Now(),
	}
	if result := r.db.WithContext(ctx).Save(model); result.Error != nil {
		return fmt.Errorf("failed to save unit snapshot %s: %w", snap.UnitID, result.Error)
	}
	return nil
}

// FindByID returns nil without error when the unit was never saved
func (r *GormUnitSnapshotRepository) FindByID(ctx context.Context, unitID string) (*processing.UnitSnapshot, error) {
	var model UnitSnapshotModel
	result := r.db.WithContext(ctx).Where("unit_id = ?", unitID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find unit snapshot: %w", result.Error)
	}
	return decodeUnitSnapshot(&model)
}

// FindAll returns every decodable snapshot ordered by unit id.
// Rows whose state cannot be decoded are skipped.
func (r *GormUnitSnapshotRepository) FindAll(ctx context.Context) ([]processing.UnitSnapshot, error) {
	var models []UnitSnapshotModel
	if result := r.db.WithContext(ctx).Order("unit_id").Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list unit snapshots: %w", result.Error)
	}

	snaps := make([]processing.UnitSnapshot, 0, len(models))
	for i := range models {
		snap, err := decodeUnitSnapshot(&models[i])
		if err != nil {
			continue // Skip corrupt rows
		}
		snaps = append(snaps, *snap)
	}
	return snaps, nil
}

// Delete removes a unit's snapshot; deleting a missing row is not an error
func (r *GormUnitSnapshotRepository) Delete(ctx context.Context, unitID string) error {
	result := r.db.WithContext(ctx).Where("unit_id = ?", unitID).Delete(&UnitSnapshotModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete unit snapshot: %w", result.Error)
	}
	return nil
}

func decodeUnitSnapshot(model *UnitSnapshotModel) (*processing.UnitSnapshot, error) {
	var snap processing.UnitSnapshot
	if err := json.Unmarshal([]byte(model.State), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unit snapshot %s: %w", model.UnitID, err)
	}
	// the key columns win over the document
	snap.UnitID = model.UnitID
	snap.StageID = model.StageID
	return &snap, nil
}

package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
)

// GormMinigameSnapshotRepository implements minigame.SnapshotRepository using GORM
type GormMinigameSnapshotRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormMinigameSnapshotRepository creates a new GORM minigame snapshot repository
func NewGormMinigameSnapshotRepository(db *gorm.DB, clock shared.Clock) *GormMinigameSnapshotRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormMinigameSnapshotRepository{db: db, clock: clock}
}

// Save upserts a snapshot keyed by minigame id
func (r *GormMinigameSnapshotRepository) Save(ctx context.Context, snap minigame.Snapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal minigame snapshot: %w", err)
	}

	model := &MinigameSnapshotModel{
		MinigameID: snap.MinigameID,
		RecipeID:   snap.RecipeID,
		Version:    snap.Version,
		State:      string(state),
		UpdatedAt:  r.clock.Now(),
	}
	if result := r.db.WithContext(ctx).Save(model); result.Error != nil {
		return fmt.Errorf("failed to save minigame snapshot %s: %w", snap.MinigameID, result.Error)
	}
	return nil
}

// FindByID returns nil without error when the minigame was never saved
func (r *GormMinigameSnapshotRepository) FindByID(ctx context.Context, minigameID string) (*minigame.Snapshot, error) {
	var model MinigameSnapshotModel
	result := r.db.WithContext(ctx).Where("minigame_id = ?", minigameID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find minigame snapshot: %w", result.Error)
	}

	var snap minigame.Snapshot
	if err := json.Unmarshal([]byte(model.State), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal minigame snapshot %s: %w", minigameID, err)
	}
	return &snap, nil
}

// FindAll returns every decodable snapshot ordered by minigame id
func (r *GormMinigameSnapshotRepository) FindAll(ctx context.Context) ([]minigame.Snapshot, error) {
	var models []MinigameSnapshotModel
	if result := r.db.WithContext(ctx).Order("minigame_id").Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list minigame snapshots: %w", result.Error)
	}

	snaps := make([]minigame.Snapshot, 0, len(models))
	for _, model := range models {
		var snap minigame.Snapshot
		if err := json.Unmarshal([]byte(model.State), &snap); err != nil {
			continue // Skip corrupt rows
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// Delete removes a minigame's snapshot
func (r *GormMinigameSnapshotRepository) Delete(ctx context.Context, minigameID string) error {
	result := r.db.WithContext(ctx).Where("minigame_id = ?", minigameID).Delete(&MinigameSnapshotModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete minigame snapshot: %w", result.Error)
	}
	return nil
}

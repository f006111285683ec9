package persistence

import (
	"time"
)

// UnitSnapshotModel represents the unit_snapshots table
type UnitSnapshotModel struct {
	UnitID    string    `gorm:"column:unit_id;primaryKey"`
	StageID   string    `gorm:"column:stage_id;not null;index"`
	Version   int       `gorm:"column:version;not null"`
	State     string    `gorm:"column:state;type:text;not null"` // JSON snapshot as text
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (UnitSnapshotModel) TableName() string {
	return "unit_snapshots"
}

// MinigameSnapshotModel represents the minigame_snapshots table
type MinigameSnapshotModel struct {
	MinigameID string    `gorm:"column:minigame_id;primaryKey"`
	RecipeID   string    `gorm:"column:recipe_id;not null;index"`
	Version    int       `gorm:"column:version;not null"`
	State      string    `gorm:"column:state;type:text;not null"` // JSON snapshot as text
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (MinigameSnapshotModel) TableName() string {
	return "minigame_snapshots"
}

// AllModels lists every table for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&UnitSnapshotModel{},
		&MinigameSnapshotModel{},
	}
}

package minigame

import "context"

// SnapshotRepository persists minigame snapshots keyed by minigame id
type SnapshotRepository interface {
	Save(ctx context.Context, snap Snapshot) error
	FindByID(ctx context.Context, minigameID string) (*Snapshot, error)
	FindAll(ctx context.Context) ([]Snapshot, error)
	Delete(ctx context.Context, minigameID string) error
}

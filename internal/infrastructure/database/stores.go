package database

import (
	"fmt"

	"github.com/andrescamacho/slotworks-go/internal/adapters/persistence"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/config"
)

// Stores bundles the snapshot repositories of one backend
type Stores struct {
	Units     processing.SnapshotRepository
	Minigames minigame.SnapshotRepository
	Backend   string
	close     func() error
}

// Close releases the backend connection
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStores connects the configured backend and ensures its schema exists.
// sqlite-native uses the pure-Go store; every other type goes through GORM.
func OpenStores(cfg *config.DatabaseConfig, clock shared.Clock) (*Stores, error) {
	if cfg.Type == config.DatabaseSQLiteNative {
		store, err := persistence.NewSQLiteSnapshotStore(cfg.Path, clock)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store %s: %w", cfg.Path, err)
		}
		return &Stores{
			Units:     store.Units(),
			Minigames: store.Minigames(),
			Backend:   cfg.Type,
			close:     store.Close,
		}, nil
	}

	db, err := NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Stores{
		Units:     persistence.NewGormUnitSnapshotRepository(db, clock),
		Minigames: persistence.NewGormMinigameSnapshotRepository(db, clock),
		Backend:   cfg.Type,
		close:     func() error { return Close(db) },
	}, nil
}

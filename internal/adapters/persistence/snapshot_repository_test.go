package persistence_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/adapters/persistence"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
	"github.com/andrescamacho/slotworks-go/test/helpers"
)

func unitSnapshot(id string) processing.UnitSnapshot {
	return processing.UnitSnapshot{
		Version:  processing.SnapshotVersion,
		UnitID:   id,
		StageID:  "coca.extraction",
		Capacity: 2,
		Slots: []processing.SlotRecord{
			{Input: &processing.MaterialRecord{Kind: "coca_leaf", QualitySystem: "standard", Quality: "good", Amount: 3}, Progress: 4},
			{},
		},
		Resource: &processing.ResourceRecord{Kind: "diesel", Level: 40, Capacity: 100},
	}
}

func minigameSnapshot(id string) minigame.Snapshot {
	return minigame.Snapshot{
		Version:      minigame.SnapshotVersion,
		MinigameID:   id,
		RecipeID:     "crack.cooker",
		Phase:        "COOKING",
		Primary:      5,
		Secondary:    1,
		InputQuality: &processing.MaterialRecord{Kind: "cocaine", QualitySystem: "standard", Quality: "very_good", Amount: 5},
		CookTick:     12,
		Actor:        uuid.NewString(),
	}
}

// unitRepositories returns every unit repository implementation under test
func unitRepositories(t *testing.T) map[string]processing.SnapshotRepository {
	t.Helper()
	store, err := persistence.NewSQLiteSnapshotStore(filepath.Join(t.TempDir(), "units.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return map[string]processing.SnapshotRepository{
		"gorm":          persistence.NewGormUnitSnapshotRepository(helpers.NewTestDB(t), nil),
		"sqlite-native": store.Units(),
	}
}

func minigameRepositories(t *testing.T) map[string]minigame.SnapshotRepository {
	t.Helper()
	store, err := persistence.NewSQLiteSnapshotStore(filepath.Join(t.TempDir(), "games.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return map[string]minigame.SnapshotRepository{
		"gorm":          persistence.NewGormMinigameSnapshotRepository(helpers.NewTestDB(t), nil),
		"sqlite-native": store.Minigames(),
	}
}

func TestUnitSnapshotRepository_SaveAndFind(t *testing.T) {
	for name, repo := range unitRepositories(t) {
		t.Run(name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			id := uuid.NewString()
			snap := unitSnapshot(id)

			// Act
			require.NoError(t, repo.Save(ctx, snap))
			found, err := repo.FindByID(ctx, id)

			// Assert
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, snap, *found)
		})
	}
}

func TestUnitSnapshotRepository_SaveOverwrites(t *testing.T) {
	for name, repo := range unitRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := uuid.NewString()
			snap := unitSnapshot(id)
			require.NoError(t, repo.Save(ctx, snap))

			snap.Slots[0].Progress = 9
			snap.Resource.Level = 35
			require.NoError(t, repo.Save(ctx, snap))

			found, err := repo.FindByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, 9, found.Slots[0].Progress)
			assert.Equal(t, 35, found.Resource.Level)

			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestUnitSnapshotRepository_FindAllAndDelete(t *testing.T) {
	for name, repo := range unitRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first, second := "00000000-0000-0000-0000-000000000001", "00000000-0000-0000-0000-000000000002"
			require.NoError(t, repo.Save(ctx, unitSnapshot(second)))
			require.NoError(t, repo.Save(ctx, unitSnapshot(first)))

			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, first, all[0].UnitID)
			assert.Equal(t, second, all[1].UnitID)

			require.NoError(t, repo.Delete(ctx, first))
			require.NoError(t, repo.Delete(ctx, first))

			gone, err := repo.FindByID(ctx, first)
			require.NoError(t, err)
			assert.Nil(t, gone)
		})
	}
}

func TestUnitSnapshotRepository_NotFound(t *testing.T) {
	for name, repo := range unitRepositories(t) {
		t.Run(name, func(t *testing.T) {
			found, err := repo.FindByID(context.Background(), uuid.NewString())
			require.NoError(t, err)
			assert.Nil(t, found)
		})
	}
}

func TestMinigameSnapshotRepository_RoundTrip(t *testing.T) {
	for name, repo := range minigameRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := uuid.NewString()
			snap := minigameSnapshot(id)

			require.NoError(t, repo.Save(ctx, snap))
			found, err := repo.FindByID(ctx, id)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, snap, *found)

			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)

			require.NoError(t, repo.Delete(ctx, id))
			missing, err := repo.FindByID(ctx, id)
			require.NoError(t, err)
			assert.Nil(t, missing)
		})
	}
}

func TestGormUnitSnapshotRepository_StampsUpdatedAt(t *testing.T) {
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewGormUnitSnapshotRepository(db, clock)
	id := uuid.NewString()

	require.NoError(t, repo.Save(context.Background(), unitSnapshot(id)))

	var model persistence.UnitSnapshotModel
	require.NoError(t, db.Where("unit_id = ?", id).First(&model).Error)
	assert.True(t, clock.Now().Equal(model.UpdatedAt))
	assert.Equal(t, "coca.extraction", model.StageID)
	assert.Equal(t, processing.SnapshotVersion, model.Version)
}

func TestGormUnitSnapshotRepository_SkipsCorruptRows(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormUnitSnapshotRepository(db, nil)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, unitSnapshot(uuid.NewString())))
	require.NoError(t, db.Create(&persistence.UnitSnapshotModel{
		UnitID: "broken", StageID: "x", Version: 1, State: "{not json", UpdatedAt: time.Now(),
	}).Error)

	all, err := repo.FindAll(ctx)

	require.NoError(t, err)
	assert.Len(t, all, 1)
}

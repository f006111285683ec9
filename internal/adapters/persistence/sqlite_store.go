package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
)

// SQLiteSnapshotStore keeps snapshots in a pure-Go SQLite file in WAL mode.
// It needs no cgo and is selected with database type "sqlite-native".
type SQLiteSnapshotStore struct {
	db    *sql.DB
	clock shared.Clock
	retry retryConfig
}

// NewSQLiteSnapshotStore opens (or creates) the database and its schema
func NewSQLiteSnapshotStore(path string, clock shared.Clock) (*SQLiteSnapshotStore, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &SQLiteSnapshotStore{db: db, clock: clock, retry: defaultRetryConfig}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *SQLiteSnapshotStore) Close() error { return s.db.Close() }

// Units returns the unit snapshot repository backed by this store
func (s *SQLiteSnapshotStore) Units() processing.SnapshotRepository {
	return &sqliteUnitRepository{store: s}
}

// Minigames returns the minigame snapshot repository backed by this store
func (s *SQLiteSnapshotStore) Minigames() minigame.SnapshotRepository {
	return &sqliteMinigameRepository{store: s}
}

func (s *SQLiteSnapshotStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS unit_snapshots (
		unit_id    TEXT PRIMARY KEY,
		stage_id   TEXT NOT NULL,
		version    INTEGER NOT NULL,
		state      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_unit_snapshots_stage ON unit_snapshots(stage_id);

	CREATE TABLE IF NOT EXISTS minigame_snapshots (
		minigame_id TEXT PRIMARY KEY,
		recipe_id   TEXT NOT NULL,
		version     INTEGER NOT NULL,
		state       TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_minigame_snapshots_recipe ON minigame_snapshots(recipe_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteSnapshotStore) upsert(ctx context.Context, query string, args ...interface{}) error {
	return retryOp(ctx, s.retry, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func (s *SQLiteSnapshotStore) now() string {
	return s.clock.Now().UTC().Format(time.RFC3339Nano)
}

// ---------------------------------------------------------------------------
// Units
// ---------------------------------------------------------------------------

type sqliteUnitRepository struct {
	store *SQLiteSnapshotStore
}

func (r *sqliteUnitRepository) Save(ctx context.Context, snap processing.UnitSnapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal unit snapshot: %w", err)
	}
	err = r.store.upsert(ctx,
		`INSERT INTO unit_snapshots (unit_id, stage_id, version, state, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(unit_id) DO UPDATE SET
		   stage_id = excluded.stage_id,
		   version = excluded.version,
		   state = excluded.state,
		   updated_at = excluded.updated_at`,
		snap.UnitID, snap.StageID, snap.Version, string(state), r.store.now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save unit snapshot %s: %w", snap.UnitID, err)
	}
	return nil
}

func (r *sqliteUnitRepository) FindByID(ctx context.Context, unitID string) (*processing.UnitSnapshot, error) {
	var state string
	err := r.store.db.QueryRowContext(ctx, `SELECT state FROM unit_snapshots WHERE unit_id = ?`, unitID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find unit snapshot: %w", err)
	}
	var snap processing.UnitSnapshot
	if err := json.Unmarshal([]byte(state), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unit snapshot %s: %w", unitID, err)
	}
	return &snap, nil
}

func (r *sqliteUnitRepository) FindAll(ctx context.Context) ([]processing.UnitSnapshot, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT state FROM unit_snapshots ORDER BY unit_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unit snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []processing.UnitSnapshot
	for rows.Next() {
		var state string
		if err := rows.Scan(&state); err != nil {
			return nil, err
		}
		var snap processing.UnitSnapshot
		if err := json.Unmarshal([]byte(state), &snap); err != nil {
			continue // Skip corrupt rows
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (r *sqliteUnitRepository) Delete(ctx context.Context, unitID string) error {
	return r.store.upsert(ctx, `DELETE FROM unit_snapshots WHERE unit_id = ?`, unitID)
}

// ---------------------------------------------------------------------------
// Minigames
// ---------------------------------------------------------------------------

type sqliteMinigameRepository struct {
	store *SQLiteSnapshotStore
}

func (r *sqliteMinigameRepository) Save(ctx context.Context, snap minigame.Snapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal minigame snapshot: %w", err)
	}
	err = r.store.upsert(ctx,
		`INSERT INTO minigame_snapshots (minigame_id, recipe_id, version, state, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(minigame_id) DO UPDATE SET
		   recipe_id = excluded.recipe_id,
		   version = excluded.version,
		   state = excluded.state,
		   updated_at = excluded.updated_at`,
		snap.MinigameID, snap.RecipeID, snap.Version, string(state), r.store.now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save minigame snapshot %s: %w", snap.MinigameID, err)
	}
	return nil
}

func (r *sqliteMinigameRepository) FindByID(ctx context.Context, minigameID string) (*minigame.Snapshot, error) {
	var state string
	err := r.store.db.QueryRowContext(ctx, `SELECT state FROM minigame_snapshots WHERE minigame_id = ?`, minigameID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find minigame snapshot: %w", err)
	}
	var snap minigame.Snapshot
	if err := json.Unmarshal([]byte(state), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal minigame snapshot %s: %w", minigameID, err)
	}
	return &snap, nil
}

func (r *sqliteMinigameRepository) FindAll(ctx context.Context) ([]minigame.Snapshot, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT state FROM minigame_snapshots ORDER BY minigame_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list minigame snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []minigame.Snapshot
	for rows.Next() {
		var state string
		if err := rows.Scan(&state); err != nil {
			return nil, err
		}
		var snap minigame.Snapshot
		if err := json.Unmarshal([]byte(state), &snap); err != nil {
			continue // Skip corrupt rows
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (r *sqliteMinigameRepository) Delete(ctx context.Context, minigameID string) error {
	return r.store.upsert(ctx, `DELETE FROM minigame_snapshots WHERE minigame_id = ?`, minigameID)
}

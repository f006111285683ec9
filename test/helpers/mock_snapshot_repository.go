package helpers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// MockUnitSnapshotRepository is a test double for processing.SnapshotRepository
type MockUnitSnapshotRepository struct {
	mu      sync.RWMutex
	snaps   map[string]processing.UnitSnapshot
	saves   int
	SaveErr error
}

// NewMockUnitSnapshotRepository creates an empty repository
func NewMockUnitSnapshotRepository() *MockUnitSnapshotRepository {
	return &MockUnitSnapshotRepository{snaps: make(map[string]processing.UnitSnapshot)}
}

func (m *MockUnitSnapshotRepository) Save(ctx context.Context, snap processing.UnitSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.snaps[snap.UnitID] = snap
	m.saves++
	return nil
}

func (m *MockUnitSnapshotRepository) FindByID(ctx context.Context, unitID string) (*processing.UnitSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[unitID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *MockUnitSnapshotRepository) FindAll(ctx context.Context) ([]processing.UnitSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.snaps))
	for k := range m.snaps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]processing.UnitSnapshot, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.snaps[k])
	}
	return out, nil
}

func (m *MockUnitSnapshotRepository) Delete(ctx context.Context, unitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snaps[unitID]; !ok {
		return fmt.Errorf("unit snapshot not found: %s", unitID)
	}
	delete(m.snaps, unitID)
	return nil
}

// SaveCount returns how many successful saves happened
func (m *MockUnitSnapshotRepository) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Put stores a snapshot directly, bypassing SaveErr
func (m *MockUnitSnapshotRepository) Put(snap processing.UnitSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.UnitID] = snap
}

// MockMinigameSnapshotRepository is a test double for minigame.SnapshotRepository
type MockMinigameSnapshotRepository struct {
	mu    sync.RWMutex
	snaps map[string]minigame.Snapshot
	saves int
}

// NewMockMinigameSnapshotRepository creates an empty repository
func NewMockMinigameSnapshotRepository() *MockMinigameSnapshotRepository {
	return &MockMinigameSnapshotRepository{snaps: make(map[string]minigame.Snapshot)}
}

func (m *MockMinigameSnapshotRepository) Save(ctx context.Context, snap minigame.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.MinigameID] = snap
	m.saves++
	return nil
}

func (m *MockMinigameSnapshotRepository) FindByID(ctx context.Context, minigameID string) (*minigame.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[minigameID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *MockMinigameSnapshotRepository) FindAll(ctx context.Context) ([]minigame.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.snaps))
	for k := range m.snaps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]minigame.Snapshot, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.snaps[k])
	}
	return out, nil
}

func (m *MockMinigameSnapshotRepository) Delete(ctx context.Context, minigameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, minigameID)
	return nil
}

// SaveCount returns how many saves happened
func (m *MockMinigameSnapshotRepository) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

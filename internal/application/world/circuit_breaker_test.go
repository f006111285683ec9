package world_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
	"github.com/andrescamacho/slotworks-go/test/helpers"
)

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	clock := shared.NewMockClock(time.Time{})
	cb := world.NewCircuitBreaker(2, time.Minute, clock)
	boom := errors.New("boom")

	assert.Equal(t, boom, cb.Call(func() error { return boom }))
	assert.Equal(t, world.CircuitClosed, cb.State())
	assert.Equal(t, boom, cb.Call(func() error { return boom }))
	assert.Equal(t, world.CircuitOpen, cb.State())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	assert.ErrorIs(t, err, world.ErrStoreUnavailable)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	clock := shared.NewMockClock(time.Time{})
	cb := world.NewCircuitBreaker(1, time.Minute, clock)
	require.Error(t, cb.Call(func() error { return errors.New("down") }))

	// a failed probe reopens immediately
	clock.Advance(time.Minute)
	require.Error(t, cb.Call(func() error { return errors.New("still down") }))
	assert.Equal(t, world.CircuitOpen, cb.State())

	clock.Advance(time.Minute)
	require.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, world.CircuitClosed, cb.State())
	assert.Equal(t, 0, cb.FailureCount())
}

func TestPersistenceScheduler_OpenBreakerKeepsEntitiesDirty(t *testing.T) {
	// Arrange
	w := newWorld(t)
	id, err := w.PlaceUnit("tobacco.drying", uuid.Nil)
	require.NoError(t, err)
	units := helpers.NewMockUnitSnapshotRepository()
	units.SaveErr = errors.New("disk full")
	clock := shared.NewMockClock(time.Time{})
	scheduler := world.NewPersistenceScheduler(w, units, nil, 0, 1, &helpers.RecordingLogger{})
	scheduler.SetCircuitBreaker(world.NewCircuitBreaker(1, 30*time.Second, clock))

	// Act
	_, first := scheduler.Flush(context.Background())
	result, second := scheduler.Flush(context.Background())

	// Assert
	assert.Error(t, first)
	assert.ErrorIs(t, second, world.ErrStoreUnavailable)
	assert.Equal(t, 1, result.Deferred)
	assert.Equal(t, 0, units.SaveCount())
	assert.Equal(t, []uuid.UUID{id}, w.DirtyUnits())

	// store recovers after the cooldown
	units.SaveErr = nil
	clock.Advance(30 * time.Second)
	result, err = scheduler.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Units)
	assert.Equal(t, 1, units.SaveCount())
	assert.Empty(t, w.DirtyUnits())
}

func TestPersistenceScheduler_FlushAllIgnoresBreaker(t *testing.T) {
	w := newWorld(t)
	_, err := w.PlaceUnit("tobacco.drying", uuid.Nil)
	require.NoError(t, err)
	cb := world.NewCircuitBreaker(1, time.Hour, shared.NewMockClock(time.Time{}))
	require.Error(t, cb.Call(func() error { return errors.New("down") }))
	scheduler := world.NewPersistenceScheduler(w, helpers.NewMockUnitSnapshotRepository(), nil, 0, 1, nil)
	scheduler.SetCircuitBreaker(cb)

	result, err := scheduler.FlushAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Units)
}

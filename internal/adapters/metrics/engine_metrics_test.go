package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
	"github.com/andrescamacho/slotworks-go/test/helpers"
)

func newObservedWorld(t *testing.T) (*world.World, *EngineMetricsCollector) {
	t.Helper()
	collector := NewEngineMetricsCollector()
	w := world.NewWorld(helpers.NewTestCatalog(t), helpers.NewTestRecipeBook(t), nil,
		world.WithRandom(shared.NewSequenceRandom(0.99)),
		world.WithTickObserver(collector),
		world.WithChangeObserver(collector),
	)
	return w, collector
}

func TestEngineMetricsCollector_ObserveTick(t *testing.T) {
	// Arrange
	w, collector := newObservedWorld(t)
	id, err := w.PlaceUnit("tobacco.drying", uuid.Nil)
	require.NoError(t, err)
	leaf, err := w.ResolveMaterial("fresh_tobacco_leaf", "", "good", 2)
	require.NoError(t, err)
	require.NoError(t, w.WithUnit(id, func(u *processing.Unit) error {
		require.True(t, u.Insert(leaf))
		return nil
	}))

	// Act
	for i := 0; i < 10; i++ {
		w.Tick(context.Background())
	}

	// Assert
	assert.Equal(t, 10.0, testutil.ToFloat64(collector.ticksTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.batchesCompleted.WithLabelValues("tobacco.drying")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.changesTotal.WithLabelValues(string(processing.ChangeInserted))))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.changesTotal.WithLabelValues(string(processing.ChangeCompleted))))
}

func TestEngineMetricsCollector_ObserveFlush(t *testing.T) {
	collector := NewEngineMetricsCollector()

	collector.ObserveFlush(world.FlushResult{Units: 3, Minigames: 1}, time.Millisecond, nil)
	collector.ObserveFlush(world.FlushResult{Units: 1, Failed: 1}, time.Millisecond, errors.New("disk full"))

	assert.Equal(t, 4.0, testutil.ToFloat64(collector.flushedTotal.WithLabelValues("unit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.flushedTotal.WithLabelValues("minigame")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.flushErrorsTotal))
}

func TestEngineMetricsCollector_UpdateOccupancy(t *testing.T) {
	// Arrange
	w, collector := newObservedWorld(t)
	drying, err := w.PlaceUnit("tobacco.drying", uuid.Nil)
	require.NoError(t, err)
	extraction, err := w.PlaceUnit("coca.extraction", uuid.Nil)
	require.NoError(t, err)
	_, err = w.PlaceUnit("removed.stage", uuid.Nil)
	require.NoError(t, err)

	leaf, err := w.ResolveMaterial("fresh_tobacco_leaf", "", "", 1)
	require.NoError(t, err)
	require.NoError(t, w.WithUnit(drying, func(u *processing.Unit) error {
		u.Insert(leaf)
		return nil
	}))
	require.NoError(t, w.WithUnit(extraction, func(u *processing.Unit) error {
		u.Deposit(50)
		return nil
	}))
	collector.world = w

	// Act
	collector.updateOccupancy()

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.unitsTotal.WithLabelValues("tobacco.drying", "active")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.unitsTotal.WithLabelValues("removed.stage", "inert")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.slotsOccupied.WithLabelValues("tobacco.drying", "input")))
	assert.Equal(t, 0.5, testutil.ToFloat64(collector.resourceLevel.WithLabelValues("coca.extraction")))
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.dirtyBacklog))
}

func TestEngineMetricsCollector_StartStop(t *testing.T) {
	w, collector := newObservedWorld(t)

	collector.Start(context.Background(), w, time.Hour)
	collector.Stop()

	assert.Equal(t, 0.0, testutil.ToFloat64(collector.dirtyBacklog))
}

func TestRegister_NoopWithoutRegistry(t *testing.T) {
	Registry = nil
	assert.NoError(t, NewEngineMetricsCollector().Register())
	assert.False(t, IsEnabled())
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	InitRegistry()
	t.Cleanup(func() { Registry = nil })

	require.NoError(t, NewCommandMetricsCollector().Register())
	err := NewCommandMetricsCollector().Register()

	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}

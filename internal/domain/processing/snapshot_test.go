package processing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
)

func newResolver(t *testing.T, stages ...processing.StageDescriptor) *processing.Resolver {
	return processing.NewResolver(quality.DefaultRegistry(), mustCatalog(t, stages...))
}

func assertSameSlots(t *testing.T, want, got *processing.Unit, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		a, _ := want.Slot(i)
		b, _ := got.Slot(i)
		assert.Equal(t, a.State(), b.State(), "slot %d state", i)
		assert.Equal(t, a.Progress(), b.Progress(), "slot %d progress", i)
		inA, _ := a.Input()
		inB, _ := b.Input()
		outA, _ := a.Output()
		outB, _ := b.Output()
		assert.Equal(t, inA.Kind, inB.Kind)
		assert.Equal(t, inA.Amount, inB.Amount)
		assert.True(t, inA.Quality.Equal(inB.Quality), "slot %d input quality", i)
		assert.Equal(t, outA.Kind, outB.Kind)
		assert.Equal(t, outA.Amount, outB.Amount)
		assert.True(t, outA.Quality.Equal(outB.Quality), "slot %d output quality", i)
	}
}

func TestUnitSnapshot_RoundTripFullCapacity(t *testing.T) {
	// Arrange
	std := quality.Standard()
	stage := dieselStage()
	original, err := processing.NewUnit(stage, processing.WithRandom(shared.NewSequenceRandom(0.99)))
	require.NoError(t, err)
	original.Deposit(60)
	require.True(t, original.Insert(leaf(t, "coca_leaf", std.Max(), 3)))
	original.Tick()
	original.Tick()
	require.True(t, original.Insert(leaf(t, "coca_leaf", std.Min(), 2)))
	original.Tick()
	require.True(t, original.Insert(leaf(t, "coca_leaf", std.ByLevel(2), 1)))

	// Act
	snap := original.Save()
	restored, err := processing.NewUnit(stage)
	require.NoError(t, err)
	report, err := restored.Load(snap, newResolver(t, stage))

	// Assert
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, 3, report.SlotsLoaded)
	assertSameSlots(t, original, restored, 3)
	_, levelA, _, _ := original.Resource()
	_, levelB, _, _ := restored.Resource()
	assert.Equal(t, levelA, levelB)
	again := restored.Save()
	assert.Equal(t, snap.Slots, again.Slots)
	assert.Equal(t, snap.Resource, again.Resource)
}

func TestUnitSnapshot_RoundTripWithReadySlot(t *testing.T) {
	stage := dryingStage()
	original, err := processing.NewUnit(stage, processing.WithRandom(shared.NewSequenceRandom(0.99)))
	require.NoError(t, err)
	require.True(t, original.Insert(leaf(t, "fresh_leaf", quality.Standard().Min(), 6)))
	for i := 0; i < 10; i++ {
		original.Tick()
	}

	restored, err := processing.NewUnit(stage)
	require.NoError(t, err)
	_, err = restored.Load(original.Save(), newResolver(t, stage))

	require.NoError(t, err)
	assertSameSlots(t, original, restored, 3)
	out, ok := restored.ExtractAll()
	assert.True(t, ok)
	assert.Equal(t, 6, out.Amount)
}

func TestUnitSnapshot_RoundTripEmpty(t *testing.T) {
	stage := dieselStage()
	original, err := processing.NewUnit(stage)
	require.NoError(t, err)

	restored, err := processing.NewUnit(stage)
	require.NoError(t, err)
	restored.Deposit(40)
	_, err = restored.Load(original.Save(), newResolver(t, stage))

	require.NoError(t, err)
	assert.Equal(t, 3, restored.Summary().FreeSlots)
	_, level, _, _ := restored.Resource()
	assert.Equal(t, 0, level)
}

func TestUnitSnapshot_SmallerPersistedCapacity(t *testing.T) {
	// Arrange: saved by a two-slot version of the stage
	small := dryingStage()
	small.Capacity = 2
	original, err := processing.NewUnit(small)
	require.NoError(t, err)
	require.True(t, original.Insert(leaf(t, "fresh_leaf", quality.Standard().Min(), 1)))
	require.True(t, original.Insert(leaf(t, "fresh_leaf", quality.Standard().Max(), 2)))
	original.Tick()

	large := dryingStage()
	large.Capacity = 6
	restored, err := processing.NewUnit(large)
	require.NoError(t, err)

	// Act
	report, err := restored.Load(original.Save(), newResolver(t, large))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, report.SlotsLoaded)
	assert.Equal(t, 0, report.SlotsDropped)
	assertSameSlots(t, original, restored, 2)
	assert.Equal(t, 4, restored.Summary().FreeSlots)
}

func TestUnitSnapshot_LargerPersistedCapacityDropsOverflow(t *testing.T) {
	large := dryingStage()
	large.Capacity = 4
	original, err := processing.NewUnit(large)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.True(t, original.Insert(leaf(t, "fresh_leaf", quality.Standard().Min(), i+1)))
	}

	small := dryingStage()
	small.Capacity = 2
	restored, err := processing.NewUnit(small)
	require.NoError(t, err)
	report, err := restored.Load(original.Save(), newResolver(t, small))

	require.NoError(t, err)
	assert.Equal(t, 2, report.SlotsLoaded)
	assert.Equal(t, 2, report.SlotsDropped)
	assertSameSlots(t, original, restored, 2)
}

func TestUnitSnapshot_UnknownNamesAreSkipped(t *testing.T) {
	// Arrange
	stage := dryingStage()
	u, err := processing.NewUnit(stage)
	require.NoError(t, err)
	snap := processing.UnitSnapshot{
		Version: 1,
		Slots: []processing.SlotRecord{
			{Input: &processing.MaterialRecord{Kind: "removed_item", Amount: 1}, Progress: 4},
			{Input: &processing.MaterialRecord{Kind: "fresh_leaf", QualitySystem: "standard", Quality: "mythic", Amount: 2}, Progress: 3},
		},
	}

	// Act
	report, err := u.Load(snap, newResolver(t, stage))

	// Assert
	require.NoError(t, err)
	assert.Len(t, report.Skipped, 2)
	s0, _ := u.Slot(0)
	assert.True(t, s0.IsFree())
	s1, _ := u.Slot(1)
	in, ok := s1.Input()
	require.True(t, ok)
	assert.True(t, in.Quality.IsZero())
	assert.Equal(t, 3, s1.Progress())
}

func TestUnitSnapshot_RejectsNewerVersion(t *testing.T) {
	u, err := processing.NewUnit(dryingStage())
	require.NoError(t, err)

	_, err = u.Load(processing.UnitSnapshot{Version: processing.SnapshotVersion + 1}, newResolver(t, dryingStage()))

	var versionErr *processing.ErrUnsupportedSnapshotVersion
	assert.ErrorAs(t, err, &versionErr)
}

func TestUnitSnapshot_ResourceClampedToCurrentCapacity(t *testing.T) {
	stage := dieselStage()
	u, err := processing.NewUnit(stage)
	require.NoError(t, err)

	_, err = u.Load(processing.UnitSnapshot{
		Version:  1,
		Resource: &processing.ResourceRecord{Kind: "diesel", Level: 5000, Capacity: 10000},
	}, newResolver(t, stage))

	require.NoError(t, err)
	_, level, capacity, _ := u.Resource()
	assert.Equal(t, capacity, level)
}

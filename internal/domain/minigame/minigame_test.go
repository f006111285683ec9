package minigame_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
)

func cookRecipe() minigame.Recipe {
	return minigame.Recipe{
		ID:            "crack.cooker",
		Name:          "Crack Cooker",
		PrimaryKind:   "cocaine",
		SecondaryKind: "baking_soda",
		OutputKind:    "crack",
		QualitySystem: "standard",
		MinPrimary:    1,
		MaxPrimary:    10,
		MinSecondary:  1,
		MaxSecondary:  5,
		Yield:         minigame.DefaultYield,
		Profile:       minigame.CookProfile(),
	}
}

func material(kind processing.Kind, tier quality.Tier, amount int) processing.Material {
	return processing.Material{Kind: kind, Quality: tier, Amount: amount}
}

// loadedGame returns a station with primary and one secondary loaded
func loadedGame(t *testing.T, primary int, tier quality.Tier) *minigame.Minigame {
	t.Helper()
	m, err := minigame.NewMinigame(cookRecipe(), quality.Standard())
	require.NoError(t, err)
	_, err = m.AddPrimary(material("cocaine", tier, primary))
	require.NoError(t, err)
	_, err = m.AddSecondary(material("baking_soda", quality.Tier{}, 1))
	require.NoError(t, err)
	return m
}

func cookTo(t *testing.T, m *minigame.Minigame, tick int) {
	t.Helper()
	require.NoError(t, m.Start(uuid.New()))
	for i := 0; i < tick; i++ {
		m.Tick()
	}
}

func TestCookProfile_Scores(t *testing.T) {
	p := minigame.CookProfile()
	std := quality.Standard()

	tests := []struct {
		tick  int
		zone  minigame.Zone
		score float64
		tier  string
	}{
		{40, minigame.ZonePerfect, 1.0, "legendary"},
		{35, minigame.ZonePerfect, 0.975, "legendary"},
		{30, minigame.ZoneGood, 0.75, "very_good"},
		{0, minigame.ZoneEarly, 0.2, "poor"},
		{14, minigame.ZoneEarly, 0.35, "poor"},
		{80, minigame.ZoneLate, 0.5 - (28.0/30.0)*0.4, "poor"},
		{200, minigame.ZoneLate, 0.1, "poor"},
	}

	for _, tt := range tests {
		score := p.Score(tt.tick)
		assert.Equal(t, tt.zone, p.Zone(tt.tick), "tick %d", tt.tick)
		assert.InDelta(t, tt.score, score, 1e-9, "tick %d", tt.tick)
		assert.Equal(t, tt.tier, p.TierFor(score, std).Name(), "tick %d", tt.tick)
	}
}

func TestTimingProfile_ScoreStaysInUnitRange(t *testing.T) {
	for _, p := range []minigame.TimingProfile{minigame.CookProfile(), minigame.PressProfile()} {
		for tick := -5; tick <= 2*p.CycleTicks; tick++ {
			s := p.Score(tick)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestTimingProfile_Validate(t *testing.T) {
	p := minigame.CookProfile()
	p.PerfectStart = 20

	var profileErr *minigame.ErrInvalidProfile
	assert.ErrorAs(t, p.Validate(), &profileErr)

	p = minigame.CookProfile()
	p.Thresholds = []float64{0.7, 0.5, 0.9}
	assert.Error(t, p.Validate())
}

func TestNewMinigame_ThresholdsMustFitSystem(t *testing.T) {
	_, err := minigame.NewMinigame(cookRecipe(), quality.FiveTier())
	assert.Error(t, err)
}

func TestMinigame_RemoveAtPerfectCenter(t *testing.T) {
	// Arrange
	m := loadedGame(t, 5, quality.Standard().Default())
	cookTo(t, m, 40)

	// Act
	res, err := m.Remove()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, minigame.ZonePerfect, res.Zone)
	assert.InDelta(t, 1.0, res.Score, 1e-9)
	assert.True(t, res.Tier.IsMax())
	assert.False(t, res.TimedOut)
	assert.Equal(t, 4, res.Output.Amount)
	assert.Equal(t, minigame.PhaseResolved, m.Phase())
	assert.Equal(t, 0, m.Primary())
	assert.Equal(t, 0, m.Secondary())
}

func TestMinigame_RemoveImmediately(t *testing.T) {
	m := loadedGame(t, 5, quality.Standard().Default())
	cookTo(t, m, 0)

	res, err := m.Remove()

	require.NoError(t, err)
	assert.InDelta(t, 0.2, res.Score, 1e-9)
	assert.True(t, res.Tier.IsMin())
}

func TestMinigame_AutoResolvesAtCycleEnd(t *testing.T) {
	m := loadedGame(t, 5, quality.Standard().Default())
	require.NoError(t, m.Start(uuid.New()))

	var res *minigame.Resolution
	for i := 0; i < 80; i++ {
		r := m.Tick()
		if r.Resolution != nil {
			res = r.Resolution
		}
	}

	require.NotNil(t, res)
	assert.True(t, res.TimedOut)
	assert.Equal(t, 80, res.Tick)
	assert.InDelta(t, 0.1267, res.Score, 1e-3)
	assert.Equal(t, minigame.PhaseResolved, m.Phase())

	// further ticks are no-ops
	assert.False(t, m.Tick().Advanced)
}

func TestMinigame_BonusForTopInputQuality(t *testing.T) {
	std := quality.Standard()

	low := loadedGame(t, 5, std.Max())
	cookTo(t, low, 0)
	res, err := low.Remove()
	require.NoError(t, err)
	assert.True(t, res.Bonus)
	assert.Equal(t, "good", res.Tier.Name())

	// no bonus when the computed tier is already in the top two
	high := loadedGame(t, 5, std.Max())
	cookTo(t, high, 30)
	res, err = high.Remove()
	require.NoError(t, err)
	assert.False(t, res.Bonus)
	assert.Equal(t, "very_good", res.Tier.Name())
}

func TestMinigame_YieldHasFloorOfOne(t *testing.T) {
	m := loadedGame(t, 1, quality.Standard().Default())
	cookTo(t, m, 40)

	res, err := m.Remove()

	require.NoError(t, err)
	assert.Equal(t, 1, res.Output.Amount)
}

func TestMinigame_PhaseGuards(t *testing.T) {
	m, err := minigame.NewMinigame(cookRecipe(), quality.Standard())
	require.NoError(t, err)
	var phaseErr *minigame.ErrInvalidPhase

	assert.ErrorAs(t, m.Start(uuid.New()), &phaseErr)
	_, err = m.Remove()
	assert.ErrorAs(t, err, &phaseErr)
	assert.ErrorAs(t, m.Cancel(), &phaseErr)
	_, ok := m.Extract()
	assert.False(t, ok)

	_, err = m.AddPrimary(material("baking_soda", quality.Tier{}, 1))
	var rejected *minigame.ErrIngredientRejected
	assert.ErrorAs(t, err, &rejected)

	m = loadedGame(t, 5, quality.Standard().Default())
	cookTo(t, m, 3)
	_, err = m.AddPrimary(material("cocaine", quality.Standard().Min(), 1))
	assert.ErrorAs(t, err, &phaseErr)
}

func TestMinigame_StartRequiresThresholds(t *testing.T) {
	m, err := minigame.NewMinigame(cookRecipe(), quality.Standard())
	require.NoError(t, err)
	_, err = m.AddPrimary(material("cocaine", quality.Standard().Min(), 3))
	require.NoError(t, err)

	err = m.Start(uuid.New())

	var thresholdErr *minigame.ErrThresholdNotMet
	require.ErrorAs(t, err, &thresholdErr)
	assert.Equal(t, 0, thresholdErr.Secondary)
	assert.Equal(t, minigame.PhaseLoaded, m.Phase())
}

func TestMinigame_AddClampsToRecipeMaximum(t *testing.T) {
	m, err := minigame.NewMinigame(cookRecipe(), quality.Standard())
	require.NoError(t, err)

	accepted, err := m.AddPrimary(material("cocaine", quality.Standard().Min(), 7))
	require.NoError(t, err)
	assert.Equal(t, 7, accepted)

	accepted, err = m.AddPrimary(material("cocaine", quality.Standard().Max(), 7))
	require.NoError(t, err)
	assert.Equal(t, 3, accepted)
	assert.Equal(t, 10, m.Primary())
	assert.True(t, m.InputQuality().IsMax())

	_, err = m.AddPrimary(material("cocaine", quality.Standard().Max(), 1))
	assert.Error(t, err)
}

func TestMinigame_ExtractReturnsToIdleWithLeftoverSecondary(t *testing.T) {
	m := loadedGame(t, 5, quality.Standard().Default())
	_, err := m.AddSecondary(material("baking_soda", quality.Tier{}, 2))
	require.NoError(t, err)
	cookTo(t, m, 40)
	_, err = m.Remove()
	require.NoError(t, err)

	out, ok := m.Extract()

	require.True(t, ok)
	assert.Equal(t, processing.Kind("crack"), out.Kind)
	assert.Equal(t, minigame.PhaseIdle, m.Phase())
	assert.Equal(t, 2, m.Secondary())
	_, pending := m.Output()
	assert.False(t, pending)
}

func TestMinigame_CancelLosesIngredients(t *testing.T) {
	m := loadedGame(t, 5, quality.Standard().Max())
	cookTo(t, m, 12)

	require.NoError(t, m.Cancel())

	assert.Equal(t, minigame.PhaseIdle, m.Phase())
	assert.Equal(t, 0, m.Primary())
	assert.Equal(t, 0, m.Secondary())
	assert.True(t, m.InputQuality().IsZero())
	assert.Equal(t, uuid.Nil, m.Actor())
}

func TestMinigame_SnapshotRoundTrip(t *testing.T) {
	// Arrange
	book, err := minigame.NewRecipeBook([]minigame.Recipe{cookRecipe()})
	require.NoError(t, err)
	resolver := processing.NewResolver(quality.DefaultRegistry(), book)

	original := loadedGame(t, 6, quality.Standard().Max())
	actor := uuid.New()
	require.NoError(t, original.Start(actor))
	for i := 0; i < 17; i++ {
		original.Tick()
	}

	// Act
	restored, err := minigame.NewMinigame(cookRecipe(), quality.Standard())
	require.NoError(t, err)
	report, err := restored.Load(original.Save(), resolver)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, minigame.PhaseCooking, restored.Phase())
	assert.Equal(t, 17, restored.CookTick())
	assert.Equal(t, 6, restored.Primary())
	assert.Equal(t, actor, restored.Actor())
	assert.True(t, restored.InputQuality().IsMax())
}

func TestMinigame_SnapshotKeepsUnsetInputQuality(t *testing.T) {
	// Arrange: a fresh station and one whose cook was cancelled
	book, err := minigame.NewRecipeBook([]minigame.Recipe{cookRecipe()})
	require.NoError(t, err)
	resolver := processing.NewResolver(quality.DefaultRegistry(), book)

	fresh, err := minigame.NewMinigame(cookRecipe(), quality.Standard())
	require.NoError(t, err)
	cancelled := loadedGame(t, 5, quality.Standard().Max())
	require.NoError(t, cancelled.Start(uuid.New()))
	require.NoError(t, cancelled.Cancel())

	for name, original := range map[string]*minigame.Minigame{"fresh": fresh, "cancelled": cancelled} {
		// Act
		restored, err := minigame.NewMinigame(cookRecipe(), quality.Standard())
		require.NoError(t, err)
		_, err = restored.Load(original.Save(), resolver)

		// Assert
		require.NoError(t, err, name)
		assert.True(t, restored.InputQuality().IsZero(), name)
		want, got := original.Save(), restored.Save()
		got.MinigameID = want.MinigameID
		assert.Equal(t, want, got, name)
	}
}

func TestMinigame_SnapshotWithPendingOutput(t *testing.T) {
	book, err := minigame.NewRecipeBook([]minigame.Recipe{cookRecipe()})
	require.NoError(t, err)
	resolver := processing.NewResolver(quality.DefaultRegistry(), book)

	original := loadedGame(t, 5, quality.Standard().Default())
	cookTo(t, original, 40)
	_, err = original.Remove()
	require.NoError(t, err)

	snap := original.Save()
	snap.Phase = "IDLE"
	restored, err := minigame.NewMinigame(cookRecipe(), quality.Standard())
	require.NoError(t, err)
	_, err = restored.Load(snap, resolver)

	require.NoError(t, err)
	assert.Equal(t, minigame.PhaseResolved, restored.Phase())
	out, ok := restored.Extract()
	require.True(t, ok)
	assert.Equal(t, 4, out.Amount)
	assert.True(t, out.Quality.IsMax())
}

func TestMinigame_SnapshotRejectsNewerVersion(t *testing.T) {
	m, err := minigame.NewMinigame(cookRecipe(), quality.Standard())
	require.NoError(t, err)

	_, err = m.Load(minigame.Snapshot{Version: minigame.SnapshotVersion + 1}, processing.NewResolver(nil))

	var versionErr *processing.ErrUnsupportedSnapshotVersion
	assert.ErrorAs(t, err, &versionErr)
}

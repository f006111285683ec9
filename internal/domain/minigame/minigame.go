package minigame

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
)

// Resolution is the outcome of one cooking cycle
type Resolution struct {
	Tick     int
	Score    float64
	Zone     Zone
	Tier     quality.Tier
	Bonus    bool
	TimedOut bool
	Output   processing.Material
}

// TickResult summarizes one Tick call
type TickResult struct {
	Advanced   bool
	Resolution *Resolution
}

// Option configures a Minigame
type Option func(*Minigame)

// WithID sets the minigame identity
func WithID(id uuid.UUID) Option {
	return func(m *Minigame) { m.id = id }
}

// WithSink sets the change sink
func WithSink(s processing.ChangeSink) Option {
	return func(m *Minigame) { m.sink = s }
}

// Minigame is a single-batch station whose product quality comes from the
// moment a player ends the cycle instead of from a timer.
//
//	Idle -> Loaded -> Cooking -> Resolved -> Idle
//
// Cancel moves Cooking back to Idle and loses the ingredients.
type Minigame struct {
	id     uuid.UUID
	recipe Recipe
	system *quality.System
	sink   processing.ChangeSink

	phase        Phase
	primary      int
	secondary    int
	inputQuality quality.Tier
	cookTick     int
	actor        uuid.UUID
	lastScore    float64
	output       processing.Material
}

// NewMinigame creates an idle station for a recipe
func NewMinigame(recipe Recipe, system *quality.System, opts ...Option) (*Minigame, error) {
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	if system == nil {
		return nil, fmt.Errorf("recipe %s: quality system is required", recipe.ID)
	}
	if len(recipe.Profile.Thresholds) != system.Len()-1 {
		return nil, fmt.Errorf("recipe %s: %d thresholds do not fit %d tiers of %s",
			recipe.ID, len(recipe.Profile.Thresholds), system.Len(), system.Name())
	}

	m := &Minigame{
		id:     uuid.New(),
		recipe: recipe,
		system: system,
		phase:  PhaseIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.sink == nil {
		m.sink = processing.NopSink{}
	}
	return m, nil
}

// Getters

func (m *Minigame) ID() uuid.UUID {
	return m.id
}

func (m *Minigame) Recipe() Recipe {
	return m.recipe
}

func (m *Minigame) Phase() Phase {
	return m.phase
}

func (m *Minigame) Primary() int {
	return m.primary
}

func (m *Minigame) Secondary() int {
	return m.secondary
}

// InputQuality is the tier carried over from the primary ingredient
func (m *Minigame) InputQuality() quality.Tier {
	return m.inputQuality
}

func (m *Minigame) CookTick() int {
	return m.cookTick
}

// Actor is the party that started the current cycle
func (m *Minigame) Actor() uuid.UUID {
	return m.actor
}

func (m *Minigame) LastScore() float64 {
	return m.lastScore
}

// Output returns the pending product, if any
func (m *Minigame) Output() (processing.Material, bool) {
	return m.output, !m.output.IsZero()
}

// CurrentZone classifies the current cook tick
func (m *Minigame) CurrentZone() Zone {
	return m.recipe.Profile.Zone(m.cookTick)
}

// Progress returns the cook tick as a fraction of the cycle
func (m *Minigame) Progress() float64 {
	if m.phase != PhaseCooking {
		return 0
	}
	return float64(m.cookTick) / float64(m.recipe.Profile.CycleTicks)
}

func (m *Minigame) acceptsIngredients() bool {
	return m.phase == PhaseIdle || m.phase == PhaseLoaded
}

// AddPrimary loads primary ingredient up to the recipe maximum and returns
// the accepted amount. The supplied tier becomes the carried-over quality.
func (m *Minigame) AddPrimary(mat processing.Material) (int, error) {
	if !m.acceptsIngredients() {
		return 0, &ErrInvalidPhase{Operation: "add primary ingredient", Phase: m.phase}
	}
	if mat.IsZero() || mat.Kind != m.recipe.PrimaryKind {
		return 0, &ErrIngredientRejected{Kind: mat.Kind, Reason: fmt.Sprintf("expected %s", m.recipe.PrimaryKind)}
	}
	if m.primary >= m.recipe.MaxPrimary {
		return 0, &ErrIngredientRejected{Kind: mat.Kind, Reason: "primary ingredient is full"}
	}

	accepted := mat.Amount
	if room := m.recipe.MaxPrimary - m.primary; accepted > room {
		accepted = room
	}
	m.primary += accepted
	if mat.Quality.IsZero() {
		m.inputQuality = m.system.Default()
	} else {
		m.inputQuality = mat.Quality
	}
	m.phase = PhaseLoaded
	m.sink.Changed(m.id, processing.ChangeInserted)
	return accepted, nil
}

// AddSecondary loads secondary ingredient up to the recipe maximum
func (m *Minigame) AddSecondary(mat processing.Material) (int, error) {
	if !m.acceptsIngredients() {
		return 0, &ErrInvalidPhase{Operation: "add secondary ingredient", Phase: m.phase}
	}
	if mat.IsZero() || mat.Kind != m.recipe.SecondaryKind {
		return 0, &ErrIngredientRejected{Kind: mat.Kind, Reason: fmt.Sprintf("expected %s", m.recipe.SecondaryKind)}
	}
	if m.secondary >= m.recipe.MaxSecondary {
		return 0, &ErrIngredientRejected{Kind: mat.Kind, Reason: "secondary ingredient is full"}
	}

	accepted := mat.Amount
	if room := m.recipe.MaxSecondary - m.secondary; accepted > room {
		accepted = room
	}
	m.secondary += accepted
	m.phase = PhaseLoaded
	m.sink.Changed(m.id, processing.ChangeInserted)
	return accepted, nil
}

// Start begins cooking on behalf of actor
func (m *Minigame) Start(actor uuid.UUID) error {
	if m.phase != PhaseLoaded {
		return &ErrInvalidPhase{Operation: "start", Phase: m.phase}
	}
	if m.primary < m.recipe.MinPrimary || m.secondary < m.recipe.MinSecondary {
		return &ErrThresholdNotMet{
			Primary:      m.primary,
			MinPrimary:   m.recipe.MinPrimary,
			Secondary:    m.secondary,
			MinSecondary: m.recipe.MinSecondary,
		}
	}

	m.actor = actor
	m.cookTick = 0
	m.lastScore = 0
	m.phase = PhaseCooking
	m.sink.Changed(m.id, processing.ChangeProgressed)
	return nil
}

// Tick advances the cook tick and resolves automatically at the end of the cycle
func (m *Minigame) Tick() TickResult {
	if m.phase != PhaseCooking {
		return TickResult{}
	}
	m.cookTick++
	if m.cookTick >= m.recipe.Profile.CycleTicks {
		res := m.resolve(true)
		return TickResult{Advanced: true, Resolution: &res}
	}
	return TickResult{Advanced: true}
}

// Remove ends the cycle at the current tick
func (m *Minigame) Remove() (Resolution, error) {
	if m.phase != PhaseCooking {
		return Resolution{}, &ErrInvalidPhase{Operation: "remove", Phase: m.phase}
	}
	return m.resolve(false), nil
}

func (m *Minigame) resolve(timedOut bool) Resolution {
	profile := m.recipe.Profile
	score := profile.Score(m.cookTick)
	tier := profile.TierFor(score, m.system)

	bonus := false
	if m.inputQuality.IsMax() && tier.Level() < m.system.Len()-2 {
		tier = tier.Upgrade()
		bonus = true
	}

	amount := int(math.Floor(float64(m.primary)*m.recipe.Yield + 1e-9))
	if amount < 1 {
		amount = 1
	}
	out := processing.Material{Kind: m.recipe.OutputKind, Quality: tier, Amount: amount}

	m.primary = 0
	if m.secondary > 0 {
		m.secondary--
	}
	m.output = out
	m.lastScore = score
	m.actor = uuid.Nil
	m.phase = PhaseResolved
	m.sink.Changed(m.id, processing.ChangeResolved)

	return Resolution{
		Tick:     m.cookTick,
		Score:    score,
		Zone:     profile.Zone(m.cookTick),
		Tier:     tier,
		Bonus:    bonus,
		TimedOut: timedOut,
		Output:   out,
	}
}

// Extract hands out the product and returns to Idle
func (m *Minigame) Extract() (processing.Material, bool) {
	if m.phase != PhaseResolved {
		return processing.Material{}, false
	}
	out := m.output
	m.output = processing.Material{}
	m.phase = PhaseIdle
	m.sink.Changed(m.id, processing.ChangeExtracted)
	return out, true
}

// Cancel aborts cooking. Supplied ingredients are lost.
func (m *Minigame) Cancel() error {
	if m.phase != PhaseCooking {
		return &ErrInvalidPhase{Operation: "cancel", Phase: m.phase}
	}
	m.primary = 0
	m.secondary = 0
	m.inputQuality = quality.Tier{}
	m.cookTick = 0
	m.actor = uuid.Nil
	m.phase = PhaseIdle
	m.sink.Changed(m.id, processing.ChangeCancelled)
	return nil
}

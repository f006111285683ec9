package world

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/application/logging"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
)

// UnitSettings are the engine-wide options applied to every placed unit
type UnitSettings struct {
	UpgradeChance  float64
	TickDivisor    int
	ConsumeEvery   int
	ReportInterval int
}

// DefaultUnitSettings mirrors the processing package defaults
func DefaultUnitSettings() UnitSettings {
	return UnitSettings{
		UpgradeChance:  quality.DefaultUpgradeChance,
		TickDivisor:    1,
		ConsumeEvery:   processing.DefaultConsumeEvery,
		ReportInterval: processing.DefaultReportInterval,
	}
}

// MinigameResolution pairs a resolution with the station that produced it
type MinigameResolution struct {
	MinigameID uuid.UUID
	RecipeID   string
	minigame.Resolution
}

// TickReport aggregates one world tick
type TickReport struct {
	Tick       int64
	Units      int
	InertUnits int
	Advanced   int
	Completed  int
	Paused     int
	Consumed   int

	CompletedByStage   map[processing.StageID]int
	ConsumedByResource map[processing.ResourceKind]int
	Resolutions        []MinigameResolution
}

// TickObserver is notified after every world tick
type TickObserver interface {
	ObserveTick(report TickReport, elapsed time.Duration)
}

// Option configures a World
type Option func(*World)

// WithRandom sets the random source shared by every unit
func WithRandom(r shared.RandomSource) Option {
	return func(w *World) { w.random = r }
}

// WithLogger sets the logger handed to units and used for restore reports
func WithLogger(l logging.ContainerLogger) Option {
	return func(w *World) { w.logger = l }
}

// WithChangeObserver forwards every change notification after dirty tracking
func WithChangeObserver(s processing.ChangeSink) Option {
	return func(w *World) { w.observer = s }
}

// WithTickObserver registers a tick observer
func WithTickObserver(o TickObserver) Option {
	return func(w *World) { w.tickObservers = append(w.tickObservers, o) }
}

// WithUnitSettings overrides the default unit settings
func WithUnitSettings(s UnitSettings) Option {
	return func(w *World) { w.settings = s }
}

// WithStartTick sets the initial world tick
func WithStartTick(tick int64) Option {
	return func(w *World) { w.ticks = shared.NewWorldTicks(tick) }
}

// World owns every unit and minigame of one simulation together with the
// content they are built from. All methods are safe for concurrent use.
type World struct {
	mu sync.Mutex

	catalog  *processing.Catalog
	recipes  *minigame.RecipeBook
	registry *quality.Registry
	resolver *processing.Resolver

	random        shared.RandomSource
	logger        logging.ContainerLogger
	observer      processing.ChangeSink
	tickObservers []TickObserver
	settings      UnitSettings
	ticks         *shared.WorldTicks
	dirty         *DirtyTracker

	units        map[uuid.UUID]*processing.Unit
	unitOrder    []uuid.UUID
	minigames    map[uuid.UUID]*minigame.Minigame
	minigameIDs  []uuid.UUID
	pendingLoads map[uuid.UUID]processing.UnitSnapshot
}

// NewWorld creates an empty world. recipes may be nil.
func NewWorld(catalog *processing.Catalog, recipes *minigame.RecipeBook, registry *quality.Registry, opts ...Option) *World {
	w := &World{
		catalog:      catalog,
		recipes:      recipes,
		registry:     registry,
		settings:     DefaultUnitSettings(),
		units:        make(map[uuid.UUID]*processing.Unit),
		minigames:    make(map[uuid.UUID]*minigame.Minigame),
		pendingLoads: make(map[uuid.UUID]processing.UnitSnapshot),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.registry == nil {
		w.registry = quality.DefaultRegistry()
	}
	if w.random == nil {
		w.random = shared.NewSeededRandom(0)
	}
	if w.logger == nil {
		w.logger = logging.LoggerFromContext(context.Background())
	}
	if w.ticks == nil {
		w.ticks = shared.NewWorldTicks(0)
	}
	w.dirty = NewDirtyTracker(w.observer)
	w.resolver = w.buildResolver()
	return w
}

func (w *World) buildResolver() *processing.Resolver {
	var kinds []processing.KindSet
	if w.catalog != nil {
		kinds = append(kinds, w.catalog)
	}
	if w.recipes != nil {
		kinds = append(kinds, w.recipes)
	}
	return processing.NewResolver(w.registry, kinds...)
}

func (w *World) Catalog() *processing.Catalog {
	return w.catalog
}

func (w *World) Recipes() *minigame.RecipeBook {
	return w.recipes
}

func (w *World) Registry() *quality.Registry {
	return w.registry
}

// Resolver resolves persisted names against the world's content
func (w *World) Resolver() *processing.Resolver {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resolver
}

func (w *World) Settings() UnitSettings {
	return w.settings
}

// CurrentTick returns the number of world ticks run so far
func (w *World) CurrentTick() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ticks.CurrentTick()
}

func (w *World) unitOptions(id uuid.UUID) []processing.Option {
	return []processing.Option{
		processing.WithID(id),
		processing.WithRandom(w.random),
		processing.WithSink(w.dirty),
		processing.WithLogger(w.logger),
		processing.WithQualitySystems(w.registry),
		processing.WithUpgradeChance(w.settings.UpgradeChance),
		processing.WithTickDivisor(w.settings.TickDivisor),
		processing.WithConsumeEvery(w.settings.ConsumeEvery),
		processing.WithReportInterval(w.settings.ReportInterval),
	}
}

// PlaceUnit creates a unit for a catalog stage. A stage missing from the
// catalog yields an inert unit, not an error. A nil id generates one.
func (w *World) PlaceUnit(stageID processing.StageID, id uuid.UUID) (uuid.UUID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if id == uuid.Nil {
		id = uuid.New()
	}
	if w.idInUse(id) {
		return uuid.Nil, &ErrDuplicateID{ID: id}
	}

	u := processing.NewCatalogUnit(w.catalog, stageID, w.unitOptions(id)...)
	w.units[id] = u
	w.unitOrder = append(w.unitOrder, id)
	w.dirty.Mark(id)
	return id, nil
}

// PlaceMinigame creates an idle station for a recipe
func (w *World) PlaceMinigame(recipeID string, id uuid.UUID) (uuid.UUID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if id == uuid.Nil {
		id = uuid.New()
	}
	if w.idInUse(id) {
		return uuid.Nil, &ErrDuplicateID{ID: id}
	}

	m, err := w.newMinigame(recipeID, id)
	if err != nil {
		return uuid.Nil, err
	}
	w.minigames[id] = m
	w.minigameIDs = append(w.minigameIDs, id)
	w.dirty.Mark(id)
	return id, nil
}

func (w *World) newMinigame(recipeID string, id uuid.UUID) (*minigame.Minigame, error) {
	if w.recipes == nil {
		return nil, &ErrUnknownRecipe{RecipeID: recipeID}
	}
	recipe, ok := w.recipes.Lookup(recipeID)
	if !ok {
		return nil, &ErrUnknownRecipe{RecipeID: recipeID}
	}
	system, ok := w.registry.System(recipe.QualitySystem)
	if !ok {
		return nil, fmt.Errorf("recipe %s: unknown quality system %s", recipeID, recipe.QualitySystem)
	}
	return minigame.NewMinigame(recipe, system, minigame.WithID(id), minigame.WithSink(w.dirty))
}

func (w *World) idInUse(id uuid.UUID) bool {
	_, unit := w.units[id]
	_, game := w.minigames[id]
	return unit || game
}

// Unit returns a placed unit. The pointer must not be used while another
// goroutine ticks the world; use WithUnit for that.
func (w *World) Unit(id uuid.UUID) (*processing.Unit, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.units[id]
	return u, ok
}

// Minigame returns a placed minigame; the same caveat as Unit applies
func (w *World) Minigame(id uuid.UUID) (*minigame.Minigame, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	m, ok := w.minigames[id]
	return m, ok
}

// WithUnit runs fn while holding the world lock
func (w *World) WithUnit(id uuid.UUID, fn func(u *processing.Unit) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.units[id]
	if !ok {
		return &ErrUnitNotFound{UnitID: id}
	}
	return fn(u)
}

// WithMinigame runs fn while holding the world lock
func (w *World) WithMinigame(id uuid.UUID, fn func(m *minigame.Minigame) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	m, ok := w.minigames[id]
	if !ok {
		return &ErrMinigameNotFound{MinigameID: id}
	}
	return fn(m)
}

// Units returns unit ids in placement order
func (w *World) Units() []uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]uuid.UUID, len(w.unitOrder))
	copy(out, w.unitOrder)
	return out
}

// Minigames returns minigame ids in placement order
func (w *World) Minigames() []uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]uuid.UUID, len(w.minigameIDs))
	copy(out, w.minigameIDs)
	return out
}

// ResolveMaterial builds a material from names. An empty system means the
// standard system; an empty tier means the system's default tier.
func (w *World) ResolveMaterial(kind, system, tier string, amount int) (processing.Material, error) {
	w.mu.Lock()
	resolver := w.resolver
	w.mu.Unlock()

	k, ok := resolver.ResolveKind(kind)
	if !ok {
		return processing.Material{}, &processing.ErrInvalidMaterial{Kind: processing.Kind(kind), Reason: "unknown material kind"}
	}
	if system == "" {
		system = quality.Standard().Name()
	}
	sys, ok := w.registry.System(system)
	if !ok {
		return processing.Material{}, &processing.ErrInvalidMaterial{Kind: k, Reason: fmt.Sprintf("unknown quality system %s", system)}
	}
	q := sys.Default()
	if tier != "" {
		q, ok = sys.Parse(tier)
		if !ok {
			return processing.Material{}, &processing.ErrInvalidMaterial{Kind: k, Reason: fmt.Sprintf("unknown quality %s/%s", system, tier)}
		}
	}
	return processing.NewMaterial(k, q, amount)
}

// Tick advances every unit and minigame by one world tick
func (w *World) Tick(ctx context.Context) TickReport {
	start := time.Now()

	w.mu.Lock()
	report := TickReport{
		Tick:               w.ticks.Advance(),
		Units:              len(w.unitOrder),
		CompletedByStage:   make(map[processing.StageID]int),
		ConsumedByResource: make(map[processing.ResourceKind]int),
	}
	for _, id := range w.unitOrder {
		u := w.units[id]
		res := u.Tick()
		if res.Inert {
			report.InertUnits++
			continue
		}
		report.Advanced += res.Advanced
		report.Completed += res.Completed
		report.Paused += res.Paused
		report.Consumed += res.Consumed
		if res.Completed > 0 {
			report.CompletedByStage[u.StageID()] += res.Completed
		}
		if res.Consumed > 0 {
			if kind, _, _, ok := u.Resource(); ok {
				report.ConsumedByResource[kind] += res.Consumed
			}
		}
	}
	for _, id := range w.minigameIDs {
		m := w.minigames[id]
		res := m.Tick()
		if res.Resolution != nil {
			report.Resolutions = append(report.Resolutions, MinigameResolution{
				MinigameID: id,
				RecipeID:   m.Recipe().ID,
				Resolution: *res.Resolution,
			})
		}
	}
	observers := w.tickObservers
	w.mu.Unlock()

	elapsed := time.Since(start)
	for _, o := range observers {
		o.ObserveTick(report, elapsed)
	}
	return report
}

// DirtyUnits returns the ids of units changed since the last flush
func (w *World) DirtyUnits() []uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []uuid.UUID
	for _, id := range w.dirty.Peek() {
		if _, ok := w.units[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// DrainDirty returns and clears every dirty id
func (w *World) DrainDirty() []uuid.UUID {
	return w.dirty.Drain()
}

// MarkDirty flags ids for the next flush
func (w *World) MarkDirty(ids ...uuid.UUID) {
	w.dirty.Mark(ids...)
}

// ChangeCount returns how many changes of a reason have been reported
func (w *World) ChangeCount(reason processing.ChangeReason) int {
	return w.dirty.Count(reason)
}

// Snapshot returns the persisted form of one entity. Exactly one of the two
// results is non-nil for a known id; an inert unit whose saved state is still
// waiting for its stage returns that saved state unchanged.
func (w *World) Snapshot(id uuid.UUID) (*processing.UnitSnapshot, *minigame.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if u, ok := w.units[id]; ok {
		if pending, waiting := w.pendingLoads[id]; waiting {
			return &pending, nil
		}
		snap := u.Save()
		return &snap, nil
	}
	if m, ok := w.minigames[id]; ok {
		snap := m.Save()
		return nil, &snap
	}
	return nil, nil
}

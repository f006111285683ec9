package processing

import (
	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
)

const (
	// DefaultConsumeEvery is the number of advancing ticks between resource draws
	DefaultConsumeEvery = 20
	// DefaultReportInterval bounds progress-only change reports
	DefaultReportInterval = 20
)

// TickResult summarizes one call to Tick
type TickResult struct {
	Advanced  int
	Completed int
	Paused    int
	Consumed  int
	// Throttled is set when the tick divisor skipped this call
	Throttled bool
	Inert     bool
	Outputs   []Material
}

// Changed reports whether the tick mutated the unit
func (r TickResult) Changed() bool {
	return r.Advanced > 0 || r.Completed > 0
}

// Option configures a Unit
type Option func(*Unit)

// WithID sets the unit identity (restored units keep their id)
func WithID(id uuid.UUID) Option {
	return func(u *Unit) { u.id = id }
}

// WithRandom sets the source for upgrade rolls
func WithRandom(r shared.RandomSource) Option {
	return func(u *Unit) { u.random = r }
}

// WithSink sets the change sink
func WithSink(s ChangeSink) Option {
	return func(u *Unit) { u.sink = s }
}

// WithLogger sets the logger used for configuration errors
func WithLogger(l Logger) Option {
	return func(u *Unit) { u.logger = l }
}

// WithUpgradeChance sets the default upgrade probability; a stage override wins
func WithUpgradeChance(chance float64) Option {
	return func(u *Unit) { u.upgradeChance = chance }
}

// WithQualitySystems sets the registry a stage's quality system is resolved in
func WithQualitySystems(r *quality.Registry) Option {
	return func(u *Unit) { u.systems = r }
}

// WithTickDivisor makes the unit do work every n calls, advancing by n
func WithTickDivisor(n int) Option {
	return func(u *Unit) {
		if n > 0 {
			u.divisor = n
		}
	}
}

// WithConsumeEvery sets the resource draw cadence in advancing ticks
func WithConsumeEvery(n int) Option {
	return func(u *Unit) {
		if n > 0 {
			u.consumeEvery = n
		}
	}
}

// WithReportInterval bounds progress-only change reports; 0 reports every mutation
func WithReportInterval(n int) Option {
	return func(u *Unit) {
		if n >= 0 {
			u.reportEvery = n
		}
	}
}

// Unit is a processing machine: a slot array, an optional resource gate and
// the stage constants that drive them.
//
// A unit built from a catalog whose stage id is missing is inert: every
// operation is a no-op and ConfigError reports why.
type Unit struct {
	id        uuid.UUID
	stageID   StageID
	stage     *StageDescriptor
	configErr error

	slots   *SlotArray
	gate    *ResourceGate
	upgrade quality.UpgradeTransform
	systems *quality.Registry
	outputSystem *quality.System

	random shared.RandomSource
	sink   ChangeSink
	logger Logger

	upgradeChance float64
	divisor       int
	calls         int
	consumeEvery  int
	reportEvery   int
	sinceReport   int
	inertLogged   bool
}

// NewUnit creates a unit from a descriptor
func NewUnit(desc StageDescriptor, opts ...Option) (*Unit, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	u := newUnit(desc.ID, opts)
	if err := u.bind(desc); err != nil {
		return nil, err
	}
	return u, nil
}

// NewCatalogUnit creates a unit whose constants come from the catalog.
// It never fails: a missing stage leaves the unit inert and logs once.
func NewCatalogUnit(catalog StageCatalog, id StageID, opts ...Option) *Unit {
	u := newUnit(id, opts)
	desc, ok := catalog.Lookup(id)
	if !ok {
		u.configErr = &ErrUnknownStage{StageID: id}
		u.logInert()
		return u
	}
	if err := u.bind(desc); err != nil {
		u.configErr = err
		u.logInert()
	}
	return u
}

func newUnit(id StageID, opts []Option) *Unit {
	u := &Unit{
		id:            uuid.New(),
		stageID:       id,
		upgradeChance: quality.DefaultUpgradeChance,
		divisor:       1,
		consumeEvery:  DefaultConsumeEvery,
		reportEvery:   DefaultReportInterval,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.random == nil {
		u.random = shared.NewSeededRandom(0)
	}
	if u.sink == nil {
		u.sink = NopSink{}
	}
	if u.logger == nil {
		u.logger = nopLogger{}
	}
	if u.systems == nil {
		u.systems = quality.DefaultRegistry()
	}
	return u
}

func (u *Unit) bind(desc StageDescriptor) error {
	slots, err := NewSlotArray(desc.Capacity)
	if err != nil {
		return err
	}

	var gate *ResourceGate
	if desc.Resource != nil {
		gate, err = NewResourceGate(desc.Resource.Kind, desc.ResourceCapacity())
		if err != nil {
			return err
		}
	}

	chance := u.upgradeChance
	if desc.UpgradeChance != nil {
		chance = *desc.UpgradeChance
	}
	upgrade, err := quality.NewUpgradeTransform(chance)
	if err != nil {
		return err
	}

	systemName := desc.QualitySystem
	if systemName == "" {
		systemName = quality.Standard().Name()
	}
	system, ok := u.systems.System(systemName)
	if !ok {
		return &ErrInvalidStage{StageID: desc.ID, Reason: "unknown quality system " + systemName}
	}

	d := desc
	u.stage = &d
	u.stageID = desc.ID
	u.slots = slots
	u.gate = gate
	u.upgrade = upgrade
	u.outputSystem = system
	u.configErr = nil
	u.inertLogged = false
	return nil
}

// Rebind retries the catalog lookup of an inert unit, e.g. after a catalog
// reload. Bound units are left untouched.
func (u *Unit) Rebind(catalog StageCatalog) error {
	if u.stage != nil {
		return nil
	}
	desc, ok := catalog.Lookup(u.stageID)
	if !ok {
		u.configErr = &ErrUnknownStage{StageID: u.stageID}
		return u.configErr
	}
	if err := u.bind(desc); err != nil {
		u.configErr = err
		return err
	}
	return nil
}

func (u *Unit) logInert() {
	if u.inertLogged {
		return
	}
	u.inertLogged = true
	u.logger.Log("ERROR", "processing unit has no usable stage, ticks are disabled", map[string]interface{}{
		"unit_id":  u.id.String(),
		"stage_id": string(u.stageID),
		"error":    u.configErr.Error(),
	})
}

// Getters

func (u *Unit) ID() uuid.UUID {
	return u.id
}

func (u *Unit) StageID() StageID {
	return u.stageID
}

// Stage returns the bound descriptor
func (u *Unit) Stage() (StageDescriptor, bool) {
	if u.stage == nil {
		return StageDescriptor{}, false
	}
	return *u.stage, true
}

// Inert reports whether the unit has no stage
func (u *Unit) Inert() bool {
	return u.stage == nil
}

// ConfigError returns the reason a unit is inert
func (u *Unit) ConfigError() error {
	return u.configErr
}

func (u *Unit) Capacity() int {
	if u.slots == nil {
		return 0
	}
	return u.slots.Capacity()
}

// Slot returns a copy of one batch
func (u *Unit) Slot(i int) (Batch, bool) {
	if u.slots == nil {
		return Batch{}, false
	}
	return u.slots.Slot(i)
}

// Resource returns the gate level and capacity; ok is false for resource-free units
func (u *Unit) Resource() (kind ResourceKind, level, capacity int, ok bool) {
	if u.gate == nil {
		return "", 0, 0, false
	}
	return u.gate.Kind(), u.gate.Level(), u.gate.Capacity(), true
}

// UpgradeChance returns the effective upgrade probability
func (u *Unit) UpgradeChance() float64 {
	return u.upgrade.Chance()
}

// Operations

// Insert places material in the first free slot. Capacity is the only check
// made here; the resource is checked when the slot advances.
func (u *Unit) Insert(m Material) bool {
	if u.stage == nil || m.IsZero() || !u.stage.Accepts(m.Kind) {
		return false
	}
	if _, ok := u.slots.Insert(m); !ok {
		return false
	}
	u.sink.Changed(u.id, ChangeInserted)
	return true
}

// ExtractAll drains every ready slot into one aggregated material
func (u *Unit) ExtractAll() (Material, bool) {
	if u.stage == nil {
		return Material{}, false
	}
	m, ok := u.slots.ExtractAll()
	if ok {
		u.sink.Changed(u.id, ChangeExtracted)
	}
	return m, ok
}

// ExtractGrouped drains every ready slot without merging distinct stacks
func (u *Unit) ExtractGrouped() []Material {
	if u.stage == nil {
		return nil
	}
	stacks := u.slots.ExtractGrouped()
	if len(stacks) > 0 {
		u.sink.Changed(u.id, ChangeExtracted)
	}
	return stacks
}

// Deposit tops up the resource gate and returns the accepted amount
func (u *Unit) Deposit(amount int) int {
	if u.gate == nil {
		return 0
	}
	accepted := u.gate.Deposit(amount)
	if accepted > 0 {
		u.sink.Changed(u.id, ChangeDeposited)
	}
	return accepted
}

// Tick advances every active slot whose resource precondition holds.
// It never fails; anomalies degrade to a no-op.
func (u *Unit) Tick() TickResult {
	if u.stage == nil {
		u.logInert()
		return TickResult{Inert: true}
	}

	u.calls++
	if u.calls < u.divisor {
		return TickResult{Throttled: true}
	}
	u.calls = 0
	step := u.divisor

	var res TickResult
	for i := range u.slots.slots {
		b := &u.slots.slots[i]
		if !b.IsActive() {
			continue
		}
		if u.gate != nil && !u.gate.CanSupply(u.stage.Resource.Amount) {
			res.Paused++
			continue
		}

		b.advance(step)
		res.Advanced++
		if u.gate != nil {
			res.Consumed += u.draw(b.progress-step, b.progress)
		}

		if b.progress >= u.stage.ProcessingTicks {
			out := u.complete(b.input)
			b.finish(out)
			res.Completed++
			res.Outputs = append(res.Outputs, out)
		}
	}

	u.report(res, step)
	return res
}

// draw charges the gate once for every cadence boundary a slot's progress
// crossed moving from `from` to `to`
func (u *Unit) draw(from, to int) int {
	drawn := 0
	for n := to/u.consumeEvery - from/u.consumeEvery; n > 0; n-- {
		if u.gate.TryConsume(u.stage.Resource.Amount) {
			drawn += u.stage.Resource.Amount
		}
	}
	return drawn
}

func (u *Unit) complete(in Material) Material {
	tier := u.outputSystem.Default()
	if u.stage.PreservesQuality {
		tier = u.upgrade.Apply(in.Quality, u.random)
	}
	return u.stage.Produce(in, tier)
}

func (u *Unit) report(res TickResult, step int) {
	if res.Completed > 0 {
		u.sinceReport = 0
		u.sink.Changed(u.id, ChangeCompleted)
		return
	}
	if res.Advanced == 0 {
		return
	}
	u.sinceReport += step
	if u.reportEvery == 0 || u.sinceReport >= u.reportEvery {
		u.sinceReport = 0
		u.sink.Changed(u.id, ChangeProgressed)
	}
}

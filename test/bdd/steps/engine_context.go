package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/adapters/catalog"
	"github.com/andrescamacho/slotworks-go/internal/adapters/persistence"
	"github.com/andrescamacho/slotworks-go/internal/application/common"
	minigameCommands "github.com/andrescamacho/slotworks-go/internal/application/minigame/commands"
	processingCommands "github.com/andrescamacho/slotworks-go/internal/application/processing/commands"
	"github.com/andrescamacho/slotworks-go/internal/application/setup"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
	"github.com/andrescamacho/slotworks-go/test/helpers"
)

// engineContext is shared by the processing, minigame and persistence steps
// so one scenario can place units, cook and restart the world
type engineContext struct {
	doc    catalog.Document
	def    *catalog.Definition
	random shared.RandomSource
	logger *helpers.RecordingLogger

	world    *world.World
	mediator common.Mediator

	units    map[string]uuid.UUID
	stations map[string]uuid.UUID

	lastInsert  *processingCommands.InsertInputResponse
	lastDeposit *processingCommands.DepositResourceResponse
	extracted   []processing.Material
	lastAdd     *minigameCommands.AddIngredientResponse
	resolutions map[uuid.UUID]world.MinigameResolution
	lastRemoved *minigame.Resolution

	unitRepo *persistence.GormUnitSnapshotRepository
	gameRepo *persistence.GormMinigameSnapshotRepository
	flushed  world.FlushResult
	restored world.RestoreReport
	rebound  int

	err error
}

func (ec *engineContext) reset() {
	ec.doc = catalog.Document{}
	ec.def = nil
	ec.random = shared.NewSequenceRandom(0.99)
	ec.logger = &helpers.RecordingLogger{}
	ec.world = nil
	ec.mediator = nil
	ec.units = make(map[string]uuid.UUID)
	ec.stations = make(map[string]uuid.UUID)
	ec.lastInsert = nil
	ec.lastDeposit = nil
	ec.extracted = nil
	ec.lastAdd = nil
	ec.resolutions = make(map[uuid.UUID]world.MinigameResolution)
	ec.lastRemoved = nil
	ec.unitRepo = nil
	ec.gameRepo = nil
	ec.flushed = world.FlushResult{}
	ec.restored = world.RestoreReport{}
	ec.rebound = 0
	ec.err = nil
}

// ============================================================================
// World Setup Steps
// ============================================================================

func (ec *engineContext) aCatalogWithStages(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		capacity, err := strconv.Atoi(getCellValueFromTable(table, row, "capacity"))
		if err != nil {
			return fmt.Errorf("invalid capacity: %w", err)
		}
		ticks, err := strconv.Atoi(getCellValueFromTable(table, row, "ticks"))
		if err != nil {
			return fmt.Errorf("invalid ticks: %w", err)
		}
		stage := catalog.StageDoc{
			ID:              getCellValueFromTable(table, row, "id"),
			Name:            getCellValueFromTable(table, row, "name"),
			Category:        getCellValueFromTable(table, row, "category"),
			Capacity:        capacity,
			ProcessingTicks: ticks,
			Input:           getCellValueFromTable(table, row, "input"),
			Output:          getCellValueFromTable(table, row, "output"),
		}
		if v := getCellValueFromTable(table, row, "preserves_quality"); v != "" {
			preserves := v == "true"
			stage.PreservesQuality = &preserves
		}
		ec.doc.Stages = append(ec.doc.Stages, stage)
	}
	ec.def = nil
	return nil
}

func (ec *engineContext) stageDrawsResource(stageID string, amount int, kind string, capacity int) error {
	for i := range ec.doc.Stages {
		if ec.doc.Stages[i].ID == stageID {
			ec.doc.Stages[i].Resource = &catalog.ResourceDoc{Kind: kind, Amount: amount, Capacity: capacity}
			ec.def = nil
			return nil
		}
	}
	return fmt.Errorf("stage %s is not in the catalog table", stageID)
}

func (ec *engineContext) theBuiltinCatalog() error {
	def, err := catalog.Builtin()
	if err != nil {
		return err
	}
	ec.def = def
	return nil
}

func (ec *engineContext) upgradeRollsNeverSucceed() error {
	ec.random = shared.NewSequenceRandom(0.99)
	return nil
}

func (ec *engineContext) upgradeRollsAlwaysSucceed() error {
	ec.random = shared.NewSequenceRandom(0)
	return nil
}

func (ec *engineContext) definition() (*catalog.Definition, error) {
	if ec.def != nil {
		return ec.def, nil
	}
	def, err := catalog.Build(ec.doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	ec.def = def
	return def, nil
}

func (ec *engineContext) startWorld(stages *processing.Catalog) error {
	def, err := ec.definition()
	if err != nil {
		return err
	}
	if stages == nil {
		stages = def.Stages
	}

	ec.world = world.NewWorld(stages, def.Recipes, def.Registry,
		world.WithRandom(ec.random),
		world.WithLogger(ec.logger),
	)
	ec.mediator, err = setup.NewHandlerRegistry(ec.world, ec.logger).CreateConfiguredMediator()
	return err
}

func (ec *engineContext) theWorldIsStarted() error {
	ec.units = make(map[string]uuid.UUID)
	ec.stations = make(map[string]uuid.UUID)
	return ec.startWorld(nil)
}

func (ec *engineContext) ticksPass(n int) error {
	resp, err := send[processingCommands.TickWorldResponse](ec, &processingCommands.TickWorldCommand{Ticks: n})
	if err != nil {
		return err
	}
	for _, r := range resp.Resolutions {
		ec.resolutions[r.MinigameID] = r
	}
	return nil
}

func (ec *engineContext) theOperationShouldFailWith(fragment string) error {
	if ec.err == nil {
		return fmt.Errorf("expected an error containing %q, got none", fragment)
	}
	if !strings.Contains(ec.err.Error(), fragment) {
		return fmt.Errorf("expected an error containing %q, got %q", fragment, ec.err.Error())
	}
	return nil
}

// ============================================================================
// Helpers
// ============================================================================

func send[T any](ec *engineContext, request common.Request) (*T, error) {
	if ec.mediator == nil {
		return nil, fmt.Errorf("the world has not been started")
	}
	resp, err := ec.mediator.Send(context.Background(), request)
	if err != nil {
		return nil, err
	}
	typed, ok := resp.(*T)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", resp)
	}
	return typed, nil
}

func (ec *engineContext) unitID(name string) (uuid.UUID, error) {
	id, ok := ec.units[name]
	if !ok {
		return uuid.Nil, fmt.Errorf("no unit named %q", name)
	}
	return id, nil
}

func (ec *engineContext) stationID(name string) (uuid.UUID, error) {
	id, ok := ec.stations[name]
	if !ok {
		return uuid.Nil, fmt.Errorf("no station named %q", name)
	}
	return id, nil
}

// getCellValueFromTable gets a cell value by column name from a table row
func getCellValueFromTable(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}

	headerRow := table.Rows[0]
	for i, headerCell := range headerRow.Cells {
		if headerCell.Value == columnName {
			if i < len(row.Cells) {
				return row.Cells[i].Value
			}
			return ""
		}
	}
	return ""
}

// InitializeEngineScenario registers every engine step on one shared context
func InitializeEngineScenario(sc *godog.ScenarioContext) {
	ec := &engineContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		ec.reset()
		return ctx, nil
	})

	sc.Step(`^a catalog with stages:$`, ec.aCatalogWithStages)
	sc.Step(`^stage "([^"]*)" draws (\d+) "([^"]*)" per cycle from a tank of (\d+)$`, ec.stageDrawsResource)
	sc.Step(`^the builtin catalog$`, ec.theBuiltinCatalog)
	sc.Step(`^upgrade rolls never succeed$`, ec.upgradeRollsNeverSucceed)
	sc.Step(`^upgrade rolls always succeed$`, ec.upgradeRollsAlwaysSucceed)
	sc.Step(`^the world is started$`, ec.theWorldIsStarted)
	sc.Step(`^(\d+) ticks? pass(?:es)?$`, ec.ticksPass)
	sc.Step(`^the operation should fail with "([^"]*)"$`, ec.theOperationShouldFailWith)

	registerProcessingSteps(sc, ec)
	registerMinigameSteps(sc, ec)
	registerPersistenceSteps(sc, ec)
}

package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/slotworks-go/internal/adapters/persistence"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
	"github.com/andrescamacho/slotworks-go/test/helpers"
)

func (ec *engineContext) anEmptySnapshotStore() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	clock := shared.NewRealClock()
	ec.unitRepo = persistence.NewGormUnitSnapshotRepository(helpers.SharedTestDB, clock)
	ec.gameRepo = persistence.NewGormMinigameSnapshotRepository(helpers.SharedTestDB, clock)
	return nil
}

func (ec *engineContext) theWorldIsFlushedToTheStore() error {
	if ec.unitRepo == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	scheduler := world.NewPersistenceScheduler(ec.world, ec.unitRepo, ec.gameRepo, 0, 1, ec.logger)
	result, err := scheduler.FlushAll(context.Background())
	if err != nil {
		return err
	}
	ec.flushed = result
	return nil
}

func (ec *engineContext) restart(stages *processing.Catalog) error {
	if ec.unitRepo == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	if err := ec.startWorld(stages); err != nil {
		return err
	}
	report, err := ec.world.Restore(context.Background(), ec.unitRepo, ec.gameRepo)
	if err != nil {
		return err
	}
	ec.restored = report
	return nil
}

func (ec *engineContext) theWorldIsRestartedFromTheStore() error {
	return ec.restart(nil)
}

func (ec *engineContext) theWorldIsRestartedWithoutStage(stageID string) error {
	def, err := ec.definition()
	if err != nil {
		return err
	}
	var kept []processing.StageDescriptor
	for _, s := range def.Stages.Stages() {
		if s.ID != processing.StageID(stageID) {
			kept = append(kept, s)
		}
	}
	stages, err := processing.NewCatalog(kept)
	if err != nil {
		return err
	}
	return ec.restart(stages)
}

func (ec *engineContext) theBuiltinCatalogIsReloaded() error {
	if err := ec.theBuiltinCatalog(); err != nil {
		return err
	}
	ec.rebound = ec.world.ReloadCatalog(ec.def.Stages)
	return nil
}

func (ec *engineContext) theSnapshotOfUnitIsDeleted(name string) error {
	id, err := ec.unitID(name)
	if err != nil {
		return err
	}
	return ec.unitRepo.Delete(context.Background(), id.String())
}

// ============================================================================
// Assertions
// ============================================================================

func (ec *engineContext) theFlushShouldWrite(units, stations int) error {
	if ec.flushed.Units != units || ec.flushed.Minigames != stations {
		return fmt.Errorf("expected %d units and %d stations written, got %d and %d",
			units, stations, ec.flushed.Units, ec.flushed.Minigames)
	}
	if ec.flushed.Failed != 0 {
		return fmt.Errorf("%d writes failed", ec.flushed.Failed)
	}
	return nil
}

func (ec *engineContext) theRestoreShouldReportInertUnits(n int) error {
	if ec.restored.Inert != n {
		return fmt.Errorf("expected %d inert units, got %d", n, ec.restored.Inert)
	}
	return nil
}

func (ec *engineContext) unitsShouldBeRebound(n int) error {
	if ec.rebound != n {
		return fmt.Errorf("expected %d units rebound, got %d", n, ec.rebound)
	}
	return nil
}

func (ec *engineContext) theWorldShouldHoldUnits(n int) error {
	if got := len(ec.world.Units()); got != n {
		return fmt.Errorf("expected %d units, got %d", n, got)
	}
	return nil
}

func registerPersistenceSteps(sc *godog.ScenarioContext, ec *engineContext) {
	sc.Step(`^an empty snapshot store$`, ec.anEmptySnapshotStore)
	sc.Step(`^the world is flushed to the store$`, ec.theWorldIsFlushedToTheStore)
	sc.Step(`^the world is restarted from the store$`, ec.theWorldIsRestartedFromTheStore)
	sc.Step(`^the world is restarted from the store without stage "([^"]*)"$`, ec.theWorldIsRestartedWithoutStage)
	sc.Step(`^the builtin catalog is reloaded$`, ec.theBuiltinCatalogIsReloaded)
	sc.Step(`^the snapshot of unit "([^"]*)" is deleted$`, ec.theSnapshotOfUnitIsDeleted)

	sc.Step(`^the flush should write (\d+) units? and (\d+) stations?$`, ec.theFlushShouldWrite)
	sc.Step(`^the restore should report (\d+) inert units?$`, ec.theRestoreShouldReportInertUnits)
	sc.Step(`^(\d+) units? should be rebound$`, ec.unitsShouldBeRebound)
	sc.Step(`^the world should hold (\d+) units?$`, ec.theWorldShouldHoldUnits)
}

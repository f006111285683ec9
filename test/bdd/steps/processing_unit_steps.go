package steps

import (
	"fmt"
	"strconv"

	"github.com/cucumber/godog"

	processingCommands "github.com/andrescamacho/slotworks-go/internal/application/processing/commands"
	processingQueries "github.com/andrescamacho/slotworks-go/internal/application/processing/queries"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

func (ec *engineContext) aUnitPlacedOnStage(name, stageID string) error {
	resp, err := send[processingCommands.PlaceUnitResponse](ec, &processingCommands.PlaceUnitCommand{StageID: stageID})
	if err != nil {
		return err
	}
	ec.units[name] = resp.UnitID
	return nil
}

func (ec *engineContext) iInsertIntoUnit(amount int, kind, tier, name string) error {
	id, err := ec.unitID(name)
	if err != nil {
		return err
	}
	resp, err := send[processingCommands.InsertInputResponse](ec, &processingCommands.InsertInputCommand{
		UnitID:  id,
		Kind:    kind,
		Quality: tier,
		Amount:  amount,
	})
	ec.err = err
	if err != nil {
		// the unit never saw the material
		ec.lastInsert = &processingCommands.InsertInputResponse{}
		return nil
	}
	ec.lastInsert = resp
	return nil
}

func (ec *engineContext) iDepositResourceIntoUnit(amount int, name string) error {
	id, err := ec.unitID(name)
	if err != nil {
		return err
	}
	resp, err := send[processingCommands.DepositResourceResponse](ec, &processingCommands.DepositResourceCommand{UnitID: id, Amount: amount})
	if err != nil {
		return err
	}
	ec.lastDeposit = resp
	return nil
}

func (ec *engineContext) iExtractFromUnit(grouped bool, name string) error {
	id, err := ec.unitID(name)
	if err != nil {
		return err
	}
	resp, err := send[processingCommands.ExtractOutputResponse](ec, &processingCommands.ExtractOutputCommand{UnitID: id, Grouped: grouped})
	if err != nil {
		return err
	}
	ec.extracted = resp.Materials
	return nil
}

func (ec *engineContext) iExtractEverythingFromUnit(name string) error {
	return ec.iExtractFromUnit(false, name)
}

func (ec *engineContext) iExtractGroupedStacksFromUnit(name string) error {
	return ec.iExtractFromUnit(true, name)
}

// ============================================================================
// Assertions
// ============================================================================

func (ec *engineContext) unitStatus(name string) (*processingQueries.UnitStatus, error) {
	id, err := ec.unitID(name)
	if err != nil {
		return nil, err
	}
	resp, err := send[processingQueries.GetUnitStatusResponse](ec, &processingQueries.GetUnitStatusQuery{UnitID: id})
	if err != nil {
		return nil, err
	}
	return &resp.Status, nil
}

func (ec *engineContext) slot(name string, index int) (*processingQueries.SlotStatus, error) {
	status, err := ec.unitStatus(name)
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(status.Slots) {
		return nil, fmt.Errorf("unit %s has %d slots, no slot %d", name, len(status.Slots), index)
	}
	return &status.Slots[index-1], nil
}

func (ec *engineContext) slotShouldBeActiveWithProgress(index int, name string, progress int) error {
	s, err := ec.slot(name, index)
	if err != nil {
		return err
	}
	if s.State != processing.SlotActive {
		return fmt.Errorf("expected slot %d to be ACTIVE, got %s", index, s.State)
	}
	if s.Progress != progress {
		return fmt.Errorf("expected progress %d, got %d", progress, s.Progress)
	}
	return nil
}

func (ec *engineContext) slotShouldBeReadyHolding(index int, name string, amount int, kind, tier string) error {
	s, err := ec.slot(name, index)
	if err != nil {
		return err
	}
	if s.State != processing.SlotReady {
		return fmt.Errorf("expected slot %d to be READY, got %s", index, s.State)
	}
	return expectMaterial(s.Output, amount, kind, tier)
}

func (ec *engineContext) slotShouldHoldInput(index int, name string, amount int, kind, tier string) error {
	s, err := ec.slot(name, index)
	if err != nil {
		return err
	}
	return expectMaterial(s.Input, amount, kind, tier)
}

func (ec *engineContext) unitShouldReportInputsAndOutputs(name string, inputs, outputs int) error {
	status, err := ec.unitStatus(name)
	if err != nil {
		return err
	}
	if status.Summary.InputCount != inputs || status.Summary.OutputCount != outputs {
		return fmt.Errorf("expected %d inputs and %d outputs, got %d and %d",
			inputs, outputs, status.Summary.InputCount, status.Summary.OutputCount)
	}
	return nil
}

func (ec *engineContext) unitShouldReportPausedSlots(name string, paused int) error {
	status, err := ec.unitStatus(name)
	if err != nil {
		return err
	}
	if status.Summary.PausedSlots != paused {
		return fmt.Errorf("expected %d paused slots, got %d", paused, status.Summary.PausedSlots)
	}
	return nil
}

func (ec *engineContext) unitShouldHaveResource(name string, level, capacity int) error {
	status, err := ec.unitStatus(name)
	if err != nil {
		return err
	}
	if status.Summary.ResourceLevel != level || status.Summary.ResourceCapacity != capacity {
		return fmt.Errorf("expected resource %d/%d, got %d/%d",
			level, capacity, status.Summary.ResourceLevel, status.Summary.ResourceCapacity)
	}
	return nil
}

func (ec *engineContext) unitShouldBeInert(name string) error {
	status, err := ec.unitStatus(name)
	if err != nil {
		return err
	}
	if !status.Inert || !status.Summary.Inert {
		return fmt.Errorf("expected unit %s to be inert", name)
	}
	return nil
}

func (ec *engineContext) theLastInsertShouldBeRejected() error {
	if ec.lastInsert == nil {
		return fmt.Errorf("nothing was inserted")
	}
	if ec.lastInsert.Accepted {
		return fmt.Errorf("expected the insert to be rejected")
	}
	return nil
}

func (ec *engineContext) theDepositShouldAccept(amount int) error {
	if ec.lastDeposit == nil {
		return fmt.Errorf("nothing was deposited")
	}
	if ec.lastDeposit.Accepted != amount {
		return fmt.Errorf("expected %d accepted, got %d", amount, ec.lastDeposit.Accepted)
	}
	return nil
}

func (ec *engineContext) theExtractionShouldYield(table *godog.Table) error {
	rows := table.Rows[1:]
	if len(ec.extracted) != len(rows) {
		return fmt.Errorf("expected %d stacks, got %d: %v", len(rows), len(ec.extracted), ec.extracted)
	}
	for i, row := range rows {
		amount, err := strconv.Atoi(getCellValueFromTable(table, row, "amount"))
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		kind := getCellValueFromTable(table, row, "kind")
		tier := getCellValueFromTable(table, row, "quality")
		if err := expectMaterial(ec.extracted[i], amount, kind, tier); err != nil {
			return fmt.Errorf("stack %d: %w", i+1, err)
		}
	}
	return nil
}

func (ec *engineContext) theExtractionShouldYieldNothing() error {
	if len(ec.extracted) != 0 {
		return fmt.Errorf("expected nothing, got %v", ec.extracted)
	}
	return nil
}

func expectMaterial(m processing.Material, amount int, kind, tier string) error {
	if string(m.Kind) != kind || m.Amount != amount || m.Quality.Name() != tier {
		return fmt.Errorf("expected %d x %s (%s), got %d x %s (%s)",
			amount, kind, tier, m.Amount, m.Kind, m.Quality.Name())
	}
	return nil
}

func registerProcessingSteps(sc *godog.ScenarioContext, ec *engineContext) {
	sc.Step(`^a unit "([^"]*)" placed on stage "([^"]*)"$`, ec.aUnitPlacedOnStage)
	sc.Step(`^I insert (\d+) "([^"]*)" of quality "([^"]*)" into unit "([^"]*)"$`, ec.iInsertIntoUnit)
	sc.Step(`^I deposit (\d+) resource into unit "([^"]*)"$`, ec.iDepositResourceIntoUnit)
	sc.Step(`^I extract everything from unit "([^"]*)"$`, ec.iExtractEverythingFromUnit)
	sc.Step(`^I extract grouped stacks from unit "([^"]*)"$`, ec.iExtractGroupedStacksFromUnit)

	sc.Step(`^slot (\d+) of unit "([^"]*)" should be ACTIVE with progress (\d+)$`, ec.slotShouldBeActiveWithProgress)
	sc.Step(`^slot (\d+) of unit "([^"]*)" should be READY holding (\d+) "([^"]*)" of quality "([^"]*)"$`, ec.slotShouldBeReadyHolding)
	sc.Step(`^slot (\d+) of unit "([^"]*)" should hold input (\d+) "([^"]*)" of quality "([^"]*)"$`, ec.slotShouldHoldInput)
	sc.Step(`^unit "([^"]*)" should report (\d+) inputs? and (\d+) outputs?$`, ec.unitShouldReportInputsAndOutputs)
	sc.Step(`^unit "([^"]*)" should report (\d+) paused slots?$`, ec.unitShouldReportPausedSlots)
	sc.Step(`^unit "([^"]*)" should have (\d+) of (\d+) resource$`, ec.unitShouldHaveResource)
	sc.Step(`^unit "([^"]*)" should be inert$`, ec.unitShouldBeInert)
	sc.Step(`^the last insert should be rejected$`, ec.theLastInsertShouldBeRejected)
	sc.Step(`^the deposit should accept (\d+)$`, ec.theDepositShouldAccept)
	sc.Step(`^the extraction should yield:$`, ec.theExtractionShouldYield)
	sc.Step(`^the extraction should yield nothing$`, ec.theExtractionShouldYieldNothing)
}

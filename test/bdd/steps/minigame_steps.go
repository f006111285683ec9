package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	minigameCommands "github.com/andrescamacho/slotworks-go/internal/application/minigame/commands"
	minigameQueries "github.com/andrescamacho/slotworks-go/internal/application/minigame/queries"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
)

func (ec *engineContext) aStationPlacedForRecipe(name, recipeID string) error {
	resp, err := send[minigameCommands.PlaceMinigameResponse](ec, &minigameCommands.PlaceMinigameCommand{RecipeID: recipeID})
	if err != nil {
		return err
	}
	ec.stations[name] = resp.MinigameID
	return nil
}

func (ec *engineContext) iAddToStation(amount int, kind, tier, name string) error {
	id, err := ec.stationID(name)
	if err != nil {
		return err
	}
	resp, err := send[minigameCommands.AddIngredientResponse](ec, &minigameCommands.AddIngredientCommand{
		MinigameID: id,
		Kind:       kind,
		Quality:    tier,
		Amount:     amount,
	})
	if err != nil {
		return err
	}
	ec.lastAdd = resp
	return nil
}

func (ec *engineContext) startCooking(name string) error {
	id, err := ec.stationID(name)
	if err != nil {
		return err
	}
	_, err = send[minigameCommands.StartCookingResponse](ec, &minigameCommands.StartCookingCommand{MinigameID: id})
	return err
}

func (ec *engineContext) iStartCookingAtStation(name string) error {
	return ec.startCooking(name)
}

func (ec *engineContext) iTryToStartCookingAtStation(name string) error {
	ec.err = ec.startCooking(name)
	return nil
}

func (ec *engineContext) iRemoveTheProductFromStation(name string) error {
	id, err := ec.stationID(name)
	if err != nil {
		return err
	}
	resp, err := send[minigameCommands.RemoveProductResponse](ec, &minigameCommands.RemoveProductCommand{MinigameID: id})
	if err != nil {
		return err
	}
	ec.lastRemoved = &resp.Resolution
	return nil
}

func (ec *engineContext) iCancelCookingAtStation(name string) error {
	id, err := ec.stationID(name)
	if err != nil {
		return err
	}
	_, err = send[minigameCommands.CancelCookingResponse](ec, &minigameCommands.CancelCookingCommand{MinigameID: id})
	return err
}

func (ec *engineContext) iExtractTheProductFromStation(name string) error {
	id, err := ec.stationID(name)
	if err != nil {
		return err
	}
	resp, err := send[minigameCommands.ExtractProductResponse](ec, &minigameCommands.ExtractProductCommand{MinigameID: id})
	if err != nil {
		return err
	}
	if !resp.Extracted {
		return fmt.Errorf("station %s had no product", name)
	}
	return nil
}

// ============================================================================
// Assertions
// ============================================================================

func (ec *engineContext) stationStatus(name string) (*minigameQueries.MinigameStatus, error) {
	id, err := ec.stationID(name)
	if err != nil {
		return nil, err
	}
	resp, err := send[minigameQueries.GetMinigameStatusResponse](ec, &minigameQueries.GetMinigameStatusQuery{MinigameID: id})
	if err != nil {
		return nil, err
	}
	return &resp.Status, nil
}

func expectResolution(r minigame.Resolution, zone, tier string) error {
	if r.Zone.String() != zone {
		return fmt.Errorf("expected zone %s, got %s (tick %d)", zone, r.Zone, r.Tick)
	}
	if r.Tier.Name() != tier {
		return fmt.Errorf("expected tier %s, got %s (score %.3f)", tier, r.Tier.Name(), r.Score)
	}
	return nil
}

func (ec *engineContext) theResolutionShouldBeInZoneWithTier(zone, tier string) error {
	if ec.lastRemoved == nil {
		return fmt.Errorf("no product was removed")
	}
	return expectResolution(*ec.lastRemoved, zone, tier)
}

func (ec *engineContext) theResolutionShouldCarryTheInputBonus() error {
	if ec.lastRemoved == nil {
		return fmt.Errorf("no product was removed")
	}
	if !ec.lastRemoved.Bonus {
		return fmt.Errorf("expected the input quality bonus")
	}
	return nil
}

func (ec *engineContext) stationShouldHaveTimedOut(name, zone, tier string) error {
	id, err := ec.stationID(name)
	if err != nil {
		return err
	}
	r, ok := ec.resolutions[id]
	if !ok {
		return fmt.Errorf("station %s did not resolve on its own", name)
	}
	if !r.TimedOut {
		return fmt.Errorf("expected station %s to time out", name)
	}
	return expectResolution(r.Resolution, zone, tier)
}

func (ec *engineContext) stationShouldBeInPhase(name, phase string) error {
	status, err := ec.stationStatus(name)
	if err != nil {
		return err
	}
	if status.Phase.String() != phase {
		return fmt.Errorf("expected phase %s, got %s", phase, status.Phase)
	}
	return nil
}

func (ec *engineContext) stationShouldHoldProduct(name string, amount int, kind, tier string) error {
	status, err := ec.stationStatus(name)
	if err != nil {
		return err
	}
	if !status.HasOutput {
		return fmt.Errorf("station %s holds no product", name)
	}
	return expectMaterial(status.Output, amount, kind, tier)
}

func (ec *engineContext) stationShouldHoldIngredients(name string, primary, secondary int) error {
	status, err := ec.stationStatus(name)
	if err != nil {
		return err
	}
	if status.Primary != primary || status.Secondary != secondary {
		return fmt.Errorf("expected %d primary and %d secondary, got %d and %d",
			primary, secondary, status.Primary, status.Secondary)
	}
	return nil
}

func (ec *engineContext) theStationShouldHaveAccepted(amount int) error {
	if ec.lastAdd == nil {
		return fmt.Errorf("no ingredient was added")
	}
	if ec.lastAdd.Accepted != amount {
		return fmt.Errorf("expected %d accepted, got %d", amount, ec.lastAdd.Accepted)
	}
	return nil
}

func registerMinigameSteps(sc *godog.ScenarioContext, ec *engineContext) {
	sc.Step(`^a station "([^"]*)" placed for recipe "([^"]*)"$`, ec.aStationPlacedForRecipe)
	sc.Step(`^I add (\d+) "([^"]*)" of quality "([^"]*)" to station "([^"]*)"$`, ec.iAddToStation)
	sc.Step(`^I start cooking at station "([^"]*)"$`, ec.iStartCookingAtStation)
	sc.Step(`^I try to start cooking at station "([^"]*)"$`, ec.iTryToStartCookingAtStation)
	sc.Step(`^I remove the product from station "([^"]*)"$`, ec.iRemoveTheProductFromStation)
	sc.Step(`^I cancel cooking at station "([^"]*)"$`, ec.iCancelCookingAtStation)
	sc.Step(`^I extract the product from station "([^"]*)"$`, ec.iExtractTheProductFromStation)

	sc.Step(`^the resolution should be in zone (\w+) with tier "([^"]*)"$`, ec.theResolutionShouldBeInZoneWithTier)
	sc.Step(`^the resolution should carry the input bonus$`, ec.theResolutionShouldCarryTheInputBonus)
	sc.Step(`^station "([^"]*)" should have timed out in zone (\w+) with tier "([^"]*)"$`, ec.stationShouldHaveTimedOut)
	sc.Step(`^station "([^"]*)" should be in phase (\w+)$`, ec.stationShouldBeInPhase)
	sc.Step(`^station "([^"]*)" should hold (\d+) "([^"]*)" of quality "([^"]*)"$`, ec.stationShouldHoldProduct)
	sc.Step(`^station "([^"]*)" should hold (\d+) primary and (\d+) secondary$`, ec.stationShouldHoldIngredients)
	sc.Step(`^the station should have accepted (\d+)$`, ec.theStationShouldHaveAccepted)
}

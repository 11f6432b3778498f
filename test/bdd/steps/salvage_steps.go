package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"github.com/avelasquez/quadrant-go/internal/domain/sector"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
)

// salvageContext holds state for salvage lifecycle scenarios
type salvageContext struct {
	now     time.Time
	wreck   *ship.Ship
	catalog ship.TemplateCatalog
	salvage *sector.Salvage
}

func (sc *salvageContext) reset() {
	sc.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sc.wreck = nil
	sc.catalog = ship.NewStandardCatalog()
	sc.salvage = nil
}

func (sc *salvageContext) aDestroyedShipInSector(shipType string, sectorID, ore, credits int) error {
	sc.wreck = &ship.Ship{
		ID:               uuid.New(),
		Name:             "the " + shipType,
		Type:             shipType,
		SectorID:         sectorID,
		OwnerCharacterID: "bob",
		Cargo:            map[ship.Commodity]int{ship.CommodityOre: ore},
		Credits:          credits,
		Destroyed:        true,
	}
	return nil
}

func (sc *salvageContext) salvageIsCreatedWithTTL(minutes int) error {
	tpl, err := sc.catalog.Template(sc.wreck.Type)
	if err != nil {
		return err
	}
	sc.salvage = sector.NewSalvage(sc.wreck, tpl, sc.now, time.Duration(minutes)*time.Minute)
	return nil
}

func (sc *salvageContext) theSalvageHoldsOre(units int) error {
	if sc.salvage.Cargo[ship.CommodityOre] != units {
		return fmt.Errorf("expected %d ore, got %d", units, sc.salvage.Cargo[ship.CommodityOre])
	}
	return nil
}

func (sc *salvageContext) theSalvageHoldsCredits(credits int) error {
	if sc.salvage.Credits != credits {
		return fmt.Errorf("expected %d credits, got %d", credits, sc.salvage.Credits)
	}
	return nil
}

func (sc *salvageContext) theSalvageYieldsScrap(scrap int) error {
	if sc.salvage.Scrap != scrap {
		return fmt.Errorf("expected %d scrap, got %d", scrap, sc.salvage.Scrap)
	}
	return nil
}

func (sc *salvageContext) theSalvageIsClaimed() error {
	sc.salvage.Claimed = true
	return nil
}

func (sc *salvageContext) theSalvageIsClaimableAfter(minutes int) error {
	at := sc.now.Add(time.Duration(minutes) * time.Minute)
	if !sc.salvage.Claimable(at) {
		return fmt.Errorf("expected salvage to be claimable %d minutes in", minutes)
	}
	return nil
}

func (sc *salvageContext) theSalvageIsNotClaimableAfter(minutes int) error {
	at := sc.now.Add(time.Duration(minutes) * time.Minute)
	if sc.salvage.Claimable(at) {
		return fmt.Errorf("expected salvage to be unclaimable %d minutes in", minutes)
	}
	return nil
}

// InitializeSalvageScenario registers salvage lifecycle steps
func InitializeSalvageScenario(scenario *godog.ScenarioContext) {
	sc := &salvageContext{}

	scenario.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		sc.reset()
		return ctx, nil
	})

	scenario.Step(`^a destroyed "([^"]*)" ship in sector (\d+) carrying (\d+) ore and (\d+) credits$`, sc.aDestroyedShipInSector)
	scenario.Step(`^salvage is created with a (\d+) minute TTL$`, sc.salvageIsCreatedWithTTL)
	scenario.Step(`^the salvage holds (\d+) ore$`, sc.theSalvageHoldsOre)
	scenario.Step(`^the salvage holds (\d+) credits$`, sc.theSalvageHoldsCredits)
	scenario.Step(`^the salvage yields (\d+) scrap$`, sc.theSalvageYieldsScrap)
	scenario.Step(`^the salvage is claimed$`, sc.theSalvageIsClaimed)
	scenario.Step(`^the salvage is claimable after (\d+) minutes$`, sc.theSalvageIsClaimableAfter)
	scenario.Step(`^the salvage is not claimable after (\d+) minutes$`, sc.theSalvageIsNotClaimableAfter)
}

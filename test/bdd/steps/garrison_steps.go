package steps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"github.com/avelasquez/quadrant-go/internal/domain/combat"
)

// garrisonContext holds state for garrison auto-action scenarios
type garrisonContext struct {
	garrison     *combat.Combatant
	participants map[string]*combat.Combatant
	submitted    map[string]*combat.RoundAction
	tolls        combat.TollRegistry
	actions      map[string]*combat.RoundAction
}

func (gc *garrisonContext) reset() {
	gc.garrison = nil
	gc.participants = make(map[string]*combat.Combatant)
	gc.submitted = make(map[string]*combat.RoundAction)
	gc.tolls = make(combat.TollRegistry)
	gc.actions = nil
}

func (gc *garrisonContext) aGarrisonInSector(sectorID int, owner, mode string, fighters int) error {
	gc.garrison = &combat.Combatant{
		ID:       combat.GarrisonCombatantID(sectorID, owner),
		Kind:     combat.KindGarrison,
		Name:     owner + "'s garrison",
		Fighters: fighters,
		OwnerID:  owner,
		Mode:     combat.GarrisonMode(mode),
	}
	if gc.garrison.Mode == combat.GarrisonToll {
		gc.garrison.TollAmount = 100
	}
	gc.participants[gc.garrison.ID] = gc.garrison
	return nil
}

func (gc *garrisonContext) theGarrisonBelongsToCorporation(corpID string) error {
	gc.garrison.CorporationID = corpID
	return nil
}

func (gc *garrisonContext) theSectorAlsoHoldsCharacters(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		fighters, err := strconv.Atoi(cellValue(table, row, "fighters"))
		if err != nil {
			return err
		}
		id := cellValue(table, row, "id")
		gc.participants[id] = &combat.Combatant{
			ID:            id,
			Kind:          combat.KindCharacter,
			Name:          id,
			Fighters:      fighters,
			MaxFighters:   fighters,
			TurnsPerWarp:  3,
			ShipID:        uuid.NewString(),
			PlayerType:    combat.PlayerTypeHuman,
			CorporationID: cellValue(table, row, "corporation"),
		}
	}
	return nil
}

func (gc *garrisonContext) hasPaidTheTollTo(characterID, ownerID string) error {
	gc.tolls.MarkPaid(ownerID, characterID)
	return nil
}

func (gc *garrisonContext) attacksTheGarrison(characterID string, commit int) error {
	gc.submitted[characterID] = &combat.RoundAction{
		Type:     combat.ActionAttack,
		TargetID: gc.garrison.ID,
		Commit:   commit,
	}
	return nil
}

func (gc *garrisonContext) garrisonActionsAreDerived() error {
	gc.actions = combat.AutoActions(gc.participants, gc.submitted, gc.tolls)
	return nil
}

func (gc *garrisonContext) theGarrisonAttacks(targetID string, commit int) error {
	a := gc.actions[gc.garrison.ID]
	if a == nil {
		return fmt.Errorf("no derived action for the garrison")
	}
	if a.Type != combat.ActionAttack {
		return fmt.Errorf("expected attack, got %s", a.Type)
	}
	if a.TargetID != targetID {
		return fmt.Errorf("expected target %s, got %s", targetID, a.TargetID)
	}
	if a.Commit != commit {
		return fmt.Errorf("expected commit %d, got %d", commit, a.Commit)
	}
	return nil
}

func (gc *garrisonContext) theGarrisonBraces() error {
	a := gc.actions[gc.garrison.ID]
	if a == nil {
		return fmt.Errorf("no derived action for the garrison")
	}
	if a.Type != combat.ActionBrace {
		return fmt.Errorf("expected brace, got %s", a.Type)
	}
	return nil
}

// InitializeGarrisonScenario registers garrison auto-action steps
func InitializeGarrisonScenario(sc *godog.ScenarioContext) {
	gc := &garrisonContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		gc.reset()
		return ctx, nil
	})

	sc.Step(`^a garrison in sector (\d+) owned by "([^"]*)" in "([^"]*)" mode with (\d+) fighters$`, gc.aGarrisonInSector)
	sc.Step(`^the garrison belongs to corporation "([^"]*)"$`, gc.theGarrisonBelongsToCorporation)
	sc.Step(`^the sector also holds characters:$`, gc.theSectorAlsoHoldsCharacters)
	sc.Step(`^"([^"]*)" has paid the toll to "([^"]*)"$`, gc.hasPaidTheTollTo)
	sc.Step(`^"([^"]*)" attacks the garrison committing (\d+) fighters$`, gc.attacksTheGarrison)
	sc.Step(`^garrison actions are derived$`, gc.garrisonActionsAreDerived)
	sc.Step(`^the garrison attacks "([^"]*)" committing (\d+) fighters$`, gc.theGarrisonAttacks)
	sc.Step(`^the garrison braces$`, gc.theGarrisonBraces)
}

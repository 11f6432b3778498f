package steps

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/google/uuid"

	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// combatRoundContext holds state for round resolution scenarios
type combatRoundContext struct {
	clock     *shared.MockClock
	enc       *combat.Encounter
	submitted map[string]*combat.RoundAction
	outcome   *combat.RoundOutcome
	effective map[string]*combat.RoundAction
}

func (cc *combatRoundContext) reset() {
	cc.clock = shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	cc.enc = nil
	cc.submitted = make(map[string]*combat.RoundAction)
	cc.outcome = nil
	cc.effective = nil
}

// cellValue returns the named column's value in a pickle table row, or ""
func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, header := range table.Rows[0].Cells {
		if header.Value == column {
			return row.Cells[i].Value
		}
	}
	return ""
}

func (cc *combatRoundContext) anEncounterInSectorWithParticipants(sectorID int, table *godog.Table) error {
	cc.enc = combat.NewEncounter(sectorID, "", combat.ReasonAttack, cc.clock)
	// Fixed id so every run draws the same random stream
	cc.enc.ID = uuid.MustParse("11111111-2222-3333-4444-555555555555")
	cc.enc.BaseSeed = combat.SeedFromID(cc.enc.ID)

	for _, row := range table.Rows[1:] {
		fighters, err := strconv.Atoi(cellValue(table, row, "fighters"))
		if err != nil {
			return err
		}
		shields, err := strconv.Atoi(cellValue(table, row, "shields"))
		if err != nil {
			return err
		}
		id := cellValue(table, row, "id")
		if err := cc.enc.AddParticipant(&combat.Combatant{
			ID:           id,
			Kind:         combat.KindCharacter,
			Name:         id,
			Fighters:     fighters,
			Shields:      shields,
			MaxFighters:  fighters,
			MaxShields:   shields,
			TurnsPerWarp: 3,
			ShipID:       uuid.NewString(),
			PlayerType:   combat.PlayerTypeHuman,
		}); err != nil {
			return err
		}
	}

	deadline := cc.clock.Now().Add(30 * time.Second)
	cc.enc.Deadline = &deadline
	if cc.enc.Context != nil {
		for id := range cc.enc.Participants {
			cc.enc.Context.InitiatorID = id
			break
		}
	}
	return nil
}

func (cc *combatRoundContext) submitsAFleeAction(id string) error {
	action := &combat.RoundAction{Type: combat.ActionFlee, SubmittedAt: cc.clock.Now()}
	cc.submitted[id] = action
	return cc.enc.SubmitAction(id, action)
}

func (cc *combatRoundContext) submitsAnAttack(id, targetID string, commit int) error {
	action := &combat.RoundAction{
		Type:        combat.ActionAttack,
		TargetID:    targetID,
		Commit:      commit,
		SubmittedAt: cc.clock.Now(),
	}
	cc.submitted[id] = action
	return cc.enc.SubmitAction(id, action)
}

func (cc *combatRoundContext) theRoundResolvesWithNoSubmittedActions() error {
	cc.outcome = combat.ResolveRound(cc.enc, map[string]*combat.RoundAction{}, nil)
	return nil
}

func (cc *combatRoundContext) theRoundResolves() error {
	cc.outcome = combat.ResolveRound(cc.enc, cc.submitted, nil)
	return nil
}

func (cc *combatRoundContext) everyEffectiveActionIs(actionType string) error {
	for id, a := range cc.outcome.EffectiveActions {
		if string(a.Type) != actionType {
			return fmt.Errorf("expected %s for %s, got %s", actionType, id, a.Type)
		}
	}
	return nil
}

func (cc *combatRoundContext) theRoundEndsWith(endState string) error {
	if cc.outcome.EndState != endState {
		return fmt.Errorf("expected end state %q, got %q", endState, cc.outcome.EndState)
	}
	return nil
}

func (cc *combatRoundContext) noParticipantLosesFighters() error {
	for id, p := range cc.enc.Participants {
		if cc.outcome.FightersRemaining[id] != p.Fighters {
			return fmt.Errorf("%s lost fighters: %d -> %d", id, p.Fighters, cc.outcome.FightersRemaining[id])
		}
	}
	return nil
}

func (cc *combatRoundContext) fleesSuccessfully(id string) error {
	if !cc.outcome.FleeSuccess[id] {
		return fmt.Errorf("expected %s to flee successfully", id)
	}
	return nil
}

func (cc *combatRoundContext) hasFightersRemaining(id string, fighters int) error {
	if cc.outcome.FightersRemaining[id] != fighters {
		return fmt.Errorf("expected %d fighters for %s, got %d", fighters, id, cc.outcome.FightersRemaining[id])
	}
	return nil
}

func (cc *combatRoundContext) theEffectiveActionOfIs(id, actionType string) error {
	var a *combat.RoundAction
	if cc.outcome != nil {
		a = cc.outcome.EffectiveActions[id]
	}
	if a == nil && cc.effective != nil {
		a = cc.effective[id]
	}
	if a == nil {
		return fmt.Errorf("no effective action for %s", id)
	}
	if string(a.Type) != actionType {
		return fmt.Errorf("expected %s for %s, got %s", actionType, id, a.Type)
	}
	return nil
}

func (cc *combatRoundContext) theOutcomeIsApplied(regen, timeoutSeconds int) error {
	return cc.enc.ApplyOutcome(cc.outcome, regen, cc.clock, time.Duration(timeoutSeconds)*time.Second)
}

func (cc *combatRoundContext) theEncounterIsOnRound(round int) error {
	if cc.enc.Round != round {
		return fmt.Errorf("expected round %d, got %d", round, cc.enc.Round)
	}
	return nil
}

func (cc *combatRoundContext) theEncounterHasADeadline() error {
	if cc.enc.Deadline == nil {
		return fmt.Errorf("expected a deadline")
	}
	return nil
}

func (cc *combatRoundContext) pendingActionsAreCleared() error {
	if len(cc.enc.PendingActions) != 0 {
		return fmt.Errorf("expected no pending actions, got %d", len(cc.enc.PendingActions))
	}
	return nil
}

func (cc *combatRoundContext) effectiveActionsAreComputedAfterTheDeadline() error {
	cc.effective = cc.enc.EffectiveActions(cc.clock.Now().Add(time.Minute))
	return nil
}

func (cc *combatRoundContext) theActionOfIsMarkedTimedOut(id string) error {
	a := cc.effective[id]
	if a == nil {
		return fmt.Errorf("no effective action for %s", id)
	}
	if !a.TimedOut {
		return fmt.Errorf("expected the action of %s to be marked timed out", id)
	}
	return nil
}

// InitializeCombatRoundScenario registers round resolution steps
func InitializeCombatRoundScenario(sc *godog.ScenarioContext) {
	cc := &combatRoundContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		cc.reset()
		return ctx, nil
	})

	sc.Step(`^an encounter in sector (\d+) with participants:$`, cc.anEncounterInSectorWithParticipants)
	sc.Step(`^"([^"]*)" submits a flee action$`, cc.submitsAFleeAction)
	sc.Step(`^"([^"]*)" submits an attack on "([^"]*)" committing (\d+) fighters$`, cc.submitsAnAttack)
	sc.Step(`^the round resolves with no submitted actions$`, cc.theRoundResolvesWithNoSubmittedActions)
	sc.Step(`^the round resolves$`, cc.theRoundResolves)
	sc.Step(`^every effective action is "([^"]*)"$`, cc.everyEffectiveActionIs)
	sc.Step(`^the round ends with "([^"]*)"$`, cc.theRoundEndsWith)
	sc.Step(`^no participant loses fighters$`, cc.noParticipantLosesFighters)
	sc.Step(`^"([^"]*)" flees successfully$`, cc.fleesSuccessfully)
	sc.Step(`^"([^"]*)" has (\d+) fighters remaining$`, cc.hasFightersRemaining)
	sc.Step(`^the effective action of "([^"]*)" is "([^"]*)"$`, cc.theEffectiveActionOfIs)
	sc.Step(`^the outcome is applied with shield regeneration (\d+) and a (\d+) second round timeout$`, cc.theOutcomeIsApplied)
	sc.Step(`^the encounter is on round (\d+)$`, cc.theEncounterIsOnRound)
	sc.Step(`^the encounter has a deadline$`, cc.theEncounterHasADeadline)
	sc.Step(`^pending actions are cleared$`, cc.pendingActionsAreCleared)
	sc.Step(`^effective actions are computed after the deadline$`, cc.effectiveActionsAreComputedAfterTheDeadline)
	sc.Step(`^the action of "([^"]*)" is marked timed out$`, cc.theActionOfIsMarkedTimedOut)
}

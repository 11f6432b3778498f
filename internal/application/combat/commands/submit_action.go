package commands

import (
	"context"
	"fmt"

	"github.com/avelasquez/quadrant-go/internal/application/common"
	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/event"
	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/sector"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// SubmitActionHandler records a combatant's round intent. A pay action
// additionally settles the toll with every toll garrison in the encounter.
type SubmitActionHandler struct {
	encounters combat.EncounterRepository
	locker     combat.SectorLocker
	rounds     *RoundService
	characters player.CharacterRepository
	garrisons  sector.GarrisonRepository
	limiter    common.RateLimiter
	emitter    errorEmitter
	clock      shared.Clock
}

// NewSubmitActionHandler creates a submit-action handler
func NewSubmitActionHandler(
	encounters combat.EncounterRepository,
	locker combat.SectorLocker,
	rounds *RoundService,
	characters player.CharacterRepository,
	garrisons sector.GarrisonRepository,
	limiter common.RateLimiter,
	emitter errorEmitter,
	clock shared.Clock,
) *SubmitActionHandler {
	return &SubmitActionHandler{
		encounters: encounters,
		locker:     locker,
		rounds:     rounds,
		characters: characters,
		garrisons:  garrisons,
		limiter:    limiter,
		emitter:    emitter,
		clock:      clock,
	}
}

// Handle executes the submit-action command
func (h *SubmitActionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SubmitActionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	source := event.NewSourceStamp("combat.action", h.clock.Now())

	if err := h.validate(cmd); err != nil {
		h.emitter.EmitError(ctx, cmd.ActorID, "combat.action", err, source)
		return nil, err
	}

	unlock, err := h.locker.Lock(ctx, cmd.SectorID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	enc, err := h.encounters.FindActiveBySector(ctx, cmd.SectorID)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, shared.NewStateConflictError("sector has no active combat")
	}
	if _, ok := enc.Participants[cmd.ActorID]; !ok {
		return nil, shared.NewStateConflictError("actor is not part of this encounter")
	}

	action := &combat.RoundAction{
		Type:        combat.ActionType(cmd.Action),
		Commit:      cmd.Commit,
		TargetID:    cmd.TargetID,
		Destination: cmd.Destination,
		SubmittedAt: h.clock.Now(),
	}

	if action.Type == combat.ActionPay {
		if err := h.settleTolls(ctx, enc, cmd.ActorID); err != nil {
			h.emitter.EmitError(ctx, cmd.ActorID, "combat.action", err, source)
			return nil, err
		}
	}

	if err := enc.SubmitAction(cmd.ActorID, action); err != nil {
		return nil, err
	}
	if err := h.encounters.Save(ctx, enc); err != nil {
		return nil, err
	}

	resolved := false
	if enc.AllLiveCharactersSubmitted() {
		if _, err := h.rounds.Resolve(ctx, enc, enc.Round, source); err != nil {
			return nil, err
		}
		resolved = true
	}

	return &SubmitActionResponse{
		CombatID:  enc.ID,
		Round:     enc.Round,
		Resolved:  resolved,
		RequestID: source.RequestID,
	}, nil
}

func (h *SubmitActionHandler) validate(cmd *SubmitActionCommand) error {
	if err := h.limiter.Check(cmd.ActorID, "combat.action"); err != nil {
		return err
	}
	if !combat.IsValidActionType(cmd.Action) {
		return shared.NewCallerError("action", "unknown action: "+cmd.Action)
	}
	if combat.ActionType(cmd.Action) != combat.ActionAttack && cmd.Commit != 0 {
		return shared.NewCallerError("commit", "fighter commit is only valid for attack")
	}
	if combat.ActionType(cmd.Action) == combat.ActionAttack && cmd.TargetID == cmd.ActorID {
		return shared.NewCallerError("target_id", "cannot attack yourself")
	}
	return nil
}

// settleTolls moves the toll amount from the payer to each unpaid toll
// garrison and marks the payment in the encounter's registry.
func (h *SubmitActionHandler) settleTolls(ctx context.Context, enc *combat.Encounter, actorID string) error {
	character, err := h.characters.FindByID(ctx, actorID)
	if err != nil {
		return err
	}

	for _, p := range enc.Participants {
		if !p.IsGarrison() || p.Mode != combat.GarrisonToll {
			continue
		}
		if enc.Context.Tolls.HasPaid(p.OwnerID, actorID) {
			continue
		}

		g, err := h.garrisons.FindByOwner(ctx, enc.SectorID, p.OwnerID)
		if err != nil || g == nil {
			continue
		}
		if character.Credits < g.TollAmount {
			return shared.NewCallerError("credits", "insufficient credits to pay toll")
		}

		character.Credits -= g.TollAmount
		g.TollBalance += g.TollAmount
		if err := h.garrisons.Save(ctx, g); err != nil {
			return err
		}
		enc.Context.Tolls.MarkPaid(p.OwnerID, actorID)
	}

	return h.characters.Save(ctx, character)
}

package commands

import (
	"context"
	"fmt"

	"github.com/avelasquez/quadrant-go/internal/application/common"
	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/event"
	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// EngageHandler handles attack submissions, creating the sector's encounter
// when none is active.
type EngageHandler struct {
	encounters combat.EncounterRepository
	locker     combat.SectorLocker
	rounds     *RoundService
	characters player.CharacterRepository
	ships      ship.Repository
	limiter    common.RateLimiter
	authorizer common.Authorizer
	emitter    errorEmitter
	clock      shared.Clock
}

type errorEmitter interface {
	EmitError(ctx context.Context, characterID, endpoint string, cause error, source event.SourceStamp)
}

// NewEngageHandler creates an engage handler
func NewEngageHandler(
	encounters combat.EncounterRepository,
	locker combat.SectorLocker,
	rounds *RoundService,
	characters player.CharacterRepository,
	ships ship.Repository,
	limiter common.RateLimiter,
	authorizer common.Authorizer,
	emitter errorEmitter,
	clock shared.Clock,
) *EngageHandler {
	return &EngageHandler{
		encounters: encounters,
		locker:     locker,
		rounds:     rounds,
		characters: characters,
		ships:      ships,
		limiter:    limiter,
		authorizer: authorizer,
		emitter:    emitter,
		clock:      clock,
	}
}

// Handle executes the engage command
func (h *EngageHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*EngageCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	source := event.NewSourceStamp("combat.engage", h.clock.Now())

	if err := h.validate(ctx, cmd); err != nil {
		h.emitter.EmitError(ctx, cmd.ActorID, "combat.engage", err, source)
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
		enc, err = h.rounds.CreateEncounter(ctx, cmd.SectorID, cmd.ActorID, combat.ReasonAttack, source)
		if err != nil {
			return nil, err
		}
	}

	if _, ok := enc.Participants[cmd.ActorID]; !ok {
		return nil, shared.NewStateConflictError("actor is not a combatant in this sector")
	}
	if _, ok := enc.Participants[cmd.TargetID]; !ok {
		err := shared.NewCallerError("target_id", "target is not a combatant in this sector")
		h.emitter.EmitError(ctx, cmd.ActorID, "combat.engage", err, source)
		return nil, err
	}

	action := &combat.RoundAction{
		Type:        combat.ActionAttack,
		Commit:      cmd.Commit,
		TargetID:    cmd.TargetID,
		SubmittedAt: h.clock.Now(),
	}
	if err := enc.SubmitAction(cmd.ActorID, action); err != nil {
		return nil, err
	}
	if err := h.encounters.Save(ctx, enc); err != nil {
		return nil, err
	}

	if enc.AllLiveCharactersSubmitted() {
		if _, err := h.rounds.Resolve(ctx, enc, enc.Round, source); err != nil {
			return nil, err
		}
	}

	return &EngageResponse{CombatID: enc.ID, Round: enc.Round, RequestID: source.RequestID}, nil
}

func (h *EngageHandler) validate(ctx context.Context, cmd *EngageCommand) error {
	if err := h.limiter.Check(cmd.ActorID, "combat.engage"); err != nil {
		return err
	}
	if cmd.TargetID == "" {
		return shared.NewCallerError("target_id", "attack requires a target")
	}
	if cmd.TargetID == cmd.ActorID {
		return shared.NewCallerError("target_id", "cannot attack yourself")
	}
	if cmd.Commit <= 0 {
		return shared.NewCallerError("commit", "attack requires a positive fighter commit")
	}

	character, err := h.characters.FindByID(ctx, cmd.ActorID)
	if err != nil {
		return err
	}
	if character.CurrentShipID == nil {
		return shared.NewStateConflictError("actor has no ship")
	}
	row, err := h.ships.FindByID(ctx, *character.CurrentShipID)
	if err != nil {
		return err
	}
	return h.authorizer.Authorize(ctx, cmd.ActorID, row, cmd.AdminOverride)
}

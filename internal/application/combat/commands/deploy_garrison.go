package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avelasquez/quadrant-go/internal/application/combat/services"
	"github.com/avelasquez/quadrant-go/internal/application/common"
	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/event"
	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/sector"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// DeployGarrisonHandler stations fighters from the actor's ship in the
// sector. Federation space rejects deployment; an offensive deployment with
// an eligible enemy present opens combat immediately.
type DeployGarrisonHandler struct {
	encounters combat.EncounterRepository
	locker     combat.SectorLocker
	rounds     *RoundService
	loader     *services.ParticipantLoader
	characters player.CharacterRepository
	ships      ship.Repository
	garrisons  sector.GarrisonRepository
	mapService sector.MapService
	limiter    common.RateLimiter
	emitter    errorEmitter
	clock      shared.Clock
}

// NewDeployGarrisonHandler creates a deploy-garrison handler
func NewDeployGarrisonHandler(
	encounters combat.EncounterRepository,
	locker combat.SectorLocker,
	rounds *RoundService,
	loader *services.ParticipantLoader,
	characters player.CharacterRepository,
	ships ship.Repository,
	garrisons sector.GarrisonRepository,
	mapService sector.MapService,
	limiter common.RateLimiter,
	emitter errorEmitter,
	clock shared.Clock,
) *DeployGarrisonHandler {
	return &DeployGarrisonHandler{
		encounters: encounters,
		locker:     locker,
		rounds:     rounds,
		loader:     loader,
		characters: characters,
		ships:      ships,
		garrisons:  garrisons,
		mapService: mapService,
		limiter:    limiter,
		emitter:    emitter,
		clock:      clock,
	}
}

// Handle executes the deploy-garrison command
func (h *DeployGarrisonHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeployGarrisonCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	source := event.NewSourceStamp("garrison.deploy", h.clock.Now())

	if err := h.validate(ctx, cmd); err != nil {
		h.emitter.EmitError(ctx, cmd.ActorID, "garrison.deploy", err, source)
		return nil, err
	}

	character, err := h.characters.FindByID(ctx, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	if character.CurrentShipID == nil {
		return nil, shared.NewStateConflictError("actor has no ship")
	}
	row, err := h.ships.FindByID(ctx, *character.CurrentShipID)
	if err != nil {
		return nil, err
	}
	if row.SectorID != cmd.SectorID {
		return nil, shared.NewStateConflictError("ship is not in the target sector")
	}

	unlock, err := h.locker.Lock(ctx, cmd.SectorID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := h.takeFighters(ctx, row, cmd.Fighters); err != nil {
		h.emitter.EmitError(ctx, cmd.ActorID, "garrison.deploy", err, source)
		return nil, err
	}

	g, err := h.garrisons.FindByOwner(ctx, cmd.SectorID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		g = &sector.Garrison{
			SectorID:           cmd.SectorID,
			OwnerID:            cmd.ActorID,
			OwnerName:          character.Name,
			OwnerCorporationID: character.CorporationID,
			DeployedAt:         h.clock.Now(),
		}
	}
	g.Mode = combat.GarrisonMode(cmd.Mode)
	g.Fighters += cmd.Fighters
	g.TollAmount = cmd.TollAmount
	if err := h.garrisons.Save(ctx, g); err != nil {
		return nil, err
	}

	response := &DeployGarrisonResponse{RequestID: source.RequestID}

	if g.Mode == combat.GarrisonOffensive {
		combatID, err := h.maybeOpenCombat(ctx, cmd, g, source)
		if err != nil {
			return nil, err
		}
		response.CombatID = combatID
	}

	return response, nil
}

func (h *DeployGarrisonHandler) validate(ctx context.Context, cmd *DeployGarrisonCommand) error {
	if err := h.limiter.Check(cmd.ActorID, "garrison.deploy"); err != nil {
		return err
	}

	switch combat.GarrisonMode(cmd.Mode) {
	case combat.GarrisonOffensive, combat.GarrisonDefensive, combat.GarrisonToll:
	default:
		return shared.NewCallerError("mode", "unknown garrison mode: "+cmd.Mode)
	}
	if cmd.Fighters <= 0 {
		return shared.NewCallerError("fighters", "deployment requires a positive fighter count")
	}
	if combat.GarrisonMode(cmd.Mode) == combat.GarrisonToll && cmd.TollAmount <= 0 {
		return shared.NewCallerError("toll_amount", "toll garrisons require a positive toll")
	}

	federation, err := h.mapService.IsFederationSpace(ctx, cmd.SectorID)
	if err != nil {
		return err
	}
	if federation {
		return shared.NewCallerError("sector_id", "garrisons cannot be deployed in federation space")
	}
	return nil
}

func (h *DeployGarrisonHandler) takeFighters(ctx context.Context, row *ship.Ship, count int) error {
	if row.Fighters == nil || *row.Fighters < count {
		return shared.NewCallerError("fighters", "ship does not carry enough fighters")
	}
	row.SetFighters(*row.Fighters - count)
	return h.ships.Save(ctx, row)
}

// maybeOpenCombat starts an encounter when the fresh offensive garrison has
// at least one eligible enemy in the sector.
func (h *DeployGarrisonHandler) maybeOpenCombat(ctx context.Context, cmd *DeployGarrisonCommand, g *sector.Garrison, source event.SourceStamp) (*uuid.UUID, error) {
	enc, err := h.encounters.FindActiveBySector(ctx, cmd.SectorID)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		return &enc.ID, nil
	}

	participants, err := h.loader.Load(ctx, cmd.SectorID)
	if err != nil {
		return nil, err
	}
	garrisonCombatant := g.Combatant()
	hostile := false
	for _, p := range participants {
		if p.IsCharacter() && !garrisonCombatant.SameSide(p) {
			hostile = true
			break
		}
	}
	if !hostile {
		return nil, nil
	}

	enc, err = h.rounds.CreateEncounter(ctx, cmd.SectorID, cmd.ActorID, combat.ReasonGarrisonDeploy, source)
	if err != nil {
		return nil, err
	}
	return &enc.ID, nil
}

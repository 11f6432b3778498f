package commands

import (
	"context"
	"fmt"

	"github.com/avelasquez/quadrant-go/internal/application/combat/services"
	"github.com/avelasquez/quadrant-go/internal/application/common"
	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/event"
	"github.com/avelasquez/quadrant-go/internal/domain/sector"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// ArriveInSectorHandler reacts to a character entering a sector: joins them
// into an active encounter at the next round, or starts one when a hostile
// garrison auto-engages.
type ArriveInSectorHandler struct {
	encounters combat.EncounterRepository
	locker     combat.SectorLocker
	rounds     *RoundService
	loader     *services.ParticipantLoader
	garrisons  sector.GarrisonRepository
	clock      shared.Clock
}

// NewArriveInSectorHandler creates an arrival handler
func NewArriveInSectorHandler(
	encounters combat.EncounterRepository,
	locker combat.SectorLocker,
	rounds *RoundService,
	loader *services.ParticipantLoader,
	garrisons sector.GarrisonRepository,
	clock shared.Clock,
) *ArriveInSectorHandler {
	return &ArriveInSectorHandler{
		encounters: encounters,
		locker:     locker,
		rounds:     rounds,
		loader:     loader,
		garrisons:  garrisons,
		clock:      clock,
	}
}

// Handle executes the arrival command
func (h *ArriveInSectorHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ArriveInSectorCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	source := event.NewSourceStamp("sector.arrive", h.clock.Now())

	unlock, err := h.locker.Lock(ctx, cmd.SectorID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	enc, err := h.encounters.FindActiveBySector(ctx, cmd.SectorID)
	if err != nil {
		return nil, err
	}

	if enc != nil {
		return h.autoJoin(ctx, enc, cmd, source)
	}

	engage, err := h.hostileGarrisonPresent(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if !engage {
		return &ArriveInSectorResponse{RequestID: source.RequestID}, nil
	}

	enc, err = h.rounds.CreateEncounter(ctx, cmd.SectorID, cmd.CharacterID, combat.ReasonAutoEngage, source)
	if err != nil {
		return nil, err
	}
	return &ArriveInSectorResponse{CombatID: &enc.ID, Joined: true, RequestID: source.RequestID}, nil
}

// autoJoin adds the arrival as a participant for the next round. Only the
// joining character is told; the encounter's round and deadline are
// untouched.
func (h *ArriveInSectorHandler) autoJoin(ctx context.Context, enc *combat.Encounter, cmd *ArriveInSectorCommand, source event.SourceStamp) (common.Response, error) {
	if _, already := enc.Participants[cmd.CharacterID]; already {
		return &ArriveInSectorResponse{CombatID: &enc.ID, RequestID: source.RequestID}, nil
	}

	participants, err := h.loader.Load(ctx, cmd.SectorID)
	if err != nil {
		return nil, err
	}

	for _, p := range participants {
		if p.ID != cmd.CharacterID {
			continue
		}
		if err := enc.AddParticipant(p); err != nil {
			return nil, err
		}
		if err := h.encounters.Save(ctx, enc); err != nil {
			return nil, err
		}
		h.rounds.EmitRoundWaitingTo(ctx, enc, cmd.CharacterID, source)
		return &ArriveInSectorResponse{CombatID: &enc.ID, Joined: true, RequestID: source.RequestID}, nil
	}

	return &ArriveInSectorResponse{CombatID: &enc.ID, RequestID: source.RequestID}, nil
}

// hostileGarrisonPresent reports whether the sector holds an offensive or
// toll garrison that is not friendly to the arrival.
func (h *ArriveInSectorHandler) hostileGarrisonPresent(ctx context.Context, cmd *ArriveInSectorCommand) (bool, error) {
	garrisons, err := h.garrisons.FindBySector(ctx, cmd.SectorID)
	if err != nil {
		return false, err
	}

	participants, err := h.loader.Load(ctx, cmd.SectorID)
	if err != nil {
		return false, err
	}
	var arrival *combat.Combatant
	for _, p := range participants {
		if p.ID == cmd.CharacterID {
			arrival = p
			break
		}
	}
	if arrival == nil {
		return false, nil
	}

	for _, g := range garrisons {
		if g.Fighters <= 0 {
			continue
		}
		if g.Mode != combat.GarrisonOffensive && g.Mode != combat.GarrisonToll {
			continue
		}
		if !g.Combatant().SameSide(arrival) {
			return true, nil
		}
	}
	return false, nil
}

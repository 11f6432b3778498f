package commands

import (
	"context"
	"fmt"
	"log"

	"github.com/avelasquez/quadrant-go/internal/application/combat/services"
	"github.com/avelasquez/quadrant-go/internal/application/common"
	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/event"
	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/sector"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
)

// ClaimSalvageHandler transfers a wreck's cargo and credits to the claiming
// ship. Cargo moves up to the ship's free holds; scrap is sold for credits on
// the spot. Claims race under the sector lock, so a wreck is claimed at most
// once.
type ClaimSalvageHandler struct {
	salvage    sector.SalvageRepository
	characters player.CharacterRepository
	ships      ship.Repository
	catalog    ship.TemplateCatalog
	locker     combat.SectorLocker
	limiter    common.RateLimiter
	emitter    *services.Emitter
	clock      shared.Clock
}

// NewClaimSalvageHandler creates a claim-salvage handler
func NewClaimSalvageHandler(
	salvage sector.SalvageRepository,
	characters player.CharacterRepository,
	ships ship.Repository,
	catalog ship.TemplateCatalog,
	locker combat.SectorLocker,
	limiter common.RateLimiter,
	emitter *services.Emitter,
	clock shared.Clock,
) *ClaimSalvageHandler {
	return &ClaimSalvageHandler{
		salvage:    salvage,
		characters: characters,
		ships:      ships,
		catalog:    catalog,
		locker:     locker,
		limiter:    limiter,
		emitter:    emitter,
		clock:      clock,
	}
}

// Handle executes the claim-salvage command
func (h *ClaimSalvageHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ClaimSalvageCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	source := event.NewSourceStamp("salvage.claim", h.clock.Now())

	if err := h.limiter.Check(cmd.ActorID, "salvage.claim"); err != nil {
		h.emitter.EmitError(ctx, cmd.ActorID, "salvage.claim", err, source)
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

	s, err := h.salvage.FindByID(ctx, cmd.SalvageID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, shared.NewStateConflictError("salvage does not exist")
	}
	if s.SectorID != row.SectorID {
		return nil, shared.NewStateConflictError("salvage is not in the ship's sector")
	}

	unlock, err := h.locker.Lock(ctx, s.SectorID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Re-read under the lock; a concurrent claim may have won the race
	s, err = h.salvage.FindByID(ctx, cmd.SalvageID)
	if err != nil {
		return nil, err
	}
	if s == nil || !s.Claimable(h.clock.Now()) {
		return nil, shared.NewStateConflictError("salvage has already been claimed or expired")
	}

	h.loadCargo(row, s)
	character.Credits += s.Credits + s.Scrap
	s.Claimed = true

	if err := h.ships.Save(ctx, row); err != nil {
		return nil, err
	}
	if err := h.characters.Save(ctx, character); err != nil {
		return nil, err
	}
	if err := h.salvage.Save(ctx, s); err != nil {
		return nil, err
	}

	h.emitClaimed(ctx, s, character, source)

	return &ClaimSalvageResponse{
		Credits:   s.Credits,
		Scrap:     s.Scrap,
		RequestID: source.RequestID,
	}, nil
}

// loadCargo moves salvage cargo into the ship's holds, commodity by commodity
// in canonical order, until the holds are full. Whatever does not fit stays
// with the claimed wreck.
func (h *ClaimSalvageHandler) loadCargo(row *ship.Ship, s *sector.Salvage) {
	tpl, err := h.catalog.Template(row.Type)
	if err != nil {
		return
	}

	used := 0
	for _, units := range row.Cargo {
		used += units
	}
	free := tpl.CargoHolds - used
	if free <= 0 {
		return
	}

	if row.Cargo == nil {
		row.Cargo = make(map[ship.Commodity]int)
	}
	for _, commodity := range ship.Commodities() {
		units := s.Cargo[commodity]
		if units <= 0 {
			continue
		}
		if units > free {
			units = free
		}
		row.Cargo[commodity] += units
		s.Cargo[commodity] -= units
		free -= units
		if free == 0 {
			return
		}
	}
}

func (h *ClaimSalvageHandler) emitClaimed(ctx context.Context, s *sector.Salvage, character *player.Character, source event.SourceStamp) {
	payload := services.SalvageEntry(s)
	payload["source"] = source.Payload()
	payload["claimed_by"] = character.Name
	payload["sector"] = map[string]interface{}{"id": s.SectorID}

	ev := &event.GameEvent{
		Type:             event.TypeSalvageClaimed,
		Scope:            event.ScopeSector,
		SectorID:         &s.SectorID,
		ActorCharacterID: character.ID,
		Payload:          payload,
		Source:           source,
	}
	if _, err := h.emitter.Emit(ctx, ev, event.RecipientSpec{SectorID: &s.SectorID}); err != nil {
		log.Printf("salvage: failed to emit salvage.claimed for %s: %v", s.ID, err)
	}
}

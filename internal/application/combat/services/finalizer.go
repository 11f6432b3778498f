package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/sector"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// Finalizer converts a terminal round outcome into persistent world changes:
// salvage entries, escape-pod conversions, corporation-ship teardown,
// garrison row sync, and fleer relocation.
//
// Corporation-ship teardown is split in two: the ship row is zeroed first so
// combat.ended payloads can describe the destroyed state, and the destructive
// deletions are queued for after event emission. Callers must run the
// deferred deletions unconditionally.
type Finalizer struct {
	ships      ship.Repository
	characters player.CharacterRepository
	garrisons  sector.GarrisonRepository
	salvage    sector.SalvageRepository
	catalog    ship.TemplateCatalog
	mapService sector.MapService
	clock      shared.Clock
	salvageTTL time.Duration
}

// NewFinalizer creates a finalizer
func NewFinalizer(
	ships ship.Repository,
	characters player.CharacterRepository,
	garrisons sector.GarrisonRepository,
	salvage sector.SalvageRepository,
	catalog ship.TemplateCatalog,
	mapService sector.MapService,
	clock shared.Clock,
	salvageTTL time.Duration,
) *Finalizer {
	return &Finalizer{
		ships:      ships,
		characters: characters,
		garrisons:  garrisons,
		salvage:    salvage,
		catalog:    catalog,
		mapService: mapService,
		clock:      clock,
		salvageTTL: salvageTTL,
	}
}

// DestroyedShip describes one defeated hull for ship.destroyed emission
type DestroyedShip struct {
	ShipID         uuid.UUID
	ShipType       string
	ShipName       string
	PlayerType     combat.PlayerType
	PlayerName     string
	CorporationID  string
	SalvageCreated bool
}

// DeferredDeletion is one queued corporation-ship teardown
type DeferredDeletion struct {
	ShipID            uuid.UUID
	PseudoCharacterID string
}

// FinalizationResult carries everything the caller needs for event emission
// and the guaranteed deletion pass.
type FinalizationResult struct {
	Salvage   []*sector.Salvage
	Destroyed []*DestroyedShip
	Deferred  []DeferredDeletion
}

// Apply mutates persisted state for a terminal outcome. Per-combatant
// failures are logged and skipped so one orphan row cannot wedge the whole
// finalization.
func (f *Finalizer) Apply(ctx context.Context, enc *combat.Encounter, outcome *combat.RoundOutcome) *FinalizationResult {
	result := &FinalizationResult{}

	for _, id := range sortedParticipantIDs(enc) {
		p := enc.Participants[id]
		if p.IsGarrison() {
			f.syncGarrison(ctx, enc, p, outcome)
			continue
		}
		if !outcome.Defeated(id) {
			continue
		}
		f.finalizeDefeatedShip(ctx, p, result)
	}

	return result
}

func (f *Finalizer) finalizeDefeatedShip(ctx context.Context, p *combat.Combatant, result *FinalizationResult) {
	shipID, err := uuid.Parse(p.ShipID)
	if err != nil {
		log.Printf("finalize: combatant %s has invalid ship id %q", p.ID, p.ShipID)
		return
	}

	s, err := f.ships.FindByID(ctx, shipID)
	if err != nil {
		log.Printf("finalize: ship %s not found for defeated combatant %s: %v", shipID, p.ID, err)
		return
	}

	destroyed := &DestroyedShip{
		ShipID:        s.ID,
		ShipType:      s.Type,
		ShipName:      s.Name,
		PlayerType:    p.PlayerType,
		PlayerName:    p.Name,
		CorporationID: p.CorporationID,
	}

	if salvage := f.buildSalvage(ctx, s); salvage != nil {
		result.Salvage = append(result.Salvage, salvage)
		destroyed.SalvageCreated = true
	}

	if s.IsCorporationOwned() {
		// Zero the hull but leave the row in place so combat.ended can
		// describe the destroyed state; deletion runs after emission.
		s.SetFighters(0)
		s.SetShields(0)
		s.Destroyed = true
		if err := f.ships.Save(ctx, s); err != nil {
			log.Printf("finalize: failed to persist destroyed corp ship %s: %v", s.ID, err)
		}
		result.Deferred = append(result.Deferred, DeferredDeletion{
			ShipID:            s.ID,
			PseudoCharacterID: p.ID,
		})
	} else {
		s.ConvertToEscapePod()
		if err := f.ships.Save(ctx, s); err != nil {
			log.Printf("finalize: failed to persist escape pod %s: %v", s.ID, err)
		}
	}

	result.Destroyed = append(result.Destroyed, destroyed)
}

func (f *Finalizer) buildSalvage(ctx context.Context, s *ship.Ship) *sector.Salvage {
	tpl, err := f.catalog.Template(s.Type)
	if err != nil {
		log.Printf("finalize: no template for destroyed ship %s (%s): %v", s.ID, s.Type, err)
		return nil
	}

	salvage := sector.NewSalvage(s, tpl, f.clock.Now(), f.salvageTTL)
	if err := f.salvage.Append(ctx, salvage); err != nil {
		log.Printf("finalize: failed to append salvage for ship %s: %v", s.ID, err)
		return nil
	}
	return salvage
}

func (f *Finalizer) syncGarrison(ctx context.Context, enc *combat.Encounter, p *combat.Combatant, outcome *combat.RoundOutcome) {
	remaining, ok := outcome.FightersRemaining[p.ID]
	if !ok {
		return
	}

	g, err := f.garrisons.FindByOwner(ctx, enc.SectorID, p.OwnerID)
	if err != nil || g == nil {
		return
	}

	if remaining <= 0 {
		if err := f.garrisons.Delete(ctx, enc.SectorID, p.OwnerID); err != nil {
			log.Printf("finalize: failed to delete exhausted garrison %s: %v", p.ID, err)
		}
		return
	}

	g.Fighters = remaining
	if err := f.garrisons.Save(ctx, g); err != nil {
		log.Printf("finalize: failed to update garrison %s: %v", p.ID, err)
	}
}

// FleeingCharacters returns the character combatants whose flee succeeded
// this round, in stable id order. Callers snapshot this before applying the
// outcome: application removes departed fleers from the encounter.
func FleeingCharacters(enc *combat.Encounter, outcome *combat.RoundOutcome) []*combat.Combatant {
	var fleers []*combat.Combatant
	for _, id := range sortedParticipantIDs(enc) {
		if !outcome.FleeSuccess[id] {
			continue
		}
		if p := enc.Participants[id]; p != nil && p.IsCharacter() {
			fleers = append(fleers, p)
		}
	}
	return fleers
}

// MoveFleers relocates each successful fleer's ship to its chosen
// destination, falling back to a uniformly-random adjacent sector. fleers is
// the pre-application snapshot from FleeingCharacters.
func (f *Finalizer) MoveFleers(ctx context.Context, enc *combat.Encounter, fleers []*combat.Combatant, outcome *combat.RoundOutcome) {
	rng := combat.NewTaggedStream(enc.BaseSeed, outcome.Round, "flee_destination")

	for _, p := range fleers {
		shipID, err := uuid.Parse(p.ShipID)
		if err != nil {
			continue
		}
		s, err := f.ships.FindByID(ctx, shipID)
		if err != nil {
			log.Printf("finalize: fleer %s ship %s not found: %v", p.ID, p.ShipID, err)
			continue
		}

		destination := 0
		if a := outcome.EffectiveActions[p.ID]; a != nil {
			destination = a.Destination
		}
		if destination == 0 {
			adjacent, err := f.mapService.AdjacentSectors(ctx, enc.SectorID)
			if err != nil || len(adjacent) == 0 {
				continue
			}
			destination = adjacent[rng.Intn(len(adjacent))]
		}

		s.SectorID = destination
		if err := f.ships.Save(ctx, s); err != nil {
			log.Printf("finalize: failed to move fleer ship %s: %v", s.ID, err)
		}
	}
}

// RunDeferredDeletions executes queued corporation-ship teardowns. Order per
// deletion: null the pseudo-character's ship reference, delete the
// pseudo-character, delete the ship row. Errors are logged; the loop never
// aborts early.
func (f *Finalizer) RunDeferredDeletions(ctx context.Context, deferred []DeferredDeletion) {
	for _, d := range deferred {
		if err := f.characters.ClearCurrentShip(ctx, d.PseudoCharacterID); err != nil {
			log.Printf("finalize: failed to clear ship ref for %s: %v", d.PseudoCharacterID, err)
		}
		if err := f.characters.Delete(ctx, d.PseudoCharacterID); err != nil {
			log.Printf("finalize: failed to delete pseudo-character %s: %v", d.PseudoCharacterID, err)
		}
		if err := f.ships.Delete(ctx, d.ShipID); err != nil {
			log.Printf("finalize: failed to delete corp ship %s: %v", d.ShipID, err)
		}
	}
}

package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/sector"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
)

// ParticipantLoader materializes combatant snapshots for a sector: every
// eligible piloted ship plus every garrison holding fighters.
type ParticipantLoader struct {
	ships      ship.Repository
	characters player.CharacterRepository
	garrisons  sector.GarrisonRepository
	catalog    ship.TemplateCatalog
	mapService sector.MapService
}

// NewParticipantLoader creates a participant loader
func NewParticipantLoader(
	ships ship.Repository,
	characters player.CharacterRepository,
	garrisons sector.GarrisonRepository,
	catalog ship.TemplateCatalog,
	mapService sector.MapService,
) *ParticipantLoader {
	return &ParticipantLoader{
		ships:      ships,
		characters: characters,
		garrisons:  garrisons,
		catalog:    catalog,
		mapService: mapService,
	}
}

// Load returns the ordered combatant list for a sector.
//
// A ship is included when it is in the sector, not in hyperspace, not
// destroyed, not an escape pod, owned by a character, and that character's
// current ship reference still points at it (stale pilots are skipped).
func (l *ParticipantLoader) Load(ctx context.Context, sectorID int) ([]*combat.Combatant, error) {
	if _, err := l.mapService.Region(ctx, sectorID); err != nil {
		return nil, err
	}

	ships, err := l.ships.FindBySector(ctx, sectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sector ships: %w", err)
	}

	var combatants []*combat.Combatant
	for _, s := range ships {
		if s.InHyperspace || s.Destroyed || s.IsEscapePod || s.OwnerCharacterID == "" {
			continue
		}

		character, err := l.characters.FindByID(ctx, s.OwnerCharacterID)
		if err != nil {
			continue
		}
		if !character.Pilots(s.ID) {
			continue
		}

		c, err := l.shipCombatant(s, character)
		if err != nil {
			return nil, err
		}
		combatants = append(combatants, c)
	}

	garrisons, err := l.garrisons.FindBySector(ctx, sectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sector garrisons: %w", err)
	}
	for _, g := range garrisons {
		if g.Fighters <= 0 {
			continue
		}
		combatants = append(combatants, g.Combatant())
	}

	sort.Slice(combatants, func(i, j int) bool { return combatants[i].ID < combatants[j].ID })
	return combatants, nil
}

func (l *ParticipantLoader) shipCombatant(s *ship.Ship, character *player.Character) (*combat.Combatant, error) {
	tpl, err := l.catalog.Template(s.Type)
	if err != nil {
		return nil, err
	}

	corpID := character.CorporationID
	playerType := combat.PlayerTypeHuman
	if s.IsCorporationOwned() {
		corpID = s.OwnerCorporationID
		playerType = combat.PlayerTypeCorporationShip
	}

	return &combat.Combatant{
		ID:            character.ID,
		Kind:          combat.KindCharacter,
		Name:          character.Name,
		Fighters:      s.CurrentFighters(tpl),
		Shields:       s.CurrentShields(tpl),
		MaxFighters:   tpl.MaxFighters,
		MaxShields:    tpl.MaxShields,
		TurnsPerWarp:  tpl.TurnsPerWarp,
		ShipID:        s.ID.String(),
		ShipType:      s.Type,
		CorporationID: corpID,
		PlayerType:    playerType,
		OwnerID:       ownerFor(s, character),
	}, nil
}

// corporation ships carry their pseudo-character as owner so garrisons of the
// same corporation treat them as friendly
func ownerFor(s *ship.Ship, character *player.Character) string {
	if s.IsCorporationOwned() {
		return character.ID
	}
	return ""
}

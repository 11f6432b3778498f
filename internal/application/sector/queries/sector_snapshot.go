package queries

import (
	"context"
	"sort"
	"time"

	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/sector"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
)

// SnapshotBuilder assembles the canonical per-sector public payload used by
// every sector.update event: ships with their owners, garrisons, non-expired
// salvage, the present players, unowned hulls, and the port summary.
type SnapshotBuilder struct {
	ships      ship.Repository
	characters player.CharacterRepository
	garrisons  sector.GarrisonRepository
	salvage    sector.SalvageRepository
	catalog    ship.TemplateCatalog
	mapService sector.MapService
	ports      sector.PortSummaryProvider
	clock      shared.Clock
}

// NewSnapshotBuilder creates a sector snapshot builder
func NewSnapshotBuilder(
	ships ship.Repository,
	characters player.CharacterRepository,
	garrisons sector.GarrisonRepository,
	salvage sector.SalvageRepository,
	catalog ship.TemplateCatalog,
	mapService sector.MapService,
	ports sector.PortSummaryProvider,
	clock shared.Clock,
) *SnapshotBuilder {
	return &SnapshotBuilder{
		ships:      ships,
		characters: characters,
		garrisons:  garrisons,
		salvage:    salvage,
		catalog:    catalog,
		mapService: mapService,
		ports:      ports,
		clock:      clock,
	}
}

// Build returns the canonical snapshot payload for a sector
func (b *SnapshotBuilder) Build(ctx context.Context, sectorID int) (map[string]interface{}, error) {
	region, err := b.mapService.Region(ctx, sectorID)
	if err != nil {
		return nil, err
	}

	ships, players, unowned, err := b.shipViews(ctx, sectorID)
	if err != nil {
		return nil, err
	}

	garrisons, err := b.garrisonViews(ctx, sectorID)
	if err != nil {
		return nil, err
	}

	salvage, err := b.salvageViews(ctx, sectorID)
	if err != nil {
		return nil, err
	}

	port, err := b.ports.PortSummary(ctx, sectorID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"sector":        map[string]interface{}{"id": sectorID, "region": region},
		"ships":         ships,
		"players":       players,
		"unowned_ships": unowned,
		"garrisons":     garrisons,
		"salvage":       salvage,
		"port":          port,
	}, nil
}

func (b *SnapshotBuilder) shipViews(ctx context.Context, sectorID int) (ships, players, unowned []map[string]interface{}, err error) {
	rows, err := b.ships.FindBySector(ctx, sectorID)
	if err != nil {
		return nil, nil, nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID.String() < rows[j].ID.String() })

	for _, s := range rows {
		if s.Destroyed {
			continue
		}
		view := b.shipView(s)

		if s.OwnerCharacterID == "" {
			unowned = append(unowned, view)
			continue
		}

		owner, err := b.characters.FindByID(ctx, s.OwnerCharacterID)
		if err != nil {
			// orphan owner reference; the hull is still visible
			unowned = append(unowned, view)
			continue
		}

		view["owner"] = map[string]interface{}{
			"id":             owner.ID,
			"name":           owner.Name,
			"type":           string(owner.Type),
			"corporation_id": owner.CorporationID,
		}
		ships = append(ships, view)

		if owner.Pilots(s.ID) && !s.InHyperspace {
			players = append(players, map[string]interface{}{
				"id":      owner.ID,
				"name":    owner.Name,
				"type":    string(owner.Type),
				"ship_id": s.ID.String(),
			})
		}
	}
	return ships, players, unowned, nil
}

func (b *SnapshotBuilder) shipView(s *ship.Ship) map[string]interface{} {
	view := map[string]interface{}{
		"ship_id":       s.ID.String(),
		"name":          s.Name,
		"type":          s.Type,
		"is_escape_pod": s.IsEscapePod,
		"in_hyperspace": s.InHyperspace,
	}
	if tpl, err := b.catalog.Template(s.Type); err == nil {
		view["type_name"] = tpl.DisplayName
		view["fighters"] = s.CurrentFighters(tpl)
		view["shields"] = s.CurrentShields(tpl)
	}
	return view
}

func (b *SnapshotBuilder) garrisonViews(ctx context.Context, sectorID int) ([]map[string]interface{}, error) {
	rows, err := b.garrisons.FindBySector(ctx, sectorID)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].OwnerID < rows[j].OwnerID })

	var views []map[string]interface{}
	for _, g := range rows {
		if g.Fighters <= 0 {
			continue
		}
		views = append(views, map[string]interface{}{
			"owner_id":    g.OwnerID,
			"owner_name":  g.OwnerName,
			"mode":        string(g.Mode),
			"fighters":    g.Fighters,
			"toll_amount": g.TollAmount,
			"deployed_at": g.DeployedAt.UTC().Format(time.RFC3339),
		})
	}
	return views, nil
}

func (b *SnapshotBuilder) salvageViews(ctx context.Context, sectorID int) ([]map[string]interface{}, error) {
	rows, err := b.salvage.FindBySector(ctx, sectorID)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })

	now := b.clock.Now()
	var views []map[string]interface{}
	for _, s := range rows {
		if s.Expired(now) || s.Claimed {
			continue
		}
		views = append(views, map[string]interface{}{
			"salvage_id":     s.ID.String(),
			"scrap":          s.Scrap,
			"credits":        s.Credits,
			"expires_at":     s.ExpiresAt.UTC().Format(time.RFC3339),
			"from_ship_type": s.FromShipType,
			"from_ship_name": s.FromShipName,
		})
	}
	return views, nil
}

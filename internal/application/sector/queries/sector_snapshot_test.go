package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avelasquez/quadrant-go/internal/adapters/persistence"
	"github.com/avelasquez/quadrant-go/internal/application/sector/queries"
	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/sector"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
	"github.com/avelasquez/quadrant-go/test/helpers"
)

type snapshotFixture struct {
	db         *gorm.DB
	clock      *shared.MockClock
	ships      *persistence.GormShipRepository
	characters *persistence.GormCharacterRepository
	garrisons  *persistence.GormGarrisonRepository
	salvage    *persistence.GormSalvageRepository
	builder    *queries.SnapshotBuilder
}

func newSnapshotFixture(t *testing.T) *snapshotFixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	mapService := persistence.NewGormMapService(db)

	f := &snapshotFixture{
		db:         db,
		clock:      clock,
		ships:      persistence.NewGormShipRepository(db),
		characters: persistence.NewGormCharacterRepository(db),
		garrisons:  persistence.NewGormGarrisonRepository(db),
		salvage:    persistence.NewGormSalvageRepository(db, clock),
	}
	f.builder = queries.NewSnapshotBuilder(
		f.ships, f.characters, f.garrisons, f.salvage,
		ship.NewStandardCatalog(), mapService, mapService, clock,
	)
	require.NoError(t, db.Create(&persistence.SectorModel{ID: 7, Region: "frontier", Adjacent: "[3,8]"}).Error)
	return f
}

func (f *snapshotFixture) seedShip(t *testing.T, owner string, pilots bool, mutate func(*ship.Ship)) *ship.Ship {
	t.Helper()
	ctx := context.Background()
	s := &ship.Ship{
		ID:               uuid.New(),
		Name:             owner + "'s scout",
		Type:             "scout",
		SectorID:         7,
		OwnerCharacterID: owner,
	}
	if mutate != nil {
		mutate(s)
	}
	require.NoError(t, f.ships.Save(ctx, s))

	if owner == "" {
		return s
	}
	shipID := s.ID
	if !pilots {
		shipID = uuid.New()
	}
	require.NoError(t, f.characters.Save(ctx, &player.Character{
		ID:            owner,
		Name:          owner,
		Type:          player.CharacterHuman,
		CurrentShipID: &shipID,
	}))
	return s
}

func TestSnapshotShipsPlayersAndUnowned(t *testing.T) {
	f := newSnapshotFixture(t)
	ctx := context.Background()

	f.seedShip(t, "alice", true, nil)
	f.seedShip(t, "bob", false, nil)
	f.seedShip(t, "", false, nil)
	f.seedShip(t, "wrecked", true, func(s *ship.Ship) { s.Destroyed = true })

	payload, err := f.builder.Build(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"id": 7, "region": "frontier"}, payload["sector"])

	ships := payload["ships"].([]map[string]interface{})
	require.Len(t, ships, 2)
	for _, view := range ships {
		owner := view["owner"].(map[string]interface{})
		assert.Contains(t, []interface{}{"alice", "bob"}, owner["id"])
		assert.Equal(t, 300, view["fighters"])
	}

	// Only the owner actually sitting in the hull counts as present
	players := payload["players"].([]map[string]interface{})
	require.Len(t, players, 1)
	assert.Equal(t, "alice", players[0]["id"])

	unowned := payload["unowned_ships"].([]map[string]interface{})
	require.Len(t, unowned, 1)

	assert.Nil(t, payload["port"])
}

func TestSnapshotGarrisonsSkipEmpty(t *testing.T) {
	f := newSnapshotFixture(t)
	ctx := context.Background()

	require.NoError(t, f.garrisons.Save(ctx, &sector.Garrison{
		SectorID: 7, OwnerID: "carol", OwnerName: "carol",
		Mode: combat.GarrisonToll, Fighters: 50, TollAmount: 100,
		DeployedAt: f.clock.Now(),
	}))
	require.NoError(t, f.garrisons.Save(ctx, &sector.Garrison{
		SectorID: 7, OwnerID: "dave", OwnerName: "dave",
		Mode: combat.GarrisonDefensive, Fighters: 0,
		DeployedAt: f.clock.Now(),
	}))

	payload, err := f.builder.Build(ctx, 7)
	require.NoError(t, err)

	garrisons := payload["garrisons"].([]map[string]interface{})
	require.Len(t, garrisons, 1)
	assert.Equal(t, "carol", garrisons[0]["owner_id"])
	assert.Equal(t, "toll", garrisons[0]["mode"])
	assert.Equal(t, 100, garrisons[0]["toll_amount"])
}

func TestSnapshotSalvageFiltersExpiredAndClaimed(t *testing.T) {
	f := newSnapshotFixture(t)
	ctx := context.Background()
	now := f.clock.Now()

	fresh := &sector.Salvage{
		ID: uuid.New(), SectorID: 7, CreatedAt: now, ExpiresAt: now.Add(15 * time.Minute),
		Scrap: 15, Credits: 300, FromShipName: "the freighter", FromShipType: "freighter",
	}
	shortLived := &sector.Salvage{
		ID: uuid.New(), SectorID: 7, CreatedAt: now, ExpiresAt: now.Add(time.Second),
		Scrap: 5, FromShipType: "escape_pod",
	}
	claimed := &sector.Salvage{
		ID: uuid.New(), SectorID: 7, CreatedAt: now, ExpiresAt: now.Add(15 * time.Minute),
		Scrap: 5, FromShipType: "scout",
	}
	for _, s := range []*sector.Salvage{fresh, shortLived, claimed} {
		require.NoError(t, f.salvage.Append(ctx, s))
	}
	claimed.Claimed = true
	require.NoError(t, f.salvage.Save(ctx, claimed))

	f.clock.Advance(2 * time.Second)

	payload, err := f.builder.Build(ctx, 7)
	require.NoError(t, err)

	views := payload["salvage"].([]map[string]interface{})
	require.Len(t, views, 1)
	assert.Equal(t, fresh.ID.String(), views[0]["salvage_id"])
	assert.Equal(t, 300, views[0]["credits"])
	assert.Equal(t, "freighter", views[0]["from_ship_type"])
}

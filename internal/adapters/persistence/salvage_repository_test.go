package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez/quadrant-go/internal/adapters/persistence"
	"github.com/avelasquez/quadrant-go/internal/domain/sector"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
	"github.com/avelasquez/quadrant-go/test/helpers"
)

func testSalvage(sectorID int, now time.Time, ttl time.Duration) *sector.Salvage {
	return &sector.Salvage{
		ID:           uuid.New(),
		SectorID:     sectorID,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		Cargo:        map[ship.Commodity]int{ship.CommodityOrganics: 8},
		Scrap:        5,
		Credits:      250,
		FromShipName: "wreck",
		FromShipType: "kestrel",
	}
}

func TestSalvageAppendAndFind(t *testing.T) {
	db := helpers.NewTestDB(t)
	clock := testClock()
	repo := persistence.NewGormSalvageRepository(db, clock)
	ctx := context.Background()

	s := testSalvage(7, clock.Now(), 15*time.Minute)
	require.NoError(t, repo.Append(ctx, s))

	loaded, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 7, loaded.SectorID)
	assert.Equal(t, 8, loaded.Cargo[ship.CommodityOrganics])
	assert.Equal(t, 5, loaded.Scrap)
	assert.Equal(t, 250, loaded.Credits)
	assert.False(t, loaded.Claimed)

	entries, err := repo.FindBySector(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSalvageFindByIDMissing(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSalvageRepository(db, testClock())

	loaded, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSalvageAppendPrunesExpired(t *testing.T) {
	db := helpers.NewTestDB(t)
	clock := testClock()
	repo := persistence.NewGormSalvageRepository(db, clock)
	ctx := context.Background()

	stale := testSalvage(7, clock.Now().Add(-time.Hour), 15*time.Minute)
	require.NoError(t, repo.Append(ctx, stale))

	// Expired salvage in another sector must survive the prune
	otherSector := testSalvage(8, clock.Now().Add(-time.Hour), 15*time.Minute)
	require.NoError(t, repo.Append(ctx, otherSector))

	fresh := testSalvage(7, clock.Now(), 15*time.Minute)
	require.NoError(t, repo.Append(ctx, fresh))

	entries, err := repo.FindBySector(ctx, 7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fresh.ID, entries[0].ID)

	elsewhere, err := repo.FindBySector(ctx, 8)
	require.NoError(t, err)
	assert.Len(t, elsewhere, 1)
}

func TestSalvageSaveClaim(t *testing.T) {
	db := helpers.NewTestDB(t)
	clock := testClock()
	repo := persistence.NewGormSalvageRepository(db, clock)
	ctx := context.Background()

	s := testSalvage(7, clock.Now(), 15*time.Minute)
	require.NoError(t, repo.Append(ctx, s))

	s.Claimed = true
	s.Cargo = map[ship.Commodity]int{}
	require.NoError(t, repo.Save(ctx, s))

	loaded, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Claimed)
	assert.Empty(t, loaded.Cargo)
}

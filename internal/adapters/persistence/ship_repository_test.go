package persistence_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez/quadrant-go/internal/adapters/persistence"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
	"github.com/avelasquez/quadrant-go/test/helpers"
)

func testShip(sectorID int, owner string) *ship.Ship {
	return &ship.Ship{
		ID:               uuid.New(),
		Name:             owner + "'s ship",
		Type:             "kestrel",
		SectorID:         sectorID,
		OwnerCharacterID: owner,
		Cargo:            map[ship.Commodity]int{ship.CommodityOre: 12},
		Credits:          500,
	}
}

func TestShipSaveCreatesAtVersionOne(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormShipRepository(db)
	ctx := context.Background()

	s := testShip(7, "alice")
	require.Equal(t, 0, s.Version)
	require.NoError(t, repo.Save(ctx, s))
	assert.Equal(t, 1, s.Version)

	loaded, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Version)
	assert.Equal(t, "alice", loaded.OwnerCharacterID)
	assert.Equal(t, 12, loaded.Cargo[ship.CommodityOre])
	assert.Nil(t, loaded.Fighters, "unwritten fighters stay nil so template values apply")
	assert.Nil(t, loaded.Shields)
}

func TestShipSaveBumpsVersion(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormShipRepository(db)
	ctx := context.Background()

	s := testShip(7, "alice")
	require.NoError(t, repo.Save(ctx, s))

	s.SetFighters(30)
	s.SetShields(100)
	require.NoError(t, repo.Save(ctx, s))
	assert.Equal(t, 2, s.Version)

	loaded, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Version)
	require.NotNil(t, loaded.Fighters)
	assert.Equal(t, 30, *loaded.Fighters)
	require.NotNil(t, loaded.Shields)
	assert.Equal(t, 100, *loaded.Shields)
}

func TestShipSaveStaleVersionConflicts(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormShipRepository(db)
	ctx := context.Background()

	s := testShip(7, "alice")
	require.NoError(t, repo.Save(ctx, s))

	// A second loader updates the ship first
	other, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	other.SetFighters(20)
	require.NoError(t, repo.Save(ctx, other))

	s.SetFighters(5)
	err = repo.Save(ctx, s)
	require.Error(t, err)
	assert.IsType(t, &shared.TransientStorageError{}, err)

	// The winning write is untouched
	loaded, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, *loaded.Fighters)
	assert.Equal(t, 2, loaded.Version)
}

func TestShipFindByIDMissing(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormShipRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.IsType(t, &shared.DataIntegrityError{}, err)
}

func TestShipFindBySector(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormShipRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testShip(7, "alice")))
	require.NoError(t, repo.Save(ctx, testShip(7, "bob")))
	require.NoError(t, repo.Save(ctx, testShip(8, "carol")))

	ships, err := repo.FindBySector(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, ships, 2)
}

func TestShipDelete(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormShipRepository(db)
	ctx := context.Background()

	s := testShip(7, "alice")
	require.NoError(t, repo.Save(ctx, s))
	require.NoError(t, repo.Delete(ctx, s.ID))

	_, err := repo.FindByID(ctx, s.ID)
	assert.IsType(t, &shared.DataIntegrityError{}, err)
}

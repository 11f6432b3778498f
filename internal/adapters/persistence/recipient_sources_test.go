package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez/quadrant-go/internal/adapters/persistence"
	"github.com/avelasquez/quadrant-go/internal/domain/event"
	"github.com/avelasquez/quadrant-go/test/helpers"
)

func TestSectorCharacterIDs(t *testing.T) {
	db := helpers.NewTestDB(t)
	sources := persistence.NewGormRecipientSources(db)
	ctx := context.Background()

	type shipSpec struct {
		character string
		sector    int
		hyper     bool
		destroyed bool
	}
	for _, spec := range []shipSpec{
		{"bob", 7, false, false},
		{"alice", 7, false, false},
		{"hyper", 7, true, false},
		{"wrecked", 7, false, true},
		{"elsewhere", 8, false, false},
	} {
		shipID := uuid.NewString()
		require.NoError(t, db.Create(&persistence.ShipModel{
			ID:               shipID,
			Name:             spec.character + "'s ship",
			Type:             "kestrel",
			SectorID:         spec.sector,
			OwnerCharacterID: spec.character,
			InHyperspace:     spec.hyper,
			Destroyed:        spec.destroyed,
			Version:          1,
		}).Error)
		require.NoError(t, db.Create(&persistence.CharacterModel{
			ID:            spec.character,
			Name:          spec.character,
			Type:          "human",
			CurrentShipID: &shipID,
		}).Error)
	}

	// A character without a ship never appears
	require.NoError(t, db.Create(&persistence.CharacterModel{
		ID:   "shipless",
		Name: "shipless",
		Type: "human",
	}).Error)

	ids, err := sources.SectorCharacterIDs(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, ids)
}

func TestCorporationMemberIDsExcludesFormerMembers(t *testing.T) {
	db := helpers.NewTestDB(t)
	sources := persistence.NewGormRecipientSources(db)
	ctx := context.Background()

	joined := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	left := joined.Add(time.Hour)
	rows := []persistence.CorporationMemberModel{
		{CorporationID: "corp-1", CharacterID: "alice", JoinedAt: joined},
		{CorporationID: "corp-1", CharacterID: "mallory", JoinedAt: joined, LeftAt: &left},
	}
	require.NoError(t, db.Create(&rows).Error)

	ids, err := sources.CorporationMemberIDs(ctx, "corp-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, ids)
}

func TestSectorGarrisonOwnersSkipExhausted(t *testing.T) {
	db := helpers.NewTestDB(t)
	sources := persistence.NewGormRecipientSources(db)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := []persistence.GarrisonModel{
		{SectorID: 7, OwnerID: "carol", OwnerName: "carol", OwnerCorporationID: "corp-1", Mode: "toll", Fighters: 50, DeployedAt: now},
		{SectorID: 7, OwnerID: "dave", OwnerName: "dave", Mode: "defensive", Fighters: 0, DeployedAt: now},
		{SectorID: 8, OwnerID: "erin", OwnerName: "erin", Mode: "offensive", Fighters: 10, DeployedAt: now},
	}
	require.NoError(t, db.Create(&rows).Error)

	owners, err := sources.SectorGarrisonOwners(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []event.GarrisonOwner{{OwnerID: "carol", CorporationID: "corp-1"}}, owners)
}

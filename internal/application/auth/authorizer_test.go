package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez/quadrant-go/internal/adapters/persistence"
	"github.com/avelasquez/quadrant-go/internal/application/auth"
	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
	"github.com/avelasquez/quadrant-go/test/helpers"
)

func TestAuthorizePilotActsOnOwnShip(t *testing.T) {
	db := helpers.NewTestDB(t)
	characters := persistence.NewGormCharacterRepository(db)
	authorizer := auth.NewShipAuthorizer(characters)
	ctx := context.Background()

	target := &ship.Ship{ID: uuid.New(), Name: "ship", Type: "scout", SectorID: 7, OwnerCharacterID: "alice"}
	shipID := target.ID
	require.NoError(t, characters.Save(ctx, &player.Character{
		ID:            "alice",
		Name:          "Alice",
		Type:          player.CharacterHuman,
		CurrentShipID: &shipID,
	}))

	assert.NoError(t, authorizer.Authorize(ctx, "alice", target, false))
}

func TestAuthorizeRejectsForeignShip(t *testing.T) {
	db := helpers.NewTestDB(t)
	authorizer := auth.NewShipAuthorizer(persistence.NewGormCharacterRepository(db))

	target := &ship.Ship{ID: uuid.New(), OwnerCharacterID: "bob"}
	err := authorizer.Authorize(context.Background(), "alice", target, false)
	require.Error(t, err)
	assert.IsType(t, &shared.AuthorizationError{}, err)
}

func TestAuthorizeRejectsStaleShipReference(t *testing.T) {
	db := helpers.NewTestDB(t)
	characters := persistence.NewGormCharacterRepository(db)
	authorizer := auth.NewShipAuthorizer(characters)
	ctx := context.Background()

	target := &ship.Ship{ID: uuid.New(), OwnerCharacterID: "alice"}
	otherShip := uuid.New()
	require.NoError(t, characters.Save(ctx, &player.Character{
		ID:            "alice",
		Name:          "Alice",
		Type:          player.CharacterHuman,
		CurrentShipID: &otherShip,
	}))

	err := authorizer.Authorize(ctx, "alice", target, false)
	require.Error(t, err)
	assert.IsType(t, &shared.AuthorizationError{}, err)
}

func TestAuthorizeNilTarget(t *testing.T) {
	db := helpers.NewTestDB(t)
	authorizer := auth.NewShipAuthorizer(persistence.NewGormCharacterRepository(db))

	err := authorizer.Authorize(context.Background(), "alice", nil, false)
	require.Error(t, err)
	assert.IsType(t, &shared.AuthorizationError{}, err)
}

func TestAuthorizeAdminOverride(t *testing.T) {
	db := helpers.NewTestDB(t)
	authorizer := auth.NewShipAuthorizer(persistence.NewGormCharacterRepository(db))

	assert.NoError(t, authorizer.Authorize(context.Background(), "operator", nil, true))
}

package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez/quadrant-go/internal/application/combat/services"
	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
)

func TestStatusSnapshot(t *testing.T) {
	b := services.NewStatusBuilder(ship.NewStandardCatalog())
	s := &ship.Ship{
		ID:               uuid.New(),
		Name:             "Alice's scout",
		Type:             "scout",
		SectorID:         7,
		OwnerCharacterID: "alice",
		Credits:          250,
	}
	c := &player.Character{ID: "alice", Name: "Alice", Type: player.CharacterHuman, Credits: 1000}

	payload, err := b.Snapshot(c, s)
	require.NoError(t, err)

	character := payload["character"].(map[string]interface{})
	assert.Equal(t, "alice", character["id"])
	assert.Equal(t, string(player.CharacterHuman), character["type"])
	assert.Equal(t, 1000, character["credits"])

	view := payload["ship"].(map[string]interface{})
	assert.Equal(t, s.ID.String(), view["ship_id"])
	// Unwritten fighters and shields read through to the scout template
	assert.Equal(t, 300, view["fighters"])
	assert.Equal(t, 100, view["shields"])
	assert.Equal(t, 300, view["max_fighters"])
	assert.Equal(t, map[string]interface{}{"id": 7}, view["sector"])
	assert.Equal(t, false, view["destroyed"])
}

func TestStatusSnapshotWithoutShip(t *testing.T) {
	b := services.NewStatusBuilder(ship.NewStandardCatalog())
	c := &player.Character{ID: "alice", Name: "Alice", Type: player.CharacterHuman}

	payload, err := b.Snapshot(c, nil)
	require.NoError(t, err)
	assert.Nil(t, payload["ship"])
}

func TestStatusShipViewUnknownTemplate(t *testing.T) {
	b := services.NewStatusBuilder(ship.NewStandardCatalog())
	s := &ship.Ship{ID: uuid.New(), Type: "unknown_hull"}

	_, err := b.ShipView(&player.Character{ID: "alice"}, s)
	require.Error(t, err)
}

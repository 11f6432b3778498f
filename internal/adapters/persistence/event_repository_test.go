package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez/quadrant-go/internal/adapters/persistence"
	"github.com/avelasquez/quadrant-go/internal/domain/event"
	"github.com/avelasquez/quadrant-go/test/helpers"
)

func testEvent(sectorID int, recipients ...string) *event.GameEvent {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := &event.GameEvent{
		Type:             event.TypeCombatRoundResolved,
		Scope:            event.ScopeSector,
		SectorID:         &sectorID,
		ActorCharacterID: "alice",
		Payload:          map[string]interface{}{"round": float64(1)},
		Source:           event.NewSourceStamp("combat.action", now),
		CreatedAt:        now,
	}
	for _, id := range recipients {
		e.Recipients = append(e.Recipients, event.Recipient{
			CharacterID: id,
			Reason:      event.ReasonSectorSnapshot,
		})
	}
	return e
}

func TestEventInsertAssignsMonotonicIDs(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEventRepository(db)
	ctx := context.Background()

	first, err := repo.Insert(ctx, testEvent(7, "alice"))
	require.NoError(t, err)
	second, err := repo.Insert(ctx, testEvent(7, "alice"))
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestEventInsertWritesRecipients(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEventRepository(db)
	ctx := context.Background()

	e := testEvent(7, "alice", "bob")
	id, err := repo.Insert(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, id, e.ID)

	forAlice, err := repo.FindForCharacter(ctx, "alice", 0, 10)
	require.NoError(t, err)
	require.Len(t, forAlice, 1)
	assert.Equal(t, id, forAlice[0].ID)
	assert.Equal(t, event.TypeCombatRoundResolved, forAlice[0].Type)
	require.NotNil(t, forAlice[0].SectorID)
	assert.Equal(t, 7, *forAlice[0].SectorID)
	assert.Equal(t, float64(1), forAlice[0].Payload["round"])

	// Non-recipients see nothing
	forCarol, err := repo.FindForCharacter(ctx, "carol", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, forCarol)
}

func TestEventInsertWithoutRecipients(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEventRepository(db)

	_, err := repo.Insert(context.Background(), testEvent(7))
	require.NoError(t, err)
}

func TestEventFindForCharacterSinceID(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEventRepository(db)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := repo.Insert(ctx, testEvent(7, "alice"))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	events, err := repo.FindForCharacter(ctx, "alice", ids[0], 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ids[1], events[0].ID)
	assert.Equal(t, ids[2], events[1].ID)
}

func TestEventFindForCharacterLimit(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEventRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Insert(ctx, testEvent(7, "alice"))
		require.NoError(t, err)
	}

	events, err := repo.FindForCharacter(ctx, "alice", 0, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	// Non-positive limit falls back to the default page size
	events, err = repo.FindForCharacter(ctx, "alice", 0, 0)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avelasquez/quadrant-go/internal/adapters/persistence"
	"github.com/avelasquez/quadrant-go/internal/application/combat/services"
	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/sector"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
	"github.com/avelasquez/quadrant-go/test/helpers"
)

type finalizerFixture struct {
	db         *gorm.DB
	ships      *persistence.GormShipRepository
	characters *persistence.GormCharacterRepository
	garrisons  *persistence.GormGarrisonRepository
	salvage    *persistence.GormSalvageRepository
	clock      *shared.MockClock
	finalizer  *services.Finalizer
}

func newFinalizerFixture(t *testing.T) *finalizerFixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(payloadNow)

	f := &finalizerFixture{
		db:         db,
		ships:      persistence.NewGormShipRepository(db),
		characters: persistence.NewGormCharacterRepository(db),
		garrisons:  persistence.NewGormGarrisonRepository(db),
		salvage:    persistence.NewGormSalvageRepository(db, clock),
		clock:      clock,
	}
	f.finalizer = services.NewFinalizer(
		f.ships, f.characters, f.garrisons, f.salvage,
		ship.NewStandardCatalog(), persistence.NewGormMapService(db),
		clock, 15*time.Minute,
	)
	return f
}

func (f *finalizerFixture) seedShip(t *testing.T, owner, corpID, shipType string) *ship.Ship {
	t.Helper()
	s := &ship.Ship{
		ID:                 uuid.New(),
		Name:               owner + "'s " + shipType,
		Type:               shipType,
		SectorID:           7,
		OwnerCharacterID:   owner,
		OwnerCorporationID: corpID,
		Cargo:              map[ship.Commodity]int{ship.CommodityOre: 6},
		Credits:            300,
	}
	require.NoError(t, f.ships.Save(context.Background(), s))
	return s
}

func finalizerEncounter(t *testing.T, participants ...*combat.Combatant) *combat.Encounter {
	t.Helper()
	enc := combat.NewEncounter(7, "alice", combat.ReasonAttack, shared.NewMockClock(payloadNow))
	for _, p := range participants {
		require.NoError(t, enc.AddParticipant(p))
	}
	return enc
}

func shipCombatant(id string, s *ship.Ship, playerType combat.PlayerType) *combat.Combatant {
	return &combat.Combatant{
		ID:            id,
		Kind:          combat.KindCharacter,
		Name:          id,
		Fighters:      10,
		ShipID:        s.ID.String(),
		ShipType:      s.Type,
		CorporationID: s.OwnerCorporationID,
		PlayerType:    playerType,
	}
}

func TestFinalizerConvertsPlayerShipToEscapePod(t *testing.T) {
	f := newFinalizerFixture(t)
	ctx := context.Background()

	aliceShip := f.seedShip(t, "alice", "", "scout")
	bobShip := f.seedShip(t, "bob", "", "freighter")
	enc := finalizerEncounter(t,
		shipCombatant("alice", aliceShip, combat.PlayerTypeHuman),
		shipCombatant("bob", bobShip, combat.PlayerTypeHuman),
	)

	outcome := &combat.RoundOutcome{
		Round:             1,
		EndState:          combat.EndDefeated("bob"),
		FightersRemaining: map[string]int{"alice": 8, "bob": 0},
		ShieldsRemaining:  map[string]int{"alice": 50, "bob": 0},
		FleeSuccess:       map[string]bool{},
	}

	result := f.finalizer.Apply(ctx, enc, outcome)

	require.Len(t, result.Destroyed, 1)
	assert.Equal(t, bobShip.ID, result.Destroyed[0].ShipID)
	assert.True(t, result.Destroyed[0].SalvageCreated)
	assert.Empty(t, result.Deferred)

	pod, err := f.ships.FindByID(ctx, bobShip.ID)
	require.NoError(t, err)
	assert.True(t, pod.IsEscapePod)
	assert.Equal(t, ship.EscapePodType, pod.Type)
	assert.Equal(t, 0, *pod.Fighters)
	assert.Empty(t, pod.Cargo)
	assert.Equal(t, 0, pod.Credits)

	// The winner's ship is untouched
	winner, err := f.ships.FindByID(ctx, aliceShip.ID)
	require.NoError(t, err)
	assert.False(t, winner.IsEscapePod)

	require.Len(t, result.Salvage, 1)
	assert.Equal(t, 7, result.Salvage[0].SectorID)
	assert.Equal(t, 6, result.Salvage[0].Cargo[ship.CommodityOre])
	assert.Equal(t, 300, result.Salvage[0].Credits)
	// freighter purchase price 41300 -> 41 scrap
	assert.Equal(t, 41, result.Salvage[0].Scrap)

	stored, err := f.salvage.FindBySector(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestFinalizerDefersCorporationShipTeardown(t *testing.T) {
	f := newFinalizerFixture(t)
	ctx := context.Background()

	corpShip := f.seedShip(t, "corp-1-pilot", "corp-1", "corvette")
	shipID := corpShip.ID
	require.NoError(t, f.characters.Save(ctx, &player.Character{
		ID:            "corp-1-pilot",
		Name:          "corp pilot",
		Type:          player.CharacterCorporationShip,
		CorporationID: "corp-1",
		CurrentShipID: &shipID,
	}))

	enc := finalizerEncounter(t, shipCombatant("corp-1-pilot", corpShip, combat.PlayerTypeCorporationShip))
	outcome := &combat.RoundOutcome{
		Round:             1,
		EndState:          combat.EndDefeated("corp pilot"),
		FightersRemaining: map[string]int{"corp-1-pilot": 0},
		ShieldsRemaining:  map[string]int{"corp-1-pilot": 0},
		FleeSuccess:       map[string]bool{},
	}

	result := f.finalizer.Apply(ctx, enc, outcome)

	// The hull is zeroed but still present for combat.ended emission
	require.Len(t, result.Deferred, 1)
	zeroed, err := f.ships.FindByID(ctx, corpShip.ID)
	require.NoError(t, err)
	assert.True(t, zeroed.Destroyed)
	assert.False(t, zeroed.IsEscapePod)
	assert.Equal(t, 0, *zeroed.Fighters)

	_, err = f.characters.FindByID(ctx, "corp-1-pilot")
	require.NoError(t, err, "pseudo-character survives until the deferred pass")

	f.finalizer.RunDeferredDeletions(ctx, result.Deferred)

	_, err = f.characters.FindByID(ctx, "corp-1-pilot")
	assert.IsType(t, &shared.DataIntegrityError{}, err)
	_, err = f.ships.FindByID(ctx, corpShip.ID)
	assert.IsType(t, &shared.DataIntegrityError{}, err)
}

func TestFinalizerSyncsGarrisonRows(t *testing.T) {
	f := newFinalizerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.garrisons.Save(ctx, &sector.Garrison{
		SectorID:   7,
		OwnerID:    "carol",
		OwnerName:  "carol",
		Mode:       combat.GarrisonDefensive,
		Fighters:   50,
		DeployedAt: payloadNow,
	}))

	garrisonID := combat.GarrisonCombatantID(7, "carol")
	g := &combat.Combatant{
		ID:       garrisonID,
		Kind:     combat.KindGarrison,
		Name:     "carol's garrison",
		Fighters: 50,
		OwnerID:  "carol",
		Mode:     combat.GarrisonDefensive,
	}

	enc := finalizerEncounter(t, g)
	outcome := &combat.RoundOutcome{
		Round:             1,
		FightersRemaining: map[string]int{garrisonID: 20},
		ShieldsRemaining:  map[string]int{},
		FleeSuccess:       map[string]bool{},
	}
	f.finalizer.Apply(ctx, enc, outcome)

	stored, err := f.garrisons.FindByOwner(ctx, 7, "carol")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 20, stored.Fighters)

	// Exhausted garrisons lose their row
	outcome.FightersRemaining[garrisonID] = 0
	f.finalizer.Apply(ctx, enc, outcome)

	stored, err = f.garrisons.FindByOwner(ctx, 7, "carol")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestMoveFleersUsesChosenDestination(t *testing.T) {
	f := newFinalizerFixture(t)
	ctx := context.Background()

	fleerShip := f.seedShip(t, "alice", "", "scout")
	enc := finalizerEncounter(t, shipCombatant("alice", fleerShip, combat.PlayerTypeHuman))

	outcome := &combat.RoundOutcome{
		Round:             1,
		FightersRemaining: map[string]int{"alice": 10},
		ShieldsRemaining:  map[string]int{},
		FleeSuccess:       map[string]bool{"alice": true},
		EffectiveActions: map[string]*combat.RoundAction{
			"alice": {Type: combat.ActionFlee, Destination: 12},
		},
	}
	f.finalizer.MoveFleers(ctx, enc, services.FleeingCharacters(enc, outcome), outcome)

	moved, err := f.ships.FindByID(ctx, fleerShip.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, moved.SectorID)
}

func TestMoveFleersFallsBackToAdjacentSector(t *testing.T) {
	f := newFinalizerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.db.Create(&persistence.SectorModel{
		ID:       7,
		Region:   "frontier",
		Adjacent: "[3]",
	}).Error)

	fleerShip := f.seedShip(t, "alice", "", "scout")
	enc := finalizerEncounter(t, shipCombatant("alice", fleerShip, combat.PlayerTypeHuman))

	outcome := &combat.RoundOutcome{
		Round:             1,
		FightersRemaining: map[string]int{"alice": 10},
		ShieldsRemaining:  map[string]int{},
		FleeSuccess:       map[string]bool{"alice": true},
		EffectiveActions: map[string]*combat.RoundAction{
			"alice": {Type: combat.ActionFlee},
		},
	}
	f.finalizer.MoveFleers(ctx, enc, services.FleeingCharacters(enc, outcome), outcome)

	moved, err := f.ships.FindByID(ctx, fleerShip.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, moved.SectorID)
}

package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func garrisonCombatant(sectorID int, ownerID string, mode GarrisonMode, fighters int) *Combatant {
	return &Combatant{
		ID:       GarrisonCombatantID(sectorID, ownerID),
		Kind:     KindGarrison,
		Name:     ownerID + "'s garrison",
		Fighters: fighters,
		OwnerID:  ownerID,
		Mode:     mode,
	}
}

func participantMap(cs ...*Combatant) map[string]*Combatant {
	m := make(map[string]*Combatant, len(cs))
	for _, c := range cs {
		m[c.ID] = c
	}
	return m
}

func TestOffensiveGarrisonAttacksStrongestEnemy(t *testing.T) {
	g := garrisonCombatant(7, "carol", GarrisonOffensive, 60)
	participants := participantMap(
		characterCombatant("alice", 10, 0),
		characterCombatant("bob", 30, 0),
		g,
	)

	actions := AutoActions(participants, nil, make(TollRegistry))

	require.Contains(t, actions, g.ID)
	a := actions[g.ID]
	assert.Equal(t, ActionAttack, a.Type)
	assert.Equal(t, "bob", a.TargetID)
	assert.Equal(t, 60, a.Commit)
}

func TestOffensiveGarrisonSparesOwnerAndCorp(t *testing.T) {
	g := garrisonCombatant(7, "carol", GarrisonOffensive, 60)
	g.CorporationID = "corp-1"

	owner := characterCombatant("carol", 40, 0)
	corpmate := characterCombatant("dave", 50, 0)
	corpmate.CorporationID = "corp-1"

	actions := AutoActions(participantMap(owner, corpmate, g), nil, make(TollRegistry))

	assert.Equal(t, ActionBrace, actions[g.ID].Type)
}

func TestDefensiveGarrisonRetaliatesOnly(t *testing.T) {
	g := garrisonCombatant(7, "carol", GarrisonDefensive, 60)
	participants := participantMap(
		characterCombatant("alice", 10, 0),
		characterCombatant("bob", 30, 0),
		g,
	)

	// Nobody attacks the garrison: it braces
	actions := AutoActions(participants, nil, make(TollRegistry))
	assert.Equal(t, ActionBrace, actions[g.ID].Type)

	// Alice attacks the garrison: it retaliates with everything
	submitted := map[string]*RoundAction{
		"alice": {Type: ActionAttack, Commit: 5, TargetID: g.ID},
	}
	actions = AutoActions(participants, submitted, make(TollRegistry))
	assert.Equal(t, ActionAttack, actions[g.ID].Type)
	assert.Equal(t, "alice", actions[g.ID].TargetID)
	assert.Equal(t, 60, actions[g.ID].Commit)
}

func TestDefensiveGarrisonDefendsOwner(t *testing.T) {
	g := garrisonCombatant(7, "carol", GarrisonDefensive, 60)
	participants := participantMap(
		characterCombatant("alice", 10, 0),
		characterCombatant("carol", 20, 0),
		g,
	)

	submitted := map[string]*RoundAction{
		"alice": {Type: ActionAttack, Commit: 5, TargetID: "carol"},
	}
	actions := AutoActions(participants, submitted, make(TollRegistry))

	assert.Equal(t, ActionAttack, actions[g.ID].Type)
	assert.Equal(t, "alice", actions[g.ID].TargetID)
}

func TestTollGarrisonAttacksUnpaidOnly(t *testing.T) {
	g := garrisonCombatant(7, "carol", GarrisonToll, 60)
	g.TollAmount = 100
	participants := participantMap(
		characterCombatant("alice", 10, 0),
		characterCombatant("bob", 30, 0),
		g,
	)

	tolls := make(TollRegistry)
	tolls.MarkPaid("carol", "bob")

	actions := AutoActions(participants, nil, tolls)
	assert.Equal(t, ActionAttack, actions[g.ID].Type)
	assert.Equal(t, "alice", actions[g.ID].TargetID, "paid characters are exempt")

	tolls.MarkPaid("carol", "alice")
	actions = AutoActions(participants, nil, tolls)
	assert.Equal(t, ActionBrace, actions[g.ID].Type, "everyone paid")
}

func TestAutoActionsIgnoreCharacters(t *testing.T) {
	participants := participantMap(
		characterCombatant("alice", 10, 0),
		characterCombatant("bob", 30, 0),
	)

	actions := AutoActions(participants, nil, make(TollRegistry))
	assert.Empty(t, actions)
}

func TestStrongestWhereSkipsExhausted(t *testing.T) {
	g := garrisonCombatant(7, "carol", GarrisonOffensive, 60)
	dead := characterCombatant("alice", 0, 0)
	live := characterCombatant("bob", 1, 0)

	actions := AutoActions(participantMap(g, dead, live), nil, make(TollRegistry))
	assert.Equal(t, "bob", actions[g.ID].TargetID)
}

package combat

import "time"

// ActionType is a combatant's chosen intent for a round
type ActionType string

const (
	ActionAttack ActionType = "attack"
	ActionBrace  ActionType = "brace"
	ActionFlee   ActionType = "flee"
	ActionPay    ActionType = "pay"
)

// IsValidActionType reports whether the given string names a known action
func IsValidActionType(s string) bool {
	switch ActionType(s) {
	case ActionAttack, ActionBrace, ActionFlee, ActionPay:
		return true
	}
	return false
}

// RoundAction is one combatant's submitted (or synthesized) intent for the
// current round. Commit must be 0 for non-attack actions; Destination is only
// meaningful for flee (0 = no preference, finalization picks a random
// adjacent sector).
type RoundAction struct {
	Type        ActionType
	Commit      int
	TargetID    string
	Destination int
	TimedOut    bool
	SubmittedAt time.Time
}

// TimeoutBrace is the action coerced for a live character combatant that
// never submitted before the round deadline.
func TimeoutBrace(now time.Time) *RoundAction {
	return &RoundAction{
		Type:        ActionBrace,
		TimedOut:    true,
		SubmittedAt: now,
	}
}

func (a *RoundAction) clone() *RoundAction {
	c := *a
	return &c
}

package combat

// RoundOutcome is the resolver's result for one round. It is never mutated
// after the resolver returns it. All maps are keyed by combatant id; the
// payload boundary translates to display names where the legacy wire format
// requires it. Names carries the display name of every participant at
// resolution time, so departed fleers keep their wire name after the outcome
// is applied and they leave the encounter.
type RoundOutcome struct {
	Round             int
	Hits              map[string]int
	OffensiveLosses   map[string]int
	DefensiveLosses   map[string]int
	ShieldLoss        map[string]int
	FightersRemaining map[string]int
	ShieldsRemaining  map[string]int
	FleeSuccess       map[string]bool
	Names             map[string]string
	EndState          string
	EffectiveActions  map[string]*RoundAction
}

func newRoundOutcome(round int) *RoundOutcome {
	return &RoundOutcome{
		Round:             round,
		Hits:              make(map[string]int),
		OffensiveLosses:   make(map[string]int),
		DefensiveLosses:   make(map[string]int),
		ShieldLoss:        make(map[string]int),
		FightersRemaining: make(map[string]int),
		ShieldsRemaining:  make(map[string]int),
		FleeSuccess:       make(map[string]bool),
		Names:             make(map[string]string),
		EffectiveActions:  make(map[string]*RoundAction),
	}
}

// Defeated reports whether the given participant ended the round with no
// fighters and no successful flee.
func (o *RoundOutcome) Defeated(id string) bool {
	return o.FightersRemaining[id] <= 0 && !o.FleeSuccess[id]
}

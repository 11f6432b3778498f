package combat

import (
	"fmt"
	"math"
	"sort"
)

// Round resolution. ResolveRound is pure: it reads the encounter and the full
// action map, draws only from the per-round seeded stream, and never touches
// the clock, the deadline, or any repository. Reconstructing the same
// (base seed, round, effective actions) yields a byte-identical outcome.

const (
	mitigationPerShield = 0.0005
	braceMitigationMult = 1.2
	maxMitigation       = 0.5

	baseHitChance = 0.5
	minHitChance  = 0.15
	maxHitChance  = 0.85

	baseFleeChance = 0.5
	minFleeChance  = 0.2
	maxFleeChance  = 0.9
)

// End states that do not name a specific combatant
const (
	EndStalemate     = "stalemate"
	EndMutualDefeat  = "mutual_defeat"
	EndVictory       = "victory"
	EndTollSatisfied = "toll_satisfied"
	EndNoHostiles    = "no_hostiles"
)

// EndFled builds the end state for a round that ended with a flee
func EndFled(name string) string {
	return fmt.Sprintf("%s_fled", name)
}

// EndDefeated builds the end state for a round with a single named loser
func EndDefeated(name string) string {
	return fmt.Sprintf("%s_defeated", name)
}

// ResolverChecks carries the caller-supplied end-state overrides. The toll
// check lets the lifecycle end combat once every toll demand is satisfied;
// the friendly check ends combat when no hostile pairs remain. Either may be
// nil.
type ResolverChecks struct {
	TollSatisfied func(outcome *RoundOutcome) bool
	AllFriendly   func(outcome *RoundOutcome) bool
}

type resolverState struct {
	enc        *Encounter
	order      []string
	actions    map[string]*RoundAction
	mitigation map[string]float64
	startF     map[string]int
	startS     map[string]int
	live       map[string]int
	active     map[string]bool
	rng        *Stream
	outcome    *RoundOutcome
}

// ResolveRound resolves one round of the encounter against the given full
// action map. Participants absent from the map are treated as bracing. The
// encounter itself is not mutated.
func ResolveRound(enc *Encounter, actions map[string]*RoundAction, checks *ResolverChecks) *RoundOutcome {
	st := &resolverState{
		enc:        enc,
		actions:    make(map[string]*RoundAction, len(enc.Participants)),
		mitigation: make(map[string]float64, len(enc.Participants)),
		startF:     make(map[string]int, len(enc.Participants)),
		startS:     make(map[string]int, len(enc.Participants)),
		live:       make(map[string]int, len(enc.Participants)),
		active:     make(map[string]bool, len(enc.Participants)),
		rng:        NewRoundStream(enc.BaseSeed, enc.Round),
		outcome:    newRoundOutcome(enc.Round),
	}

	// Stable visitation order for every phase
	for id := range enc.Participants {
		st.order = append(st.order, id)
	}
	sort.Strings(st.order)

	st.normalizeActions(actions)
	st.resolveFlee()

	if early := st.earlyTermination(); early {
		st.finishSnapshots()
		st.applyOverrides(checks)
		return st.outcome
	}

	st.resolveAttacks()
	st.ablateShields()
	st.deriveEndState()
	st.applyOverrides(checks)
	return st.outcome
}

// Phase A: coerce every submitted action into a well-formed effective action
// and precompute shield mitigation and starting snapshots.
func (st *resolverState) normalizeActions(submitted map[string]*RoundAction) {
	for _, id := range st.order {
		p := st.enc.Participants[id]

		var a *RoundAction
		if s, ok := submitted[id]; ok && s != nil {
			a = s.clone()
		} else {
			a = &RoundAction{Type: ActionBrace}
		}

		switch a.Type {
		case ActionAttack:
			if a.Commit > p.Fighters {
				a.Commit = p.Fighters
			}
			if a.Commit < 0 {
				a.Commit = 0
			}
			target, ok := st.enc.Participants[a.TargetID]
			if a.Commit == 0 || a.TargetID == "" || a.TargetID == id || !ok || target == nil {
				a.Type = ActionBrace
				a.Commit = 0
				a.TargetID = ""
			}
		case ActionFlee:
			a.Commit = 0
			a.TargetID = ""
		default:
			a.Type = normalizeBraceLike(a.Type)
			a.Commit = 0
			a.TargetID = ""
			if a.Type != ActionPay {
				a.Type = ActionBrace
			}
		}

		mit := float64(p.Shields) * mitigationPerShield
		if mit > maxMitigation {
			mit = maxMitigation
		}
		if a.Type == ActionBrace {
			mit *= braceMitigationMult
		}
		if mit > maxMitigation {
			mit = maxMitigation
		}
		if mit < 0 {
			mit = 0
		}

		st.actions[id] = a
		st.mitigation[id] = mit
		st.startF[id] = p.Fighters
		st.startS[id] = p.Shields
		st.live[id] = p.Fighters
		st.active[id] = true
		st.outcome.Names[id] = p.Name
		st.outcome.EffectiveActions[id] = a
	}
}

// pay keeps its tag for toll bookkeeping but resolves like brace for damage
func normalizeBraceLike(t ActionType) ActionType {
	if t == ActionPay {
		return ActionPay
	}
	return ActionBrace
}

// Phase B: resolve flee attempts in stable id order. The fleer contests the
// strongest remaining opponent; with no opponents left, flee succeeds
// automatically.
func (st *resolverState) resolveFlee() {
	for _, id := range st.order {
		if st.actions[id].Type != ActionFlee {
			continue
		}
		fleer := st.enc.Participants[id]

		opponentID := ""
		best := -1
		for _, oid := range st.order {
			if oid == id || !st.active[oid] {
				continue
			}
			if st.live[oid] > best || (st.live[oid] == best && (opponentID == "" || oid < opponentID)) {
				best = st.live[oid]
				opponentID = oid
			}
		}

		if opponentID == "" {
			st.outcome.FleeSuccess[id] = true
			delete(st.active, id)
			continue
		}

		opponent := st.enc.Participants[opponentID]
		p := baseFleeChance + 0.1*float64(fleer.TurnsPerWarp-opponent.TurnsPerWarp)
		p = clamp(p, minFleeChance, maxFleeChance)
		if st.rng.Float64() < p {
			st.outcome.FleeSuccess[id] = true
			delete(st.active, id)
		} else {
			st.outcome.FleeSuccess[id] = false
		}
	}
}

// Phase C: end the round immediately when nobody left wants to fight
func (st *resolverState) earlyTermination() bool {
	anyAttack := false
	for id, active := range st.active {
		if active && st.actions[id].Type == ActionAttack {
			anyAttack = true
			break
		}
	}
	if anyAttack {
		return false
	}

	for _, id := range st.order {
		if st.outcome.FleeSuccess[id] {
			st.outcome.EndState = EndFled(st.enc.Participants[id].Name)
			return true
		}
	}

	// A failed fleer is not bracing; the round passes without damage and
	// combat continues.
	for id, active := range st.active {
		if active && st.actions[id].Type == ActionFlee {
			return false
		}
	}

	st.outcome.EndState = EndStalemate
	return true
}

func (st *resolverState) finishSnapshots() {
	for _, id := range st.order {
		st.outcome.FightersRemaining[id] = st.live[id]
		st.outcome.ShieldsRemaining[id] = st.startS[id]
	}
}

type attacker struct {
	id        string
	targetID  string
	remaining int
}

// Phase D: serialize attack commits into per-attacker exchanges. One commit
// is spent per attacker per pass, which gives parallel attackers symmetric
// opportunity regardless of commit sizes.
func (st *resolverState) resolveAttacks() {
	var attackers []*attacker
	for _, id := range st.order {
		a := st.actions[id]
		if !st.active[id] || a.Type != ActionAttack || a.Commit <= 0 {
			continue
		}
		attackers = append(attackers, &attacker{id: id, targetID: a.TargetID, remaining: a.Commit})
	}

	sort.SliceStable(attackers, func(i, j int) bool {
		a, b := attackers[i], attackers[j]
		if st.startF[a.id] != st.startF[b.id] {
			return st.startF[a.id] < st.startF[b.id]
		}
		pa, pb := st.enc.Participants[a.id], st.enc.Participants[b.id]
		if pa.TurnsPerWarp != pb.TurnsPerWarp {
			return pa.TurnsPerWarp < pb.TurnsPerWarp
		}
		return a.id < b.id
	})

	for {
		progress := false
		for _, at := range attackers {
			if at.remaining <= 0 {
				continue
			}
			if st.live[at.id] <= 0 || st.live[at.targetID] <= 0 || !st.active[at.targetID] {
				at.remaining = 0
				continue
			}

			p := baseHitChance - 0.6*st.mitigation[at.targetID] + 0.1*st.mitigation[at.id]
			p = clamp(p, minHitChance, maxHitChance)
			if st.rng.Float64() < p {
				st.outcome.Hits[at.id]++
				st.outcome.DefensiveLosses[at.targetID]++
				st.live[at.targetID]--
			} else {
				st.outcome.OffensiveLosses[at.id]++
				st.live[at.id]--
			}
			at.remaining--
			progress = true
		}
		if !progress {
			break
		}
	}

	for _, id := range st.order {
		st.outcome.FightersRemaining[id] = st.live[id]
	}
}

// Phase E: defensive losses ablate shields, bracing softens the loss
func (st *resolverState) ablateShields() {
	for _, id := range st.order {
		loss := math.Ceil(float64(st.outcome.DefensiveLosses[id]) * 0.5)
		if st.actions[id].Type == ActionBrace {
			loss = math.Ceil(loss * 0.8)
		}
		st.outcome.ShieldLoss[id] = int(loss)
		remaining := st.startS[id] - int(loss)
		if remaining < 0 {
			remaining = 0
		}
		st.outcome.ShieldsRemaining[id] = remaining
	}
}

// Phase F: derive the terminal state from survivors and fleers
func (st *resolverState) deriveEndState() {
	var survivors, losers, fleers []string
	for _, id := range st.order {
		if st.outcome.FleeSuccess[id] {
			fleers = append(fleers, id)
			continue
		}
		if st.outcome.FightersRemaining[id] > 0 {
			survivors = append(survivors, id)
		} else {
			losers = append(losers, id)
		}
	}

	switch len(survivors) {
	case 0:
		anyFightersLeft := false
		for _, id := range st.order {
			if st.outcome.FightersRemaining[id] > 0 {
				anyFightersLeft = true
				break
			}
		}
		if len(fleers) > 0 && anyFightersLeft {
			st.outcome.EndState = EndStalemate
		} else {
			st.outcome.EndState = EndMutualDefeat
		}
	case 1:
		switch {
		case len(losers) == 1:
			st.outcome.EndState = EndDefeated(st.enc.Participants[losers[0]].Name)
		case len(losers) > 1:
			st.outcome.EndState = EndVictory
		case len(fleers) == len(st.order)-1:
			st.outcome.EndState = EndStalemate
		}
	}
}

func (st *resolverState) applyOverrides(checks *ResolverChecks) {
	if checks == nil || st.outcome.EndState != "" {
		return
	}
	if checks.TollSatisfied != nil && checks.TollSatisfied(st.outcome) {
		st.outcome.EndState = EndTollSatisfied
		return
	}
	if checks.AllFriendly != nil && checks.AllFriendly(st.outcome) {
		st.outcome.EndState = EndNoHostiles
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

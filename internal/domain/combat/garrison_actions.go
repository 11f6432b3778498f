package combat

import "sort"

// Garrison auto-actions, synthesized between action collection and
// resolution. Garrisons never submit; their posture decides for them.

// AutoActions returns one synthesized action per garrison participant. The
// submitted map is consulted for defensive retaliation; tolls holds the
// current round's payment marks.
func AutoActions(participants map[string]*Combatant, submitted map[string]*RoundAction, tolls TollRegistry) map[string]*RoundAction {
	order := make([]string, 0, len(participants))
	for id := range participants {
		order = append(order, id)
	}
	sort.Strings(order)

	actions := make(map[string]*RoundAction)
	for _, id := range order {
		g := participants[id]
		if !g.IsGarrison() {
			continue
		}
		actions[id] = garrisonAction(g, order, participants, submitted, tolls)
	}
	return actions
}

func garrisonAction(g *Combatant, order []string, participants map[string]*Combatant, submitted map[string]*RoundAction, tolls TollRegistry) *RoundAction {
	switch g.Mode {
	case GarrisonOffensive:
		target := strongestWhere(order, participants, func(c *Combatant) bool {
			return c.IsCharacter() && !g.SameSide(c)
		})
		if target != "" {
			return &RoundAction{Type: ActionAttack, Commit: g.Fighters, TargetID: target}
		}

	case GarrisonDefensive:
		target := strongestWhere(order, participants, func(c *Combatant) bool {
			a, ok := submitted[c.ID]
			if !ok || a == nil || a.Type != ActionAttack {
				return false
			}
			return a.TargetID == g.ID || (g.OwnerID != "" && a.TargetID == g.OwnerID)
		})
		if target != "" {
			return &RoundAction{Type: ActionAttack, Commit: g.Fighters, TargetID: target}
		}

	case GarrisonToll:
		target := strongestWhere(order, participants, func(c *Combatant) bool {
			return c.IsCharacter() && !g.SameSide(c) && !tolls.HasPaid(g.OwnerID, c.ID)
		})
		if target != "" {
			return &RoundAction{Type: ActionAttack, Commit: g.Fighters, TargetID: target}
		}
	}

	return &RoundAction{Type: ActionBrace}
}

// strongestWhere picks the matching combatant with the greatest live fighter
// count, tie-broken by id ascending.
func strongestWhere(order []string, participants map[string]*Combatant, match func(*Combatant) bool) string {
	best := ""
	bestFighters := -1
	for _, id := range order {
		c := participants[id]
		if c.Fighters <= 0 || !match(c) {
			continue
		}
		if c.Fighters > bestFighters {
			best = id
			bestFighters = c.Fighters
		}
	}
	return best
}

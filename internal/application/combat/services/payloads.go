package services

import (
	"sort"
	"time"

	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/event"
	"github.com/avelasquez/quadrant-go/internal/domain/sector"
)

// Wire payload builders. The legacy client keys the per-participant maps in
// combat.round_resolved by display name, not id; internal maps stay id-keyed
// and translate here at the boundary. The end/result/round_result fields all
// carry the same value until clients are confirmed to consume only one.

// RoundWaitingPayload builds the combat.round_waiting payload
func RoundWaitingPayload(enc *combat.Encounter, source event.SourceStamp, now time.Time) map[string]interface{} {
	var participants []map[string]interface{}
	var garrison map[string]interface{}
	for _, id := range sortedParticipantIDs(enc) {
		p := enc.Participants[id]
		entry := map[string]interface{}{
			"id":        p.ID,
			"name":      p.Name,
			"kind":      string(p.Kind),
			"fighters":  p.Fighters,
			"shields":   p.Shields,
			"ship_type": p.ShipType,
		}
		participants = append(participants, entry)
		if p.IsGarrison() && garrison == nil {
			garrison = map[string]interface{}{
				"id":          p.ID,
				"owner_id":    p.OwnerID,
				"mode":        string(p.Mode),
				"fighters":    p.Fighters,
				"toll_amount": p.TollAmount,
			}
		}
	}

	payload := map[string]interface{}{
		"source":       source.Payload(),
		"combat_id":    enc.ID.String(),
		"sector":       map[string]interface{}{"id": enc.SectorID},
		"round":        enc.Round,
		"current_time": now.UTC().Format(time.RFC3339),
		"participants": participants,
		"garrison":     garrison,
	}
	if enc.Deadline != nil {
		payload["deadline"] = enc.Deadline.UTC().Format(time.RFC3339)
	} else {
		payload["deadline"] = nil
	}
	if enc.Context != nil && enc.Context.InitiatorID != "" {
		payload["initiator"] = enc.Context.InitiatorID
	}
	return payload
}

// RoundResolvedPayload builds the combat.round_resolved payload
func RoundResolvedPayload(enc *combat.Encounter, outcome *combat.RoundOutcome, source event.SourceStamp, now time.Time) map[string]interface{} {
	payload := RoundWaitingPayload(enc, source, now)

	names := displayNames(enc, outcome)
	payload["hits"] = nameKeyedInts(outcome.Hits, names)
	payload["offensive_losses"] = nameKeyedInts(outcome.OffensiveLosses, names)
	payload["defensive_losses"] = nameKeyedInts(outcome.DefensiveLosses, names)
	payload["shield_loss"] = nameKeyedInts(outcome.ShieldLoss, names)
	payload["fighters_remaining"] = nameKeyedInts(outcome.FightersRemaining, names)
	payload["shields_remaining"] = nameKeyedInts(outcome.ShieldsRemaining, names)
	payload["flee_results"] = nameKeyedBools(outcome.FleeSuccess, names)
	payload["actions"] = nameKeyedActions(outcome.EffectiveActions, names)

	end := endValue(outcome.EndState)
	payload["end"] = end
	payload["result"] = end
	payload["round_result"] = end
	payload["round"] = outcome.Round
	return payload
}

// CombatEndedPayload builds one viewer's personalized combat.ended payload.
// The ship entry is the viewer's own post-combat snapshot so clients never
// see another viewer's escape-pod state.
func CombatEndedPayload(
	enc *combat.Encounter,
	outcome *combat.RoundOutcome,
	salvage []*sector.Salvage,
	viewerShip map[string]interface{},
	source event.SourceStamp,
	now time.Time,
) map[string]interface{} {
	payload := RoundResolvedPayload(enc, outcome, source, now)

	var salvageList []map[string]interface{}
	for _, s := range salvage {
		salvageList = append(salvageList, SalvageEntry(s))
	}
	payload["salvage"] = salvageList

	var logs []map[string]interface{}
	for _, rec := range enc.Log {
		logs = append(logs, map[string]interface{}{
			"round":       rec.Round,
			"resolved_at": rec.ResolvedAt.UTC().Format(time.RFC3339),
			"end":         endValue(rec.Outcome.EndState),
		})
	}
	payload["logs"] = logs
	payload["ship"] = viewerShip
	return payload
}

// ShipDestroyedPayload builds the ship.destroyed payload
func ShipDestroyedPayload(d *DestroyedShip, enc *combat.Encounter, source event.SourceStamp, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"source":          source.Payload(),
		"timestamp":       now.UTC().Format(time.RFC3339),
		"ship_id":         d.ShipID.String(),
		"ship_type":       d.ShipType,
		"ship_name":       d.ShipName,
		"player_type":     string(d.PlayerType),
		"player_name":     d.PlayerName,
		"sector":          map[string]interface{}{"id": enc.SectorID},
		"combat_id":       enc.ID.String(),
		"salvage_created": d.SalvageCreated,
	}
}

// SalvageCreatedPayload builds the salvage.created payload
func SalvageCreatedPayload(s *sector.Salvage, source event.SourceStamp, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"source":         source.Payload(),
		"timestamp":      now.UTC().Format(time.RFC3339),
		"salvage_id":     s.ID.String(),
		"sector":         map[string]interface{}{"id": s.SectorID},
		"cargo":          cargoPayload(s.Cargo),
		"scrap":          s.Scrap,
		"credits":        s.Credits,
		"from_ship_type": s.FromShipType,
		"from_ship_name": s.FromShipName,
	}
}

// SalvageEntry builds the public view of one salvage item
func SalvageEntry(s *sector.Salvage) map[string]interface{} {
	return map[string]interface{}{
		"salvage_id":     s.ID.String(),
		"cargo":          cargoPayload(s.Cargo),
		"scrap":          s.Scrap,
		"credits":        s.Credits,
		"expires_at":     s.ExpiresAt.UTC().Format(time.RFC3339),
		"claimed":        s.Claimed,
		"from_ship_type": s.FromShipType,
		"from_ship_name": s.FromShipName,
	}
}

func sortedParticipantIDs(enc *combat.Encounter) []string {
	ids := make([]string, 0, len(enc.Participants))
	for id := range enc.Participants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// displayNames merges current participants with the names recorded in the
// outcome, so combatants that fled and left the encounter still translate to
// their display name instead of leaking the raw id.
func displayNames(enc *combat.Encounter, outcome *combat.RoundOutcome) map[string]string {
	names := make(map[string]string, len(enc.Participants))
	for id, p := range enc.Participants {
		names[id] = p.Name
	}
	if outcome != nil {
		for id, name := range outcome.Names {
			if name != "" {
				names[id] = name
			}
		}
	}
	return names
}

func nameFor(id string, names map[string]string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

func nameKeyedInts(m map[string]int, names map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for id, v := range m {
		out[nameFor(id, names)] = v
	}
	return out
}

func nameKeyedBools(m map[string]bool, names map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for id, v := range m {
		out[nameFor(id, names)] = v
	}
	return out
}

func nameKeyedActions(m map[string]*combat.RoundAction, names map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for id, a := range m {
		entry := map[string]interface{}{
			"action":    string(a.Type),
			"commit":    a.Commit,
			"timed_out": a.TimedOut,
		}
		if a.TargetID != "" {
			entry["target"] = nameFor(a.TargetID, names)
		}
		out[nameFor(id, names)] = entry
	}
	return out
}

func endValue(endState string) interface{} {
	if endState == "" {
		return nil
	}
	return endState
}

func cargoPayload[K ~string](cargo map[K]int) map[string]interface{} {
	out := make(map[string]interface{}, len(cargo))
	for k, v := range cargo {
		out[string(k)] = v
	}
	return out
}

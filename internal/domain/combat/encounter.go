package combat

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"

	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// Encounter creation reasons
const (
	ReasonAttack         = "attack"
	ReasonGarrisonDeploy = "garrison_deploy"
	ReasonAutoEngage     = "auto_engage"
)

// TollRegistry records, per garrison owner, which characters have paid the
// toll for the current round. It is reset when a new round opens.
type TollRegistry map[string]map[string]bool

// MarkPaid records that a character satisfied a garrison owner's toll
func (t TollRegistry) MarkPaid(ownerID, characterID string) {
	if t[ownerID] == nil {
		t[ownerID] = make(map[string]bool)
	}
	t[ownerID][characterID] = true
}

// HasPaid reports whether a character paid the given garrison owner this round
func (t TollRegistry) HasPaid(ownerID, characterID string) bool {
	return t[ownerID][characterID]
}

// Reset clears all payment marks for a new round
func (t TollRegistry) Reset() {
	for k := range t {
		delete(t, k)
	}
}

// EncounterContext is the immutable-ish creation context plus the per-round
// toll registry.
type EncounterContext struct {
	InitiatorID string
	CreatedAt   time.Time
	Reason      string
	Tolls       TollRegistry
}

// RoundRecord is one entry in the encounter's ordered log of past rounds
type RoundRecord struct {
	Round      int
	ResolvedAt time.Time
	Outcome    *RoundOutcome
}

// Encounter is one combat instance in one sector, spanning one or more
// rounds. At most one non-ended encounter exists per sector; once Ended is
// set the encounter is immutable and a new fight gets a new id.
type Encounter struct {
	ID             uuid.UUID
	SectorID       int
	Round          int
	Deadline       *time.Time
	Participants   map[string]*Combatant
	PendingActions map[string]*RoundAction
	Log            []*RoundRecord
	BaseSeed       uint64
	Context        *EncounterContext

	AwaitingResolution bool
	Ended              bool
	EndState           string
}

// SeedFromID derives the immutable base seed from the first 48 bits of the
// encounter id.
func SeedFromID(id uuid.UUID) uint64 {
	var buf [8]byte
	copy(buf[:6], id[:6])
	return binary.BigEndian.Uint64(buf[:])
}

// NewEncounter creates a round-1 encounter for a sector. The caller loads
// participants and sets the first deadline before persisting.
func NewEncounter(sectorID int, initiatorID, reason string, clock shared.Clock) *Encounter {
	id := uuid.New()
	return &Encounter{
		ID:             id,
		SectorID:       sectorID,
		Round:          1,
		Participants:   make(map[string]*Combatant),
		PendingActions: make(map[string]*RoundAction),
		BaseSeed:       SeedFromID(id),
		Context: &EncounterContext{
			InitiatorID: initiatorID,
			CreatedAt:   clock.Now(),
			Reason:      reason,
			Tolls:       make(TollRegistry),
		},
	}
}

// AddParticipant registers a combatant. Joining mid-encounter takes effect at
// the start of the next round; the current round and deadline are untouched.
func (e *Encounter) AddParticipant(c *Combatant) error {
	if e.Ended {
		return shared.NewStateConflictError("encounter has ended")
	}
	e.Participants[c.ID] = c
	return nil
}

// SubmitAction records a combatant's intent for the current round, replacing
// any earlier submission from the same combatant.
func (e *Encounter) SubmitAction(combatantID string, action *RoundAction) error {
	if e.Ended {
		return shared.NewStateConflictError("encounter has ended")
	}
	if _, ok := e.Participants[combatantID]; !ok {
		return shared.NewStateConflictError("combatant is not part of this encounter")
	}
	e.PendingActions[combatantID] = action
	return nil
}

// LiveCharacterIDs returns the ids of character combatants that still have
// fighters, in no particular order.
func (e *Encounter) LiveCharacterIDs() []string {
	var ids []string
	for id, p := range e.Participants {
		if p.IsCharacter() && p.Fighters > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// AllLiveCharactersSubmitted reports whether every live character combatant
// has a pending action for the current round. Used for the fast path that
// resolves before the deadline.
func (e *Encounter) AllLiveCharactersSubmitted() bool {
	for _, id := range e.LiveCharacterIDs() {
		if _, ok := e.PendingActions[id]; !ok {
			return false
		}
	}
	return len(e.LiveCharacterIDs()) > 0
}

// EffectiveActions builds the full action map for resolution: pending
// submissions plus timeout-brace for every live character that never
// submitted. Garrison auto-actions are appended by the caller.
func (e *Encounter) EffectiveActions(now time.Time) map[string]*RoundAction {
	actions := make(map[string]*RoundAction, len(e.Participants))
	for id, a := range e.PendingActions {
		actions[id] = a
	}
	for _, id := range e.LiveCharacterIDs() {
		if _, ok := actions[id]; !ok {
			actions[id] = TimeoutBrace(now)
		}
	}
	return actions
}

// ApplyOutcome writes a resolved round back into the encounter: participant
// deltas, the round log entry, and either the terminal state or the next
// round with regenerated shields.
func (e *Encounter) ApplyOutcome(outcome *RoundOutcome, shieldRegen int, clock shared.Clock, roundTimeout time.Duration) error {
	if e.Ended {
		return shared.NewStateConflictError("encounter has ended")
	}
	if outcome.Round != e.Round {
		return shared.NewStateConflictError("outcome round does not match encounter round")
	}

	for id, p := range e.Participants {
		if f, ok := outcome.FightersRemaining[id]; ok {
			p.Fighters = f
		}
		if s, ok := outcome.ShieldsRemaining[id]; ok {
			p.Shields = s
		}
	}

	e.Log = append(e.Log, &RoundRecord{
		Round:      e.Round,
		ResolvedAt: clock.Now(),
		Outcome:    outcome,
	})
	e.PendingActions = make(map[string]*RoundAction)
	e.AwaitingResolution = false

	if outcome.EndState != "" {
		e.Ended = true
		e.EndState = outcome.EndState
		e.Deadline = nil
		return nil
	}

	// Drop combatants that fled successfully; survivors regenerate shields
	for id := range outcome.FleeSuccess {
		if outcome.FleeSuccess[id] {
			delete(e.Participants, id)
		}
	}
	for _, p := range e.Participants {
		if p.Fighters > 0 && !p.IsEscapePod {
			p.Shields += shieldRegen
			if p.Shields > p.MaxShields {
				p.Shields = p.MaxShields
			}
		}
	}

	e.Round++
	e.Context.Tolls.Reset()
	deadline := clock.Now().Add(roundTimeout)
	e.Deadline = &deadline
	return nil
}

// DeadlineElapsed reports whether the current round's deadline has passed
func (e *Encounter) DeadlineElapsed(now time.Time) bool {
	return e.Deadline != nil && !e.Ended && now.After(*e.Deadline)
}

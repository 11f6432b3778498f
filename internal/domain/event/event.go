package event

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the combat and sector subsystem
const (
	TypeCombatRoundWaiting  = "combat.round_waiting"
	TypeCombatRoundResolved = "combat.round_resolved"
	TypeCombatEnded         = "combat.ended"
	TypeShipDestroyed       = "ship.destroyed"
	TypeSalvageCreated      = "salvage.created"
	TypeSalvageClaimed      = "salvage.claimed"
	TypeSectorUpdate        = "sector.update"
	TypeStatusSnapshot      = "status.snapshot"
	TypeError               = "error"
)

// Scope tags the audience class of an event
type Scope string

const (
	ScopeDirect    Scope = "direct"
	ScopeSector    Scope = "sector"
	ScopeCorp      Scope = "corp"
	ScopeBroadcast Scope = "broadcast"
	ScopeSystem    Scope = "system"
)

// SourceStamp identifies the handler invocation that produced an event
type SourceStamp struct {
	Method    string
	RequestID string
	Timestamp time.Time
}

// Payload builds the wire form of a source stamp
func (s SourceStamp) Payload() map[string]interface{} {
	return map[string]interface{}{
		"method":     s.Method,
		"request_id": s.RequestID,
		"timestamp":  s.Timestamp.UTC().Format(time.RFC3339),
	}
}

// NewSourceStamp creates a stamp with a fresh request id
func NewSourceStamp(method string, now time.Time) SourceStamp {
	return SourceStamp{
		Method:    method,
		RequestID: uuid.NewString(),
		Timestamp: now,
	}
}

// GameEvent is one persisted event row plus its recipient list. There is no
// per-recipient fan-out message: the recipient list is the subscription
// index clients query their inbox against. ID is assigned by the store and
// is monotonic, giving each character a total order over its events.
type GameEvent struct {
	ID               int64
	Type             string
	Scope            Scope
	SectorID         *int
	ActorCharacterID string
	CorporationID    string
	ShipID           string
	Payload          map[string]interface{}
	Source           SourceStamp
	Recipients       []Recipient
	CreatedAt        time.Time
}

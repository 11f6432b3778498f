package commands

import (
	"github.com/google/uuid"
)

// EngageCommand starts or joins combat by attacking in the actor's sector.
// When the sector has no active encounter, one is created.
type EngageCommand struct {
	ActorID       string
	SectorID      int
	TargetID      string
	Commit        int
	AdminOverride bool
}

// EngageResponse reports the encounter the attack landed in
type EngageResponse struct {
	CombatID  uuid.UUID
	Round     int
	RequestID string
}

// SubmitActionCommand records a combatant's intent for the current round.
// Resubmission before the deadline replaces the earlier action.
type SubmitActionCommand struct {
	ActorID     string
	SectorID    int
	Action      string
	Commit      int
	TargetID    string
	Destination int
}

// SubmitActionResponse reports whether the submission completed the round
type SubmitActionResponse struct {
	CombatID  uuid.UUID
	Round     int
	Resolved  bool
	RequestID string
}

// ResolveRoundCommand resolves the current round of a sector's encounter.
// Round makes deadline-triggered resolutions idempotent: a command whose
// Round is behind the persisted round is a successful no-op.
type ResolveRoundCommand struct {
	SectorID int
	Round    int
	Method   string
}

// ResolveRoundResponse reports the resolution result
type ResolveRoundResponse struct {
	CombatID uuid.UUID
	Round    int
	Ended    bool
	EndState string
	Skipped  bool
}

// DeployGarrisonCommand stations fighters in a sector
type DeployGarrisonCommand struct {
	ActorID    string
	SectorID   int
	Fighters   int
	Mode       string
	TollAmount int
}

// DeployGarrisonResponse reports the deployment
type DeployGarrisonResponse struct {
	CombatID  *uuid.UUID
	RequestID string
}

// ArriveInSectorCommand handles a character's arrival: auto-join of an
// active encounter, or auto-engage against an offensive or toll garrison.
type ArriveInSectorCommand struct {
	CharacterID string
	SectorID    int
}

// ArriveInSectorResponse reports what the arrival triggered
type ArriveInSectorResponse struct {
	CombatID  *uuid.UUID
	Joined    bool
	RequestID string
}

// ClaimSalvageCommand claims a wreck in the actor's sector
type ClaimSalvageCommand struct {
	ActorID   string
	SalvageID uuid.UUID
}

// ClaimSalvageResponse reports what the claim yielded
type ClaimSalvageResponse struct {
	Credits   int
	Scrap     int
	RequestID string
}

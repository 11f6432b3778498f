package combat

import "fmt"

// CombatantKind distinguishes the two combatant variants
type CombatantKind string

const (
	KindCharacter CombatantKind = "character"
	KindGarrison  CombatantKind = "garrison"
)

// PlayerType distinguishes human pilots from corporation-owned autonomous ships
type PlayerType string

const (
	PlayerTypeHuman           PlayerType = "human"
	PlayerTypeCorporationShip PlayerType = "corporation_ship"
)

// GarrisonMode is a garrison's configured posture
type GarrisonMode string

const (
	GarrisonOffensive GarrisonMode = "offensive"
	GarrisonDefensive GarrisonMode = "defensive"
	GarrisonToll      GarrisonMode = "toll"
)

// Combatant is a character-piloted ship or a garrison as seen by the round
// resolver. Combatants are value snapshots denormalized into the encounter at
// round start; ship rows are referenced weakly through ShipID.
type Combatant struct {
	ID           string
	Kind         CombatantKind
	Name         string
	Fighters     int
	Shields      int
	MaxFighters  int
	MaxShields   int
	TurnsPerWarp int
	IsEscapePod  bool

	// Character fields
	ShipID        string
	ShipType      string
	CorporationID string
	PlayerType    PlayerType

	// Garrison fields. OwnerID is the owning character for garrisons and the
	// pseudo-character for corporation ships.
	OwnerID    string
	Mode       GarrisonMode
	TollAmount int

	Metadata map[string]interface{}
}

// GarrisonCombatantID builds the well-known combatant id for a garrison
func GarrisonCombatantID(sectorID int, ownerID string) string {
	return fmt.Sprintf("garrison:%d:%s", sectorID, ownerID)
}

// IsGarrison reports whether this combatant is a garrison
func (c *Combatant) IsGarrison() bool {
	return c.Kind == KindGarrison
}

// IsCharacter reports whether this combatant is a character-piloted ship
func (c *Combatant) IsCharacter() bool {
	return c.Kind == KindCharacter
}

// SameSide reports whether two combatants are friendly: same owner, one owns
// the other, or both belong to the same corporation.
func (c *Combatant) SameSide(o *Combatant) bool {
	if c.ID == o.ID {
		return true
	}
	if c.OwnerID != "" && (c.OwnerID == o.ID || c.OwnerID == o.OwnerID) {
		return true
	}
	if o.OwnerID != "" && o.OwnerID == c.ID {
		return true
	}
	if c.CorporationID != "" && c.CorporationID == o.CorporationID {
		return true
	}
	return false
}

func (c *Combatant) clone() *Combatant {
	cp := *c
	if c.Metadata != nil {
		cp.Metadata = make(map[string]interface{}, len(c.Metadata))
		for k, v := range c.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

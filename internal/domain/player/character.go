package player

import "github.com/google/uuid"

// CharacterType distinguishes human players from the pseudo-characters that
// pilot corporation-owned ships.
type CharacterType string

const (
	CharacterHuman           CharacterType = "human"
	CharacterCorporationShip CharacterType = "corporation_ship"
)

// Character is a pilot: a human player or a corporation pseudo-character
type Character struct {
	ID            string
	Name          string
	Type          CharacterType
	CorporationID string
	CurrentShipID *uuid.UUID
	Credits       int
}

// IsHuman reports whether this is a real player
func (c *Character) IsHuman() bool {
	return c.Type == CharacterHuman
}

// Pilots reports whether the character currently flies the given ship.
// Guards against stale pilot references during participant loading.
func (c *Character) Pilots(shipID uuid.UUID) bool {
	return c.CurrentShipID != nil && *c.CurrentShipID == shipID
}

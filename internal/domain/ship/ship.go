package ship

import (
	"github.com/google/uuid"
)

// Commodity is the fixed enum of cargo resources
type Commodity string

const (
	CommodityOre       Commodity = "ore"
	CommodityOrganics  Commodity = "organics"
	CommodityEquipment Commodity = "equipment"
	CommodityColonists Commodity = "colonists"
)

// Commodities lists every cargo resource in canonical order
func Commodities() []Commodity {
	return []Commodity{CommodityOre, CommodityOrganics, CommodityEquipment, CommodityColonists}
}

// EscapePodType is the ship type a destroyed player ship degrades into
const EscapePodType = "escape_pod"

// Ship represents one hull in the world. Fighters and Shields are nil until
// first written, in which case the template values apply. Version backs
// optimistic-concurrency updates in the persistence layer.
type Ship struct {
	ID       uuid.UUID
	Name     string
	Type     string
	SectorID int

	// OwnerCharacterID is the piloting character; for corporation-owned
	// ships it is the corporation's pseudo-character and
	// OwnerCorporationID is set.
	OwnerCharacterID   string
	OwnerCorporationID string

	Fighters *int
	Shields  *int
	Cargo    map[Commodity]int
	Credits  int

	IsEscapePod  bool
	InHyperspace bool
	Destroyed    bool

	Version int
}

// CurrentFighters returns the ship's fighters, falling back to the template
func (s *Ship) CurrentFighters(tpl *Template) int {
	if s.Fighters != nil {
		return *s.Fighters
	}
	return tpl.MaxFighters
}

// CurrentShields returns the ship's shields, falling back to the template
func (s *Ship) CurrentShields(tpl *Template) int {
	if s.Shields != nil {
		return *s.Shields
	}
	return tpl.MaxShields
}

// SetFighters overwrites the ship's fighter count
func (s *Ship) SetFighters(n int) {
	s.Fighters = &n
}

// SetShields overwrites the ship's shield count
func (s *Ship) SetShields(n int) {
	s.Shields = &n
}

// ConvertToEscapePod degrades a destroyed player ship in place. The hull
// keeps its id so the character's current_ship_id stays valid.
func (s *Ship) ConvertToEscapePod() {
	s.Type = EscapePodType
	s.IsEscapePod = true
	s.SetFighters(0)
	s.SetShields(0)
	s.Cargo = make(map[Commodity]int)
	s.Credits = 0
}

// IsCorporationOwned reports whether the ship belongs to a corporation
// rather than a player character.
func (s *Ship) IsCorporationOwned() bool {
	return s.OwnerCorporationID != ""
}

package sector

import (
	"time"

	"github.com/avelasquez/quadrant-go/internal/domain/combat"
)

// Garrison is a stationed block of fighters owned by a character. A garrison
// row exists only while fighters > 0; finalization deletes exhausted rows.
type Garrison struct {
	SectorID           int
	OwnerID            string
	OwnerName          string
	OwnerCorporationID string
	Mode               combat.GarrisonMode
	Fighters           int
	TollAmount         int
	TollBalance        int
	DeployedAt         time.Time
}

// CombatantID returns the garrison's well-known combatant id
func (g *Garrison) CombatantID() string {
	return combat.GarrisonCombatantID(g.SectorID, g.OwnerID)
}

// Combatant builds the garrison's combat snapshot. Garrisons carry no
// shields; their mitigation is always zero.
func (g *Garrison) Combatant() *combat.Combatant {
	return &combat.Combatant{
		ID:            g.CombatantID(),
		Kind:          combat.KindGarrison,
		Name:          g.OwnerName + "'s garrison",
		Fighters:      g.Fighters,
		MaxFighters:   g.Fighters,
		OwnerID:       g.OwnerID,
		CorporationID: g.OwnerCorporationID,
		Mode:          g.Mode,
		TollAmount:    g.TollAmount,
	}
}

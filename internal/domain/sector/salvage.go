package sector

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelasquez/quadrant-go/internal/domain/ship"
)

// Salvage is a claimable wreck left behind by a destroyed ship. Entries live
// in a per-sector list and expire after a TTL; expired entries are pruned on
// the next write to the list.
type Salvage struct {
	ID        uuid.UUID
	SectorID  int
	CreatedAt time.Time
	ExpiresAt time.Time

	Cargo   map[ship.Commodity]int
	Scrap   int
	Credits int
	Claimed bool

	FromShipName string
	FromShipType string
	Metadata     map[string]interface{}
}

// scrap yield floor for even the cheapest hull
const minScrapYield = 5

// NewSalvage builds a salvage entry from a destroyed ship and its template
func NewSalvage(s *ship.Ship, tpl *ship.Template, now time.Time, ttl time.Duration) *Salvage {
	cargo := make(map[ship.Commodity]int, len(s.Cargo))
	for k, v := range s.Cargo {
		if v > 0 {
			cargo[k] = v
		}
	}

	scrap := tpl.PurchasePrice / 1000
	if scrap < minScrapYield {
		scrap = minScrapYield
	}

	return &Salvage{
		ID:           uuid.New(),
		SectorID:     s.SectorID,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		Cargo:        cargo,
		Scrap:        scrap,
		Credits:      s.Credits,
		FromShipName: s.Name,
		FromShipType: s.Type,
	}
}

// Expired reports whether the salvage is past its TTL
func (s *Salvage) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Claimable reports whether the salvage can still be claimed
func (s *Salvage) Claimable(now time.Time) bool {
	return !s.Claimed && !s.Expired(now)
}

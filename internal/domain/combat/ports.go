package combat

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EncounterRepository defines encounter persistence operations. Each Save
// persists a full snapshot; readers may observe stale but never partial
// state.
type EncounterRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Encounter, error)

	// FindActiveBySector returns the single non-ended encounter for a
	// sector, or nil when the sector is at peace.
	FindActiveBySector(ctx context.Context, sectorID int) (*Encounter, error)

	Save(ctx context.Context, encounter *Encounter) error

	// FindExpiredDeadlines returns active encounters whose round deadline
	// has passed, for the background sweeper.
	FindExpiredDeadlines(ctx context.Context, now time.Time) ([]*Encounter, error)
}

// SectorLocker serializes combat state transitions within a sector. Unlock
// must always be called; resolution holds the lock through resolve, persist
// and event emission.
type SectorLocker interface {
	Lock(ctx context.Context, sectorID int) (unlock func(), err error)
}

package sector

import (
	"context"

	"github.com/google/uuid"
)

// MapService exposes the universe topology. Federation-space sectors reject
// garrison deployment.
type MapService interface {
	AdjacentSectors(ctx context.Context, sectorID int) ([]int, error)
	IsFederationSpace(ctx context.Context, sectorID int) (bool, error)
	Region(ctx context.Context, sectorID int) (string, error)
}

// PortSummaryProvider exposes the public port view embedded in sector
// snapshots. Sectors without a port return nil.
type PortSummaryProvider interface {
	PortSummary(ctx context.Context, sectorID int) (map[string]interface{}, error)
}

// GarrisonRepository defines garrison persistence operations
type GarrisonRepository interface {
	FindBySector(ctx context.Context, sectorID int) ([]*Garrison, error)
	FindByOwner(ctx context.Context, sectorID int, ownerID string) (*Garrison, error)
	Save(ctx context.Context, g *Garrison) error
	Delete(ctx context.Context, sectorID int, ownerID string) error
}

// SalvageRepository defines salvage persistence operations. Writes prune
// expired entries from the sector's list.
type SalvageRepository interface {
	FindBySector(ctx context.Context, sectorID int) ([]*Salvage, error)
	Append(ctx context.Context, s *Salvage) error
	Save(ctx context.Context, s *Salvage) error
	FindByID(ctx context.Context, id uuid.UUID) (*Salvage, error)
}

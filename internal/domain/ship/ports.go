package ship

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines ship persistence operations. Save uses an
// optimistic-version check and returns a TransientStorageError on a version
// miss so callers can retry.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Ship, error)
	FindBySector(ctx context.Context, sectorID int) ([]*Ship, error)
	Save(ctx context.Context, s *Ship) error
	Delete(ctx context.Context, id uuid.UUID) error
}

package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// GormMapService implements sector.MapService and sector.PortSummaryProvider
// over the sectors and ports tables.
type GormMapService struct {
	db *gorm.DB
}

// NewGormMapService creates a new map service adapter
func NewGormMapService(db *gorm.DB) *GormMapService {
	return &GormMapService{db: db}
}

// AdjacentSectors returns the sectors reachable in one warp
func (s *GormMapService) AdjacentSectors(ctx context.Context, sectorID int) ([]int, error) {
	model, err := s.findSector(ctx, sectorID)
	if err != nil {
		return nil, err
	}

	var adjacent []int
	if model.Adjacent != "" {
		if err := json.Unmarshal([]byte(model.Adjacent), &adjacent); err != nil {
			return nil, fmt.Errorf("invalid adjacency list for sector %d: %w", sectorID, err)
		}
	}
	return adjacent, nil
}

// IsFederationSpace reports whether garrison deployment is prohibited
func (s *GormMapService) IsFederationSpace(ctx context.Context, sectorID int) (bool, error) {
	model, err := s.findSector(ctx, sectorID)
	if err != nil {
		return false, err
	}
	return model.FederationSpace, nil
}

// Region returns the sector's region tag
func (s *GormMapService) Region(ctx context.Context, sectorID int) (string, error) {
	model, err := s.findSector(ctx, sectorID)
	if err != nil {
		return "", err
	}
	return model.Region, nil
}

// PortSummary returns the sector's public port view, or nil when the sector
// has no port.
func (s *GormMapService) PortSummary(ctx context.Context, sectorID int) (map[string]interface{}, error) {
	var model PortModel
	result := s.db.WithContext(ctx).Where("sector_id = ?", sectorID).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find port: %w", result.Error)
	}

	return map[string]interface{}{
		"name":  model.Name,
		"class": model.Class,
	}, nil
}

func (s *GormMapService) findSector(ctx context.Context, sectorID int) (*SectorModel, error) {
	var model SectorModel
	result := s.db.WithContext(ctx).Where("id = ?", sectorID).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewSectorUnavailableError(sectorID)
		}
		return nil, fmt.Errorf("failed to find sector: %w", result.Error)
	}
	return &model, nil
}

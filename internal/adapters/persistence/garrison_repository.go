package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/sector"
)

// GormGarrisonRepository implements sector.GarrisonRepository using GORM
type GormGarrisonRepository struct {
	db *gorm.DB
}

// NewGormGarrisonRepository creates a new GORM garrison repository
func NewGormGarrisonRepository(db *gorm.DB) *GormGarrisonRepository {
	return &GormGarrisonRepository{db: db}
}

// FindBySector retrieves all garrisons in a sector
func (r *GormGarrisonRepository) FindBySector(ctx context.Context, sectorID int) ([]*sector.Garrison, error) {
	var models []GarrisonModel
	result := r.db.WithContext(ctx).Where("sector_id = ?", sectorID).Order("owner_id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find sector garrisons: %w", result.Error)
	}

	garrisons := make([]*sector.Garrison, 0, len(models))
	for i := range models {
		garrisons = append(garrisons, r.modelToGarrison(&models[i]))
	}
	return garrisons, nil
}

// FindByOwner retrieves one owner's garrison in a sector, or nil
func (r *GormGarrisonRepository) FindByOwner(ctx context.Context, sectorID int, ownerID string) (*sector.Garrison, error) {
	var model GarrisonModel
	result := r.db.WithContext(ctx).
		Where("sector_id = ? AND owner_id = ?", sectorID, ownerID).
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find garrison: %w", result.Error)
	}
	return r.modelToGarrison(&model), nil
}

// Save persists a garrison
func (r *GormGarrisonRepository) Save(ctx context.Context, g *sector.Garrison) error {
	result := r.db.WithContext(ctx).Save(r.garrisonToModel(g))
	if result.Error != nil {
		return fmt.Errorf("failed to save garrison: %w", result.Error)
	}
	return nil
}

// Delete removes a garrison row
func (r *GormGarrisonRepository) Delete(ctx context.Context, sectorID int, ownerID string) error {
	result := r.db.WithContext(ctx).
		Where("sector_id = ? AND owner_id = ?", sectorID, ownerID).
		Delete(&GarrisonModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete garrison: %w", result.Error)
	}
	return nil
}

func (r *GormGarrisonRepository) garrisonToModel(g *sector.Garrison) *GarrisonModel {
	return &GarrisonModel{
		SectorID:           g.SectorID,
		OwnerID:            g.OwnerID,
		OwnerName:          g.OwnerName,
		OwnerCorporationID: g.OwnerCorporationID,
		Mode:               string(g.Mode),
		Fighters:           g.Fighters,
		TollAmount:         g.TollAmount,
		TollBalance:        g.TollBalance,
		DeployedAt:         g.DeployedAt,
	}
}

func (r *GormGarrisonRepository) modelToGarrison(model *GarrisonModel) *sector.Garrison {
	return &sector.Garrison{
		SectorID:           model.SectorID,
		OwnerID:            model.OwnerID,
		OwnerName:          model.OwnerName,
		OwnerCorporationID: model.OwnerCorporationID,
		Mode:               combat.GarrisonMode(model.Mode),
		Fighters:           model.Fighters,
		TollAmount:         model.TollAmount,
		TollBalance:        model.TollBalance,
		DeployedAt:         model.DeployedAt,
	}
}

package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/quadrant-go/internal/domain/shared"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
)

// GormShipRepository implements ship.Repository using GORM. Save uses an
// optimistic version check; a version miss surfaces as a
// TransientStorageError so callers can retry.
type GormShipRepository struct {
	db *gorm.DB
}

// NewGormShipRepository creates a new GORM ship repository
func NewGormShipRepository(db *gorm.DB) *GormShipRepository {
	return &GormShipRepository{db: db}
}

// FindByID retrieves a ship by id
func (r *GormShipRepository) FindByID(ctx context.Context, id uuid.UUID) (*ship.Ship, error) {
	var model ShipModel
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewDataIntegrityError("ship not found: " + id.String())
		}
		return nil, fmt.Errorf("failed to find ship: %w", result.Error)
	}
	return r.modelToShip(&model)
}

// FindBySector retrieves all ships in a sector
func (r *GormShipRepository) FindBySector(ctx context.Context, sectorID int) ([]*ship.Ship, error) {
	var models []ShipModel
	result := r.db.WithContext(ctx).Where("sector_id = ?", sectorID).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find sector ships: %w", result.Error)
	}

	ships := make([]*ship.Ship, 0, len(models))
	for i := range models {
		s, err := r.modelToShip(&models[i])
		if err != nil {
			return nil, err
		}
		ships = append(ships, s)
	}
	return ships, nil
}

// Save persists a ship. New ships (version 0) are created at version 1;
// existing ships update only when the stored version matches, bumping it.
func (r *GormShipRepository) Save(ctx context.Context, s *ship.Ship) error {
	model, err := r.shipToModel(s)
	if err != nil {
		return fmt.Errorf("failed to convert ship to model: %w", err)
	}

	if s.Version == 0 {
		model.Version = 1
		if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
			return fmt.Errorf("failed to create ship: %w", result.Error)
		}
		s.Version = 1
		return nil
	}

	model.Version = s.Version + 1
	result := r.db.WithContext(ctx).
		Model(&ShipModel{}).
		Where("id = ? AND version = ?", model.ID, s.Version).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update ship: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewTransientStorageError(
			fmt.Sprintf("ship %s version %d is stale", model.ID, s.Version), nil)
	}
	s.Version++
	return nil
}

// Delete removes a ship row
func (r *GormShipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&ShipModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete ship: %w", result.Error)
	}
	return nil
}

func (r *GormShipRepository) shipToModel(s *ship.Ship) (*ShipModel, error) {
	cargo, err := json.Marshal(s.Cargo)
	if err != nil {
		return nil, err
	}

	return &ShipModel{
		ID:                 s.ID.String(),
		Name:               s.Name,
		Type:               s.Type,
		SectorID:           s.SectorID,
		OwnerCharacterID:   s.OwnerCharacterID,
		OwnerCorporationID: s.OwnerCorporationID,
		Fighters:           s.Fighters,
		Shields:            s.Shields,
		Cargo:              string(cargo),
		Credits:            s.Credits,
		IsEscapePod:        s.IsEscapePod,
		InHyperspace:       s.InHyperspace,
		Destroyed:          s.Destroyed,
		Version:            s.Version,
	}, nil
}

func (r *GormShipRepository) modelToShip(model *ShipModel) (*ship.Ship, error) {
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid ship id in database: %w", err)
	}

	cargo := make(map[ship.Commodity]int)
	if model.Cargo != "" {
		if err := json.Unmarshal([]byte(model.Cargo), &cargo); err != nil {
			return nil, fmt.Errorf("invalid ship cargo in database: %w", err)
		}
	}

	return &ship.Ship{
		ID:                 id,
		Name:               model.Name,
		Type:               model.Type,
		SectorID:           model.SectorID,
		OwnerCharacterID:   model.OwnerCharacterID,
		OwnerCorporationID: model.OwnerCorporationID,
		Fighters:           model.Fighters,
		Shields:            model.Shields,
		Cargo:              cargo,
		Credits:            model.Credits,
		IsEscapePod:        model.IsEscapePod,
		InHyperspace:       model.InHyperspace,
		Destroyed:          model.Destroyed,
		Version:            model.Version,
	}, nil
}

package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/quadrant-go/internal/domain/sector"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
)

// GormSalvageRepository implements sector.SalvageRepository using GORM.
// Writes prune expired entries from the sector's list.
type GormSalvageRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormSalvageRepository creates a new GORM salvage repository
func NewGormSalvageRepository(db *gorm.DB, clock shared.Clock) *GormSalvageRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormSalvageRepository{db: db, clock: clock}
}

// FindBySector retrieves all salvage rows in a sector, oldest first
func (r *GormSalvageRepository) FindBySector(ctx context.Context, sectorID int) ([]*sector.Salvage, error) {
	var models []SalvageModel
	result := r.db.WithContext(ctx).
		Where("sector_id = ?", sectorID).
		Order("created_at").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find sector salvage: %w", result.Error)
	}

	entries := make([]*sector.Salvage, 0, len(models))
	for i := range models {
		s, err := r.modelToSalvage(&models[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, s)
	}
	return entries, nil
}

// FindByID retrieves one salvage entry, or nil when it does not exist
func (r *GormSalvageRepository) FindByID(ctx context.Context, id uuid.UUID) (*sector.Salvage, error) {
	var model SalvageModel
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find salvage: %w", result.Error)
	}
	return r.modelToSalvage(&model)
}

// Append adds a new salvage entry and prunes the sector's expired rows
func (r *GormSalvageRepository) Append(ctx context.Context, s *sector.Salvage) error {
	model, err := r.salvageToModel(s)
	if err != nil {
		return fmt.Errorf("failed to convert salvage to model: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.prune(tx, s.SectorID, r.clock.Now()); err != nil {
			return err
		}
		if result := tx.Create(model); result.Error != nil {
			return fmt.Errorf("failed to append salvage: %w", result.Error)
		}
		return nil
	})
}

// Save updates an existing salvage entry (claim flag, remaining cargo)
func (r *GormSalvageRepository) Save(ctx context.Context, s *sector.Salvage) error {
	model, err := r.salvageToModel(s)
	if err != nil {
		return fmt.Errorf("failed to convert salvage to model: %w", err)
	}
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save salvage: %w", result.Error)
	}
	return nil
}

func (r *GormSalvageRepository) prune(tx *gorm.DB, sectorID int, now time.Time) error {
	result := tx.Where("sector_id = ? AND expires_at < ?", sectorID, now).Delete(&SalvageModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to prune expired salvage: %w", result.Error)
	}
	return nil
}

func (r *GormSalvageRepository) salvageToModel(s *sector.Salvage) (*SalvageModel, error) {
	cargo, err := json.Marshal(s.Cargo)
	if err != nil {
		return nil, err
	}
	metadata, err := json.Marshal(s.Metadata)
	if err != nil {
		return nil, err
	}

	return &SalvageModel{
		ID:           s.ID.String(),
		SectorID:     s.SectorID,
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
		Cargo:        string(cargo),
		Scrap:        s.Scrap,
		Credits:      s.Credits,
		Claimed:      s.Claimed,
		FromShipName: s.FromShipName,
		FromShipType: s.FromShipType,
		Metadata:     string(metadata),
	}, nil
}

func (r *GormSalvageRepository) modelToSalvage(model *SalvageModel) (*sector.Salvage, error) {
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid salvage id in database: %w", err)
	}

	cargo := make(map[ship.Commodity]int)
	if model.Cargo != "" {
		if err := json.Unmarshal([]byte(model.Cargo), &cargo); err != nil {
			return nil, fmt.Errorf("invalid salvage cargo in database: %w", err)
		}
	}

	var metadata map[string]interface{}
	if model.Metadata != "" && model.Metadata != "null" {
		if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
			metadata = nil
		}
	}

	return &sector.Salvage{
		ID:           id,
		SectorID:     model.SectorID,
		CreatedAt:    model.CreatedAt,
		ExpiresAt:    model.ExpiresAt,
		Cargo:        cargo,
		Scrap:        model.Scrap,
		Credits:      model.Credits,
		Claimed:      model.Claimed,
		FromShipName: model.FromShipName,
		FromShipType: model.FromShipType,
		Metadata:     metadata,
	}, nil
}

package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/avelasquez/quadrant-go/internal/domain/event"
)

// GormRecipientSources implements event.RecipientSources over the ships,
// characters, corporation_members and garrisons tables.
type GormRecipientSources struct {
	db *gorm.DB
}

// NewGormRecipientSources creates a new recipient sources adapter
func NewGormRecipientSources(db *gorm.DB) *GormRecipientSources {
	return &GormRecipientSources{db: db}
}

// SectorCharacterIDs returns characters whose current ship is in the sector
// and not in hyperspace.
func (r *GormRecipientSources) SectorCharacterIDs(ctx context.Context, sectorID int) ([]string, error) {
	var ids []string
	result := r.db.WithContext(ctx).
		Model(&CharacterModel{}).
		Joins("JOIN ships ON ships.id = characters.current_ship_id").
		Where("ships.sector_id = ? AND ships.in_hyperspace = ? AND ships.destroyed = ?", sectorID, false, false).
		Order("characters.id").
		Pluck("characters.id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list sector characters: %w", result.Error)
	}
	return ids, nil
}

// CorporationMemberIDs returns the active members of a corporation
func (r *GormRecipientSources) CorporationMemberIDs(ctx context.Context, corporationID string) ([]string, error) {
	var ids []string
	result := r.db.WithContext(ctx).
		Model(&CorporationMemberModel{}).
		Where("corporation_id = ? AND left_at IS NULL", corporationID).
		Order("character_id").
		Pluck("character_id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list corporation members: %w", result.Error)
	}
	return ids, nil
}

// SectorGarrisonOwners returns the owner and owning corporation of every
// garrison in the sector.
func (r *GormRecipientSources) SectorGarrisonOwners(ctx context.Context, sectorID int) ([]event.GarrisonOwner, error) {
	var models []GarrisonModel
	result := r.db.WithContext(ctx).
		Where("sector_id = ? AND fighters > 0", sectorID).
		Order("owner_id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list sector garrisons: %w", result.Error)
	}

	owners := make([]event.GarrisonOwner, 0, len(models))
	for _, m := range models {
		owners = append(owners, event.GarrisonOwner{
			OwnerID:       m.OwnerID,
			CorporationID: m.OwnerCorporationID,
		})
	}
	return owners, nil
}

package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// GormCharacterRepository implements player.CharacterRepository using GORM
type GormCharacterRepository struct {
	db *gorm.DB
}

// NewGormCharacterRepository creates a new GORM character repository
func NewGormCharacterRepository(db *gorm.DB) *GormCharacterRepository {
	return &GormCharacterRepository{db: db}
}

// FindByID retrieves a character by id
func (r *GormCharacterRepository) FindByID(ctx context.Context, id string) (*player.Character, error) {
	var model CharacterModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewDataIntegrityError("character not found: " + id)
		}
		return nil, fmt.Errorf("failed to find character: %w", result.Error)
	}
	return r.modelToCharacter(&model)
}

// Save persists a character
func (r *GormCharacterRepository) Save(ctx context.Context, c *player.Character) error {
	model := r.characterToModel(c)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save character: %w", result.Error)
	}
	return nil
}

// ClearCurrentShip nulls the character's ship reference; first step of
// corporation-ship teardown.
func (r *GormCharacterRepository) ClearCurrentShip(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&CharacterModel{}).
		Where("id = ?", id).
		Update("current_ship_id", nil)
	if result.Error != nil {
		return fmt.Errorf("failed to clear ship reference: %w", result.Error)
	}
	return nil
}

// Delete removes a character row
func (r *GormCharacterRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&CharacterModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete character: %w", result.Error)
	}
	return nil
}

func (r *GormCharacterRepository) characterToModel(c *player.Character) *CharacterModel {
	model := &CharacterModel{
		ID:            c.ID,
		Name:          c.Name,
		Type:          string(c.Type),
		CorporationID: c.CorporationID,
		Credits:       c.Credits,
	}
	if c.CurrentShipID != nil {
		shipID := c.CurrentShipID.String()
		model.CurrentShipID = &shipID
	}
	return model
}

func (r *GormCharacterRepository) modelToCharacter(model *CharacterModel) (*player.Character, error) {
	c := &player.Character{
		ID:            model.ID,
		Name:          model.Name,
		Type:          player.CharacterType(model.Type),
		CorporationID: model.CorporationID,
		Credits:       model.Credits,
	}
	if model.CurrentShipID != nil && *model.CurrentShipID != "" {
		shipID, err := uuid.Parse(*model.CurrentShipID)
		if err != nil {
			return nil, fmt.Errorf("invalid ship reference in database: %w", err)
		}
		c.CurrentShipID = &shipID
	}
	return c, nil
}

// GormCorporationRepository implements player.CorporationRepository using GORM
type GormCorporationRepository struct {
	db *gorm.DB
}

// NewGormCorporationRepository creates a new GORM corporation repository
func NewGormCorporationRepository(db *gorm.DB) *GormCorporationRepository {
	return &GormCorporationRepository{db: db}
}

// ActiveMemberIDs returns the character ids of members that have not left
// the corporation.
func (r *GormCorporationRepository) ActiveMemberIDs(ctx context.Context, corporationID string) ([]string, error) {
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

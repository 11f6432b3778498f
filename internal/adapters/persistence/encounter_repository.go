package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/quadrant-go/internal/domain/combat"
)

// GormEncounterRepository implements combat.EncounterRepository using GORM
type GormEncounterRepository struct {
	db *gorm.DB
}

// NewGormEncounterRepository creates a new GORM encounter repository
func NewGormEncounterRepository(db *gorm.DB) *GormEncounterRepository {
	return &GormEncounterRepository{db: db}
}

// encounterState is the JSON blob persisted alongside the indexed columns
type encounterState struct {
	Participants   map[string]*combat.Combatant   `json:"participants"`
	PendingActions map[string]*combat.RoundAction `json:"pending_actions"`
	Log            []*combat.RoundRecord          `json:"log"`
	Context        *combat.EncounterContext       `json:"context"`
}

// FindByID retrieves an encounter by id, or nil when it does not exist
func (r *GormEncounterRepository) FindByID(ctx context.Context, id uuid.UUID) (*combat.Encounter, error) {
	var model EncounterModel
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find encounter: %w", result.Error)
	}
	return r.modelToEncounter(&model)
}

// FindActiveBySector returns the single non-ended encounter for a sector, or
// nil when the sector is at peace.
func (r *GormEncounterRepository) FindActiveBySector(ctx context.Context, sectorID int) (*combat.Encounter, error) {
	var model EncounterModel
	result := r.db.WithContext(ctx).
		Where("sector_id = ? AND ended = ?", sectorID, false).
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active encounter: %w", result.Error)
	}
	return r.modelToEncounter(&model)
}

// Save persists a full encounter snapshot
func (r *GormEncounterRepository) Save(ctx context.Context, enc *combat.Encounter) error {
	model, err := r.encounterToModel(enc)
	if err != nil {
		return fmt.Errorf("failed to convert encounter to model: %w", err)
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save encounter: %w", result.Error)
	}
	return nil
}

// FindExpiredDeadlines returns active encounters whose round deadline has
// passed, for the background sweeper.
func (r *GormEncounterRepository) FindExpiredDeadlines(ctx context.Context, now time.Time) ([]*combat.Encounter, error) {
	var models []EncounterModel
	result := r.db.WithContext(ctx).
		Where("ended = ? AND deadline IS NOT NULL AND deadline < ?", false, now).
		Order("sector_id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find expired encounters: %w", result.Error)
	}

	encounters := make([]*combat.Encounter, 0, len(models))
	for i := range models {
		enc, err := r.modelToEncounter(&models[i])
		if err != nil {
			return nil, err
		}
		encounters = append(encounters, enc)
	}
	return encounters, nil
}

func (r *GormEncounterRepository) encounterToModel(enc *combat.Encounter) (*EncounterModel, error) {
	state, err := json.Marshal(&encounterState{
		Participants:   enc.Participants,
		PendingActions: enc.PendingActions,
		Log:            enc.Log,
		Context:        enc.Context,
	})
	if err != nil {
		return nil, err
	}

	return &EncounterModel{
		ID:                 enc.ID.String(),
		SectorID:           enc.SectorID,
		Round:              enc.Round,
		Deadline:           enc.Deadline,
		BaseSeed:           strconv.FormatUint(enc.BaseSeed, 10),
		State:              string(state),
		AwaitingResolution: enc.AwaitingResolution,
		Ended:              enc.Ended,
		EndState:           enc.EndState,
	}, nil
}

func (r *GormEncounterRepository) modelToEncounter(model *EncounterModel) (*combat.Encounter, error) {
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid encounter id in database: %w", err)
	}
	seed, err := strconv.ParseUint(model.BaseSeed, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid encounter seed in database: %w", err)
	}

	var state encounterState
	if err := json.Unmarshal([]byte(model.State), &state); err != nil {
		return nil, fmt.Errorf("invalid encounter state in database: %w", err)
	}
	if state.Participants == nil {
		state.Participants = make(map[string]*combat.Combatant)
	}
	if state.PendingActions == nil {
		state.PendingActions = make(map[string]*combat.RoundAction)
	}
	if state.Context != nil && state.Context.Tolls == nil {
		state.Context.Tolls = make(combat.TollRegistry)
	}

	return &combat.Encounter{
		ID:                 id,
		SectorID:           model.SectorID,
		Round:              model.Round,
		Deadline:           model.Deadline,
		Participants:       state.Participants,
		PendingActions:     state.PendingActions,
		Log:                state.Log,
		BaseSeed:           seed,
		Context:            state.Context,
		AwaitingResolution: model.AwaitingResolution,
		Ended:              model.Ended,
		EndState:           model.EndState,
	}, nil
}

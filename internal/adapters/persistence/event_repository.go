package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/avelasquez/quadrant-go/internal/domain/event"
)

// GormEventRepository implements event.Repository using GORM. Insert writes
// the event row and its recipient rows in one transaction; the autoincrement
// id is the monotonic order clients rely on.
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GORM event repository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// Insert persists an event with its recipient list atomically and returns
// the store-assigned id.
func (r *GormEventRepository) Insert(ctx context.Context, e *event.GameEvent) (int64, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	model := &EventModel{
		Type:             e.Type,
		Scope:            string(e.Scope),
		SectorID:         e.SectorID,
		ActorCharacterID: e.ActorCharacterID,
		CorporationID:    e.CorporationID,
		ShipID:           e.ShipID,
		Payload:          string(payload),
		SourceMethod:     e.Source.Method,
		SourceRequestID:  e.Source.RequestID,
		SourceTimestamp:  e.Source.Timestamp,
		CreatedAt:        e.CreatedAt,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(model); result.Error != nil {
			return fmt.Errorf("failed to insert event: %w", result.Error)
		}

		if len(e.Recipients) == 0 {
			return nil
		}
		recipients := make([]EventRecipientModel, 0, len(e.Recipients))
		for _, rec := range e.Recipients {
			recipients = append(recipients, EventRecipientModel{
				EventID:     model.ID,
				CharacterID: rec.CharacterID,
				Reason:      string(rec.Reason),
			})
		}
		if result := tx.Create(&recipients); result.Error != nil {
			return fmt.Errorf("failed to insert event recipients: %w", result.Error)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.ID = model.ID
	return model.ID, nil
}

// FindForCharacter returns a character's inbox since a given event id,
// ordered by id ascending.
func (r *GormEventRepository) FindForCharacter(ctx context.Context, characterID string, sinceID int64, limit int) ([]*event.GameEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	var models []EventModel
	result := r.db.WithContext(ctx).
		Joins("JOIN event_recipients ON event_recipients.event_id = events.id").
		Where("event_recipients.character_id = ? AND events.id > ?", characterID, sinceID).
		Order("events.id").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load character events: %w", result.Error)
	}

	events := make([]*event.GameEvent, 0, len(models))
	for i := range models {
		e, err := r.modelToEvent(&models[i])
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func (r *GormEventRepository) modelToEvent(model *EventModel) (*event.GameEvent, error) {
	var payload map[string]interface{}
	if model.Payload != "" {
		if err := json.Unmarshal([]byte(model.Payload), &payload); err != nil {
			return nil, fmt.Errorf("invalid event payload in database: %w", err)
		}
	}

	return &event.GameEvent{
		ID:               model.ID,
		Type:             model.Type,
		Scope:            event.Scope(model.Scope),
		SectorID:         model.SectorID,
		ActorCharacterID: model.ActorCharacterID,
		CorporationID:    model.CorporationID,
		ShipID:           model.ShipID,
		Payload:          payload,
		Source: event.SourceStamp{
			Method:    model.SourceMethod,
			RequestID: model.SourceRequestID,
			Timestamp: model.SourceTimestamp,
		},
		CreatedAt: model.CreatedAt,
	}, nil
}

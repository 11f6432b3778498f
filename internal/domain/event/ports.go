package event

import "context"

// Repository persists events. Insert writes the event row and its recipient
// rows in one atomic call and returns the store-assigned monotonic id.
type Repository interface {
	Insert(ctx context.Context, e *GameEvent) (int64, error)

	// FindForCharacter returns a character's inbox since a given event id,
	// ordered by id ascending.
	FindForCharacter(ctx context.Context, characterID string, sinceID int64, limit int) ([]*GameEvent, error)
}

package player

import "context"

// CharacterRepository defines character persistence operations
type CharacterRepository interface {
	FindByID(ctx context.Context, id string) (*Character, error)
	Save(ctx context.Context, c *Character) error

	// ClearCurrentShip nulls the character's ship reference; first step of
	// corporation-ship teardown.
	ClearCurrentShip(ctx context.Context, id string) error

	Delete(ctx context.Context, id string) error
}

// CorporationRepository exposes corporation membership. Read-mostly; no
// locking required.
type CorporationRepository interface {
	// ActiveMemberIDs returns the character ids of members that have not
	// left the corporation.
	ActiveMemberIDs(ctx context.Context, corporationID string) ([]string, error)
}

package auth

import (
	"context"

	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
)

// ShipAuthorizer decides whether an actor may act through a ship. The actor
// must be the piloting character whose current ship reference still points at
// the hull; adminOverride bypasses the check for operator tooling.
type ShipAuthorizer struct {
	characters player.CharacterRepository
}

// NewShipAuthorizer creates a ship authorizer
func NewShipAuthorizer(characters player.CharacterRepository) *ShipAuthorizer {
	return &ShipAuthorizer{characters: characters}
}

// Authorize checks that actorID pilots the target ship
func (a *ShipAuthorizer) Authorize(ctx context.Context, actorID string, target *ship.Ship, adminOverride bool) error {
	if adminOverride {
		return nil
	}
	if target == nil {
		return shared.NewAuthorizationError(actorID, "")
	}
	if target.OwnerCharacterID != actorID {
		return shared.NewAuthorizationError(actorID, target.ID.String())
	}

	character, err := a.characters.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if character.CurrentShipID == nil || *character.CurrentShipID != target.ID {
		return shared.NewAuthorizationError(actorID, target.ID.String())
	}
	return nil
}

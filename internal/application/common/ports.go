package common

import (
	"context"

	"github.com/avelasquez/quadrant-go/internal/domain/ship"
)

// RateLimiter bounds per-character call rates. Check returns a
// RateLimitError on exceedance; the core treats the implementation as
// opaque.
type RateLimiter interface {
	Check(characterID, method string) error
}

// Authorizer decides whether an actor may act on a target ship
type Authorizer interface {
	Authorize(ctx context.Context, actorID string, target *ship.Ship, adminOverride bool) error
}

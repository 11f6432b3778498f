package commands

import (
	"context"
	"fmt"

	"github.com/avelasquez/quadrant-go/internal/application/common"
	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/event"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// ResolveRoundHandler resolves a sector's current round. It serves both the
// deadline sweeper and explicit resolution requests; stale rounds are
// successful no-ops so concurrent triggers stay idempotent.
type ResolveRoundHandler struct {
	encounters combat.EncounterRepository
	locker     combat.SectorLocker
	rounds     *RoundService
	clock      shared.Clock
}

// NewResolveRoundHandler creates a resolve-round handler
func NewResolveRoundHandler(
	encounters combat.EncounterRepository,
	locker combat.SectorLocker,
	rounds *RoundService,
	clock shared.Clock,
) *ResolveRoundHandler {
	return &ResolveRoundHandler{
		encounters: encounters,
		locker:     locker,
		rounds:     rounds,
		clock:      clock,
	}
}

// Handle executes the resolve-round command
func (h *ResolveRoundHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ResolveRoundCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	method := cmd.Method
	if method == "" {
		method = "combat.resolve"
	}
	source := event.NewSourceStamp(method, h.clock.Now())

	unlock, err := h.locker.Lock(ctx, cmd.SectorID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	enc, err := h.encounters.FindActiveBySector(ctx, cmd.SectorID)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		// The sweeper races encounter termination; with a round argument
		// this is the idempotent no-op case rather than a conflict.
		if cmd.Round > 0 {
			return &ResolveRoundResponse{Skipped: true}, nil
		}
		return nil, shared.NewStateConflictError("sector has no active combat")
	}

	return h.rounds.Resolve(ctx, enc, cmd.Round, source)
}
